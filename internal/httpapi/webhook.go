package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/reqctx"
	"github.com/jengatrack/jengatrack/internal/storage"
	"github.com/jengatrack/jengatrack/internal/usecase"
	"github.com/jengatrack/jengatrack/internal/validator"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// Debug feed paging bounds.
const (
	defaultDebugLimit = 20
	maxDebugLimit     = 200
)

// WebhookPayload is the envelope the Cloud API posts on each delivery.
type WebhookPayload struct {
	Object string         `json:"object" validate:"required"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry groups changes for one WhatsApp Business Account.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is one field update inside an entry.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue carries the messages and delivery statuses of a change.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Messages         []WebhookMessage `json:"messages,omitempty"`
	Statuses         []WebhookStatus  `json:"statuses,omitempty"`
}

// WebhookMetadata identifies the receiving business number.
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookMessage is a single user message inside a delivery.
type WebhookMessage struct {
	From      string        `json:"from"`
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Text      *TextPayload  `json:"text,omitempty"`
	Image     *MediaPayload `json:"image,omitempty"`
}

// TextPayload is the body of a text message.
type TextPayload struct {
	Body string `json:"body"`
}

// MediaPayload is an attached media object, for us a receipt photo.
type MediaPayload struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// WebhookStatus is a delivery receipt for a previously sent message.
type WebhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// WebhookHandler terminates the Cloud API webhook: the verification
// handshake, message deliveries, and the debug feed over the message log.
type WebhookHandler struct {
	verifyToken string
	worker      usecase.IMessageWorker
	messages    storage.MessageLogRepo
}

// NewWebhookHandler wires the webhook endpoints.
func NewWebhookHandler(verifyToken string, worker usecase.IMessageWorker, messages storage.MessageLogRepo) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		worker:      worker,
		messages:    messages,
	}
}

// Verify answers Meta's subscription handshake. The challenge echoes back
// only when mode and token match.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	if mode != "subscribe" || token != h.verifyToken {
		logger.FromContext(c.Request.Context()).Warn("Webhook verification rejected",
			zap.String("mode", mode))
		c.Status(http.StatusForbidden)
		return
	}

	logger.FromContext(c.Request.Context()).Info("Webhook verified")
	c.String(http.StatusOK, challenge)
}

// Receive accepts a Cloud API delivery, queues every supported message for
// async processing, and acknowledges immediately. The Cloud API retries on
// non-200, so queue-full is the only condition worth a 503.
func (h *WebhookHandler) Receive(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("Failed to bind webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validator.Validate(payload); err != nil {
		log.Warn("Webhook payload failed validation", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The request context dies when we ACK; tasks get a detached context
	// that keeps the request id and logger.
	taskCtx := logger.WithLogger(context.Background(), log)
	if requestID, err := reqctx.RequestIDFromContext(c.Request.Context()); err == nil {
		taskCtx = reqctx.WithRequestID(taskCtx, requestID)
	}

	accepted := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, status := range change.Value.Statuses {
				log.Debug("Delivery status received",
					zap.String("provider_message_id", status.ID),
					zap.String("status", status.Status))
			}
			for _, msg := range change.Value.Messages {
				inbound, ok := toInboundMessage(msg)
				if !ok {
					log.Debug("Skipping unsupported message type",
						zap.String("type", msg.Type),
						zap.String("provider_message_id", msg.ID))
					continue
				}
				if err := h.worker.SubmitTask(usecase.MessageTask{Ctx: taskCtx, Message: inbound}); err != nil {
					log.Error("Failed to queue inbound message", zap.Error(err))
					c.JSON(http.StatusServiceUnavailable, gin.H{"error": "processing queue full"})
					return
				}
				accepted++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted", "messages": accepted})
}

// toInboundMessage flattens a webhook message into the processing shape.
// Only text and image messages are supported.
func toInboundMessage(msg WebhookMessage) (usecase.InboundMessage, bool) {
	inbound := usecase.InboundMessage{
		From:       msg.From,
		ProviderID: msg.ID,
	}
	if ts, err := strconv.ParseInt(msg.Timestamp, 10, 64); err == nil {
		inbound.Timestamp = utils.UnixToTime(ts)
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return usecase.InboundMessage{}, false
		}
		inbound.MessageType = "text"
		inbound.Body = msg.Text.Body
	case "image":
		if msg.Image == nil {
			return usecase.InboundMessage{}, false
		}
		inbound.MessageType = "image"
		inbound.Body = msg.Image.Caption
		inbound.Metadata = datatypes.JSON(utils.MustMarshalJSON(map[string]string{
			"media_id":  msg.Image.ID,
			"mime_type": msg.Image.MimeType,
		}))
	default:
		return usecase.InboundMessage{}, false
	}
	return inbound, true
}

// Debug returns the most recent message-log rows, newest first.
func (h *WebhookHandler) Debug(c *gin.Context) {
	limit := defaultDebugLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxDebugLimit {
		limit = maxDebugLimit
	}

	rows, err := h.messages.FindRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []model.WhatsAppMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "messages": rows})
}
