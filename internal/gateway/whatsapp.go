package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

const defaultSendTimeout = 10 * time.Second

// Sender delivers outbound messages to a chat transport.
type Sender interface {
	// SendText delivers a text message and returns the provider message ID.
	SendText(ctx context.Context, to, body string) (string, error)
}

// WhatsAppClient sends messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
}

// NewWhatsAppClient creates a Cloud API client from config.
func NewWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL:       cfg.GraphBaseURL,
		phoneNumberID: cfg.PhoneNumberID,
		accessToken:   cfg.AccessToken,
		httpClient:    &http.Client{Timeout: defaultSendTimeout},
	}
}

// --- Cloud API payloads ---

type textMessage struct {
	MessagingProduct string  `json:"messaging_product"`
	RecipientType    string  `json:"recipient_type"`
	To               string  `json:"to"`
	Type             string  `json:"type"`
	Text             textObj `json:"text"`
}

type textObj struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText posts a text message to the Cloud API messages endpoint, retrying
// transient failures (5xx, network errors) with exponential backoff.
func (c *WhatsAppClient) SendText(ctx context.Context, to, body string) (string, error) {
	if to == "" || body == "" {
		return "", fmt.Errorf("%w: recipient and body are required", apperrors.ErrBadRequest)
	}

	payload := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textObj{Body: body},
	}
	jsonData := utils.MustMarshalJSON(payload)
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	var messageID string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: failed to build request: %w", apperrors.ErrGateway, err))
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network errors are worth retrying
			return fmt.Errorf("%w: request failed: %w", apperrors.ErrGateway, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: failed to read response: %w", apperrors.ErrGateway, err)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: cloud api returned %s: %s", apperrors.ErrGateway, resp.Status, string(respBody))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%w: cloud api returned %s: %s", apperrors.ErrGateway, resp.Status, string(respBody)))
		}

		var parsed sendResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: malformed response: %w", apperrors.ErrGateway, err))
		}
		if len(parsed.Messages) > 0 {
			messageID = parsed.Messages[0].ID
		}
		return nil
	}

	notify := func(err error, d time.Duration) {
		logger.FromContext(ctx).Warn("Retrying WhatsApp send",
			zap.String("to", to),
			zap.Error(err),
			zap.Duration("after", d),
		)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 15 * time.Second

	startTime := utils.Now()
	err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	observer.ObserveGatewaySend(time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to send WhatsApp message after retries",
			zap.String("to", to),
			zap.Error(err))
		return "", err
	}

	logger.FromContext(ctx).Debug("WhatsApp message sent",
		zap.String("to", to),
		zap.String("message_id", messageID))
	return messageID, nil
}

var _ Sender = (*WhatsAppClient)(nil)
