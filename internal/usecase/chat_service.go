package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/events"
	"github.com/jengatrack/jengatrack/internal/gateway"
	"github.com/jengatrack/jengatrack/internal/intent"
	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/internal/reply"
	"github.com/jengatrack/jengatrack/internal/reqctx"
	"github.com/jengatrack/jengatrack/internal/storage"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// classifierModel names the rule-based classifier in the ai_usage_log ledger.
const classifierModel = "intent-rules-v1"

// recentExpensesInReport caps the expense lines rendered in a chat report.
const recentExpensesInReport = 5

// InboundMessage is one message extracted from a webhook delivery.
type InboundMessage struct {
	From        string // raw sender phone from the webhook
	Body        string
	MessageType string // "text", "image", ...
	ProviderID  string // Cloud API message id (wamid)
	Timestamp   time.Time
	Metadata    datatypes.JSON
}

// ChatService runs the inbound chat flow: classify, act, reply, audit.
type ChatService struct {
	profiles  storage.ProfileRepo
	projects  storage.ProjectRepo
	expenses  storage.ExpenseRepo
	tasks     storage.TaskRepo
	messages  storage.MessageLogRepo
	aiUsage   storage.AIUsageRepo
	parser    *intent.Parser
	sender    gateway.Sender
	publisher events.Publisher
}

// NewChatService wires the chat flow dependencies.
func NewChatService(
	profiles storage.ProfileRepo,
	projects storage.ProjectRepo,
	expenses storage.ExpenseRepo,
	tasks storage.TaskRepo,
	messages storage.MessageLogRepo,
	aiUsage storage.AIUsageRepo,
	parser *intent.Parser,
	sender gateway.Sender,
	publisher events.Publisher,
) *ChatService {
	return &ChatService{
		profiles:  profiles,
		projects:  projects,
		expenses:  expenses,
		tasks:     tasks,
		messages:  messages,
		aiUsage:   aiUsage,
		parser:    parser,
		sender:    sender,
		publisher: publisher,
	}
}

// ProfileByPhone looks up a profile by normalized phone number. An unknown
// number is not an error; it returns (nil, nil).
func (s *ChatService) ProfileByPhone(ctx context.Context, phone string) (*model.Profile, error) {
	profile, err := s.profiles.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// ActiveProject returns the profile's default project, or (nil, nil) when the
// profile has no active project.
func (s *ChatService) ActiveProject(ctx context.Context, profileID string) (*model.Project, error) {
	project, err := s.projects.FindActiveByProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

// HandleInbound runs the full flow for one inbound message. Failures reach
// the user only as the generic failure template; details stay in the logs and
// on the message-log row.
func (s *ChatService) HandleInbound(ctx context.Context, msg InboundMessage) error {
	phone := NormalizePhone(msg.From)
	if phone == "" {
		return fmt.Errorf("%w: empty sender phone", apperrors.ErrBadRequest)
	}
	ctx = reqctx.WithPhone(ctx, phone)
	log := logger.FromContext(ctx).With(zap.String("phone_number", phone))
	start := utils.Now()

	result := s.classify(ctx, msg)

	inbound := &model.WhatsAppMessage{
		PhoneNumber: phone,
		Direction:   model.DirectionInbound,
		Body:        msg.Body,
		MessageType: msg.MessageType,
		Intent:      result.Intent,
		Confidence:  result.Confidence,
		ReceivedAt:  msg.Timestamp,
		Metadata:    msg.Metadata,
	}
	if err := s.messages.Save(ctx, inbound); err != nil {
		observer.IncMessagesFailed(result.Intent, model.DirectionInbound)
		return fmt.Errorf("failed to log inbound message: %w", err)
	}
	observer.IncMessagesReceived(result.Intent, model.DirectionInbound)

	replyText, projectID, procErr := s.dispatch(ctx, phone, msg, result)
	if procErr != nil {
		log.Error("Failed to process inbound message",
			zap.String("intent", result.Intent),
			zap.Error(procErr))
		replyText = reply.ProcessingFailed()
	}

	sendErr := s.sendReply(ctx, phone, replyText, result.Intent)

	errText := ""
	switch {
	case procErr != nil:
		errText = procErr.Error()
	case sendErr != nil:
		errText = sendErr.Error()
	}
	if markErr := s.messages.MarkProcessed(ctx, inbound.ID, errText); markErr != nil {
		log.Error("Failed to mark message processed",
			zap.Int64("message_log_id", inbound.ID),
			zap.Error(markErr))
	}

	observer.ObserveMessageProcessingDuration(result.Intent, model.DirectionInbound, time.Since(start))
	if procErr == nil && sendErr == nil {
		observer.IncMessagesProcessed(result.Intent, model.DirectionInbound)
	} else {
		observer.IncMessagesFailed(result.Intent, model.DirectionInbound)
	}

	if pubErr := s.publisher.PublishProcessed(ctx, events.ProcessedEvent{
		MessageLogID: inbound.ID,
		PhoneNumber:  phone,
		Intent:       result.Intent,
		Confidence:   result.Confidence,
		ProjectID:    projectID,
		Success:      errText == "",
		Error:        errText,
	}); pubErr != nil {
		log.Warn("Failed to publish processed event", zap.Error(pubErr))
	}

	if procErr != nil {
		return procErr
	}
	return sendErr
}

// classify assigns an intent and meters the classifier run.
func (s *ChatService) classify(ctx context.Context, msg InboundMessage) intent.Result {
	if msg.MessageType == "image" {
		return intent.Result{Intent: intent.IntentImage, Confidence: 1}
	}
	result := s.parser.Classify(msg.Body)

	usage := &model.AIUsageLog{
		Model:        classifierModel,
		PromptTokens: estimateTokens(msg.Body),
		Intent:       result.Intent,
	}
	if err := s.aiUsage.Save(ctx, usage); err != nil {
		logger.FromContext(ctx).Warn("Failed to record classifier usage", zap.Error(err))
	}
	return result
}

// dispatch routes a classified message to its handler and returns the reply
// text plus the project the action touched, if any.
func (s *ChatService) dispatch(ctx context.Context, phone string, msg InboundMessage, result intent.Result) (string, string, error) {
	profile, err := s.ProfileByPhone(ctx, phone)
	if err != nil {
		return "", "", err
	}

	if profile == nil {
		newProfile := &model.Profile{
			PhoneNumber: phone,
			Currency:    model.DefaultCurrency,
			Language:    model.DefaultLanguage,
		}
		if err := s.profiles.Save(ctx, newProfile); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return "", "", err
		}
		observer.IncMessageProcessingAction(result.Intent, "onboard", "")
		return reply.Onboarding(), "", nil
	}

	currency := profile.CurrencyOrDefault()

	// Intents that do not need an active project
	switch result.Intent {
	case intent.IntentGreeting:
		return reply.Greeting(profile.DisplayName), "", nil
	case intent.IntentUnknown:
		return reply.Help(), "", nil
	case intent.IntentProjectCreate:
		project := &model.Project{
			ProfileID: profile.ID,
			Name:      result.Description,
			Status:    model.ProjectStatusActive,
		}
		if err := s.projects.Save(ctx, project); err != nil {
			observer.IncMessageProcessingAction(result.Intent, "create_project", observer.SanitizeErrorType(err.Error()))
			return "", "", err
		}
		observer.IncMessageProcessingAction(result.Intent, "create_project", "")
		return reply.ProjectCreated(project.Name), project.ID, nil
	}

	project, err := s.ActiveProject(ctx, profile.ID)
	if err != nil {
		return "", "", err
	}
	if project == nil {
		observer.IncMessageProcessingAction(result.Intent, "no_active_project", "")
		return reply.NoActiveProject(), "", nil
	}

	switch result.Intent {
	case intent.IntentExpenseLog:
		expense := &model.Expense{
			ProjectID:   project.ID,
			ProfileID:   profile.ID,
			Amount:      result.Amount,
			Description: result.Description,
			Category:    result.Category,
			MessageID:   msg.ProviderID,
		}
		if err := s.expenses.Save(ctx, expense); err != nil {
			observer.IncMessageProcessingAction(result.Intent, "log_expense", observer.SanitizeErrorType(err.Error()))
			return "", project.ID, err
		}
		summary, err := s.projects.Summary(ctx, project.ID)
		if err != nil {
			observer.IncMessageProcessingAction(result.Intent, "log_expense", observer.SanitizeErrorType(err.Error()))
			return "", project.ID, err
		}
		observer.IncMessageProcessingAction(result.Intent, "log_expense", "")
		return reply.ExpenseLogged(currency, expense.Amount, expense.Description, expense.Category, summary.TotalSpent), project.ID, nil

	case intent.IntentBudgetSet:
		if err := s.projects.UpdateBudget(ctx, project.ID, result.Amount); err != nil {
			observer.IncMessageProcessingAction(result.Intent, "set_budget", observer.SanitizeErrorType(err.Error()))
			return "", project.ID, err
		}
		observer.IncMessageProcessingAction(result.Intent, "set_budget", "")
		return reply.BudgetUpdated(currency, result.Amount), project.ID, nil

	case intent.IntentTaskCreate:
		task := &model.Task{
			ProjectID: project.ID,
			Title:     result.Description,
			Status:    model.TaskStatusPending,
		}
		if err := s.tasks.Save(ctx, task); err != nil {
			observer.IncMessageProcessingAction(result.Intent, "create_task", observer.SanitizeErrorType(err.Error()))
			return "", project.ID, err
		}
		observer.IncMessageProcessingAction(result.Intent, "create_task", "")
		return reply.TaskAdded(task.Title), project.ID, nil

	case intent.IntentExpenseQuery:
		summary, err := s.projects.Summary(ctx, project.ID)
		if err != nil {
			return "", project.ID, err
		}
		recent, err := s.expenses.FindRecentByProject(ctx, project.ID, recentExpensesInReport, 0)
		if err != nil {
			return "", project.ID, err
		}
		observer.IncMessageProcessingAction(result.Intent, "report", "")
		return reply.ExpenseReport(project.Name, currency, *summary, recent), project.ID, nil

	case intent.IntentImage:
		observer.IncMessageProcessingAction(result.Intent, "ack_image", "")
		return reply.ImageReceived(), project.ID, nil

	default:
		return reply.Help(), "", nil
	}
}

// sendReply delivers the reply through the gateway and appends the outbound
// audit row.
func (s *ChatService) sendReply(ctx context.Context, phone, body, intentLabel string) error {
	messageID, err := s.sender.SendText(ctx, phone, body)
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	outbound := &model.WhatsAppMessage{
		PhoneNumber: phone,
		Direction:   model.DirectionOutbound,
		Body:        body,
		MessageType: "text",
		Intent:      intentLabel,
		Processed:   true,
	}
	if messageID != "" {
		outbound.Metadata = datatypes.JSON(utils.MustMarshalJSON(map[string]string{"provider_message_id": messageID}))
	}
	if err := s.messages.Save(ctx, outbound); err != nil {
		logger.FromContext(ctx).Warn("Failed to log outbound message", zap.Error(err))
	}
	observer.IncMessagesProcessed(intentLabel, model.DirectionOutbound)
	return nil
}

// estimateTokens approximates token usage from text length. The rule-based
// classifier consumes no paid tokens; the ledger still records an estimate so
// usage stays comparable if a hosted model replaces the rules.
func estimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
