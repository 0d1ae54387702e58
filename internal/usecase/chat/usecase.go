package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/matching"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/pkg/validator"
	"github.com/gabot/faq-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	analyticsTopN     = 10
	analyticsWindow   = 30 * 24 * time.Hour
	maxSessionIDBytes = 128
)

type ChatUsecase struct {
	matcher   Matcher
	tenants   TenantReader
	history   repository.ChatHistoryRepository
	faqs      FAQCounter
	validator *validator.Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewUsecase(
	matcher Matcher,
	tenants TenantReader,
	history repository.ChatHistoryRepository,
	faqs FAQCounter,
	validator *validator.Validator,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		matcher:   matcher,
		tenants:   tenants,
		history:   history,
		faqs:      faqs,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Chat answers one message for req.ClientID and records the turn. Only approved
// clients can be chatted with; any other id is ErrClientNotFound. Matching
// failures never surface as errors: the caller gets the processing-error copy.
func (uc *ChatUsecase) Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := uc.validator.ValidateChatMessage(req.Message); err != nil {
		return nil, err
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if len(req.SessionID) > maxSessionIDBytes {
		return nil, fmt.Errorf("%w: longer than %d bytes", entity.ErrInvalidSession, maxSessionIDBytes)
	}

	if err := uc.checkTenant(ctx, req.ClientID); err != nil {
		return nil, err
	}

	ctx = logger.AddFields(ctx, zap.String("session_id", req.SessionID))

	reply := uc.matcher.Answer(ctx, req.ClientID, req.Message)

	_, err := uc.history.Create(ctx, entity.ChatHistory{
		ClientID:    req.ClientID,
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		BotResponse: reply.Text,
		Matched:     reply.Outcome == matching.OutcomeAnswered,
	})
	if err != nil {
		// the reply is still useful to the user
		ctxzap.Error(ctx, "failed to save chat history", zap.Error(err))
	}

	ctxzap.Debug(ctx, "chat answered",
		zap.String("outcome", string(reply.Outcome)),
		zap.Float64("score", reply.Score),
	)

	return &entity.ChatResponse{
		Response:  reply.Text,
		SessionID: req.SessionID,
	}, nil
}

func (uc *ChatUsecase) checkTenant(ctx context.Context, clientID int64) error {
	client, err := uc.tenants.Get(ctx, clientID)
	if errors.Is(err, entity.ErrClientNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("load client %d: %w", clientID, err)
	}
	if client.Status != entity.ClientStatusApproved {
		return fmt.Errorf("%w: client %d is %s", entity.ErrClientNotFound, clientID, client.Status)
	}
	return nil
}

func (uc *ChatUsecase) History(ctx context.Context, clientID int64, req *entity.ListHistoryRequest) (*entity.HistoryPage, error) {
	req.Normalize()

	total, err := uc.history.Count(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("count chat history: %w", err)
	}

	chats, err := uc.history.List(ctx, clientID, req.Limit, req.Skip)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}

	return &entity.HistoryPage{Chats: chats, Total: total}, nil
}

func (uc *ChatUsecase) ClearHistory(ctx context.Context, clientID int64) (int64, error) {
	deleted, err := uc.history.DeleteAll(ctx, clientID)
	if err != nil {
		return 0, fmt.Errorf("clear chat history: %w", err)
	}

	ctxzap.Info(ctx, "chat history cleared", zap.Int64("deleted", deleted))

	return deleted, nil
}

// Analytics summarizes the client's chat turns. A turn counts as unanswered
// when the bot replied with the not-understood message.
func (uc *ChatUsecase) Analytics(ctx context.Context, clientID int64) (*entity.Analytics, error) {
	unanswered := uc.matcher.Messages().NotUnderstood

	total, missed, err := uc.history.CountResponses(ctx, clientID, unanswered)
	if err != nil {
		return nil, err
	}

	mostAsked, err := uc.history.MostAsked(ctx, clientID, analyticsTopN)
	if err != nil {
		return nil, err
	}

	topUnanswered, err := uc.history.TopWithResponse(ctx, clientID, unanswered, analyticsTopN)
	if err != nil {
		return nil, err
	}

	activity, err := uc.history.DailyActivity(ctx, clientID, uc.now().Add(-analyticsWindow))
	if err != nil {
		return nil, err
	}

	totalFAQs, err := uc.faqs.Count(ctx, clientID, nil)
	if err != nil {
		return nil, fmt.Errorf("count faqs: %w", err)
	}

	a := &entity.Analytics{
		TotalChats:      total,
		UnansweredChats: missed,
		TotalFAQs:       totalFAQs,
		MostAsked:       mostAsked,
		TopUnanswered:   topUnanswered,
		Activity:        activity,
	}
	if total > 0 {
		a.AnsweredRate = float64(total-missed) / float64(total)
	}

	return a, nil
}
