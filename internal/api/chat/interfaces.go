package chat

import (
	"context"

	"github.com/gabot/faq-backend/internal/entity"
)

type ChatUsecase interface {
	Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
	History(ctx context.Context, clientID int64, req *entity.ListHistoryRequest) (*entity.HistoryPage, error)
	ClearHistory(ctx context.Context, clientID int64) (int64, error)
	Analytics(ctx context.Context, clientID int64) (*entity.Analytics, error)
}
