package faq

import (
	"context"

	"github.com/gabot/faq-backend/internal/entity"
)

type FAQUsecase interface {
	List(ctx context.Context, clientID int64, req *entity.ListFAQsRequest) (*entity.FAQPage, error)
	Get(ctx context.Context, clientID, id int64) (*entity.FAQ, error)
	Create(ctx context.Context, clientID int64, req *entity.FAQRequest) (*entity.FAQ, error)
	Update(ctx context.Context, clientID, id int64, req *entity.FAQRequest) (*entity.FAQ, error)
	Delete(ctx context.Context, clientID, id int64) error
	BulkDelete(ctx context.Context, clientID int64, ids []int64) (int64, error)
	Import(ctx context.Context, clientID int64, req *entity.ImportRequest) (*entity.ImportResult, error)
	Export(ctx context.Context, clientID int64, format entity.ExportFormat, title string) (*entity.ExportResult, error)
}
