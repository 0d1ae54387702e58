package faq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/formatter"
	"github.com/gabot/faq-backend/internal/pkg/validator"
	"github.com/gabot/faq-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// FAQUsecase implements FAQ management for a single client at a time.
// Every successful mutation invalidates that client's similarity index
// before returning.
type FAQUsecase struct {
	faqRepo    repository.FAQRepository
	indexes    IndexInvalidator
	validator  *validator.Validator
	formatters *formatter.Factory
	logger     *zap.Logger
}

// NewUsecase creates a new FAQ use case
func NewUsecase(
	faqRepo repository.FAQRepository,
	indexes IndexInvalidator,
	validator *validator.Validator,
	formatters *formatter.Factory,
	logger *zap.Logger,
) *FAQUsecase {
	return &FAQUsecase{
		faqRepo:    faqRepo,
		indexes:    indexes,
		validator:  validator,
		formatters: formatters,
		logger:     logger,
	}
}

func (uc *FAQUsecase) List(ctx context.Context, clientID int64, req *entity.ListFAQsRequest) (*entity.FAQPage, error) {
	req.Normalize()

	total, err := uc.faqRepo.Count(ctx, clientID, req.Category)
	if err != nil {
		return nil, fmt.Errorf("count faqs: %w", err)
	}

	faqs, err := uc.faqRepo.List(ctx, clientID, req.Category, req.PerPage, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	categories, err := uc.faqRepo.Categories(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &entity.FAQPage{
		FAQs:       faqs,
		Page:       req.Page,
		TotalPages: (total + req.PerPage - 1) / req.PerPage,
		Total:      total,
		Category:   req.Category,
		Categories: categories,
	}, nil
}

func (uc *FAQUsecase) Get(ctx context.Context, clientID, id int64) (*entity.FAQ, error) {
	return uc.faqRepo.Get(ctx, clientID, id)
}

func (uc *FAQUsecase) Create(ctx context.Context, clientID int64, req *entity.FAQRequest) (*entity.FAQ, error) {
	req.Normalize()
	if err := uc.validator.ValidateFAQ(req); err != nil {
		return nil, err
	}

	faq, err := uc.faqRepo.Create(ctx, entity.FAQ{
		ClientID: clientID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}

	uc.indexes.Invalidate(clientID)
	ctxzap.Info(ctx, "faq created", zap.Int64("faq_id", faq.ID))

	return faq, nil
}

func (uc *FAQUsecase) Update(ctx context.Context, clientID, id int64, req *entity.FAQRequest) (*entity.FAQ, error) {
	req.Normalize()
	if err := uc.validator.ValidateFAQ(req); err != nil {
		return nil, err
	}

	faq, err := uc.faqRepo.Update(ctx, entity.FAQ{
		ID:       id,
		ClientID: clientID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}

	uc.indexes.Invalidate(clientID)
	ctxzap.Info(ctx, "faq updated", zap.Int64("faq_id", id))

	return faq, nil
}

func (uc *FAQUsecase) Delete(ctx context.Context, clientID, id int64) error {
	if err := uc.faqRepo.Delete(ctx, clientID, id); err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}

	uc.indexes.Invalidate(clientID)
	ctxzap.Info(ctx, "faq deleted", zap.Int64("faq_id", id))

	return nil
}

func (uc *FAQUsecase) BulkDelete(ctx context.Context, clientID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids", entity.ErrMissingField)
	}

	deleted, err := uc.faqRepo.DeleteMany(ctx, clientID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete faqs: %w", err)
	}

	uc.indexes.Invalidate(clientID)
	ctxzap.Info(ctx, "faqs bulk deleted",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", deleted),
	)

	return deleted, nil
}

// Import adds question,answer[,category] rows from a CSV upload. Rows whose
// question already exists, in the store or earlier in the file, are skipped.
func (uc *FAQUsecase) Import(ctx context.Context, clientID int64, req *entity.ImportRequest) (*entity.ImportResult, error) {
	if err := uc.validator.ValidateImport(req); err != nil {
		return nil, err
	}

	rows, err := parseCSV(req.Content)
	if err != nil {
		return nil, err
	}

	existing, err := uc.faqRepo.Questions(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load existing questions: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(rows.faqs))
	for _, q := range existing {
		seen[q] = true
	}

	result := &entity.ImportResult{Skipped: rows.invalid}
	toAdd := make([]entity.FAQ, 0, len(rows.faqs))
	for _, f := range rows.faqs {
		if seen[f.Question] {
			result.Skipped++
			continue
		}
		seen[f.Question] = true
		toAdd = append(toAdd, f)
	}

	added, err := uc.faqRepo.CreateMany(ctx, clientID, toAdd)
	if err != nil {
		return nil, fmt.Errorf("import faqs: %w", err)
	}
	result.Added = added
	// rows inserted concurrently by another request lose the conflict
	result.Skipped += len(toAdd) - added

	uc.indexes.Invalidate(clientID)
	ctxzap.Info(ctx, "faqs imported",
		zap.String("filename", req.Filename),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// Export renders the client's FAQs in the requested format.
func (uc *FAQUsecase) Export(ctx context.Context, clientID int64, format entity.ExportFormat, title string) (*entity.ExportResult, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	fm, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	faqs, err := uc.faqRepo.ListAll(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	content, err := fm.Format(formatter.Document{Title: title, FAQs: faqs})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format, err)
	}

	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
	if name == "" {
		name = "faq"
	}
	filename := validator.SanitizeFilename(fmt.Sprintf("%s_%s%s", name, time.Now().Format("20060102"), fm.FileExtension()))

	ctxzap.Info(ctx, "faqs exported",
		zap.String("format", string(format)),
		zap.Int("count", len(faqs)),
	)

	return &entity.ExportResult{
		Filename:    filename,
		ContentType: fm.ContentType(),
		Content:     content,
	}, nil
}
