package faq

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/pkg/request"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/gabot/faq-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// room for multipart boundaries and headers around the file
const multipartOverhead = 64 << 10

type Handler struct {
	usecase   FAQUsecase
	validator *validator.Validator
}

func NewHandler(usecase FAQUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// ListFAQs handles GET /faqs
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListFAQs")
	p, _ := middleware.PrincipalFromContext(ctx)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	req := entity.ListFAQsRequest{Page: page, PerPage: perPage}
	if category := strings.TrimSpace(q.Get("category")); category != "" {
		req.Category = &category
	}

	result, err := h.usecase.List(ctx, p.ClientID, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "faqs listed", zap.Int("count", len(result.FAQs)), zap.Int("total", result.Total))
	response.Success(w, result)
}

// GetFAQ handles GET /faqs/{faq_id}
func (h *Handler) GetFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetFAQ")
	p, _ := middleware.PrincipalFromContext(ctx)

	id, err := faqID(r)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	faq, err := h.usecase.Get(ctx, p.ClientID, id)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, faq)
}

// CreateFAQ handles POST /faqs
func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateFAQ")
	p, _ := middleware.PrincipalFromContext(ctx)

	var req entity.FAQRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	faq, err := h.usecase.Create(ctx, p.ClientID, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Created(w, faq)
}

// UpdateFAQ handles PUT /faqs/{faq_id}
func (h *Handler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UpdateFAQ")
	p, _ := middleware.PrincipalFromContext(ctx)

	id, err := faqID(r)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	var req entity.FAQRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	faq, err := h.usecase.Update(ctx, p.ClientID, id, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, faq)
}

// DeleteFAQ handles DELETE /faqs/{faq_id}
func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteFAQ")
	p, _ := middleware.PrincipalFromContext(ctx)

	id, err := faqID(r)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	if err := h.usecase.Delete(ctx, p.ClientID, id); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, &entity.StatusResponse{Status: "deleted"})
}

// BulkDeleteFAQs handles POST /faqs/bulk-delete
func (h *Handler) BulkDeleteFAQs(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "BulkDeleteFAQs")
	p, _ := middleware.PrincipalFromContext(ctx)

	var req entity.BulkDeleteRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	deleted, err := h.usecase.BulkDelete(ctx, p.ClientID, req.IDs)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, &entity.BulkDeleteResponse{Deleted: deleted})
}

// ImportFAQs handles POST /faqs/import with a multipart "csv_file" field
func (h *Handler) ImportFAQs(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ImportFAQs")
	p, _ := middleware.PrincipalFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.validator.MaxImportSize()+multipartOverhead)
	if err := r.ParseMultipartForm(h.validator.MaxImportSize()); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		response.FromError(ctx, w, fmt.Errorf("%w: csv_file", entity.ErrMissingField))
		return
	}
	defer file.Close()

	result, err := h.usecase.Import(ctx, p.ClientID, &entity.ImportRequest{
		Filename: validator.SanitizeFilename(header.Filename),
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// ExportFAQs handles GET /faqs/export?format=csv|md|pdf|docx
func (h *Handler) ExportFAQs(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportFAQs")
	p, _ := middleware.PrincipalFromContext(ctx)

	format := entity.ExportFormat(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = entity.FormatCSV
	}
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		title = "FAQ " + p.Username
	}

	result, err := h.usecase.Export(ctx, p.ClientID, format, title)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		ctxzap.Warn(ctx, "failed to write export", zap.Error(err))
	}
}

func faqID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "faq_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: faq_id", entity.ErrInvalidParameter)
	}
	return id, nil
}
