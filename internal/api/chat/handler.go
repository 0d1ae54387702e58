package chat

import (
	"net/http"
	"strconv"

	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/pkg/request"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
	cfg     config.ChatConfig
}

func NewHandler(usecase ChatUsecase, cfg config.ChatConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Chat handles POST /chat. The tenant is the client_id from the body, else the
// logged-in client, else the configured default client.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	switch {
	case req.ClientID > 0:
	case req.ClientID < 0:
		response.Error(ctx, w, http.StatusBadRequest, "invalid client_id", nil)
		return
	default:
		if p, ok := middleware.PrincipalFromContext(ctx); ok {
			req.ClientID = p.ClientID
		} else {
			req.ClientID = h.cfg.DefaultClientID
		}
	}
	ctx = logger.AddFields(ctx, zap.Int64("chat_client_id", req.ClientID))

	resp, err := h.usecase.Chat(ctx, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// History handles GET /chat/history?skip=&limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatHistory")
	p, _ := middleware.PrincipalFromContext(ctx)

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.usecase.History(ctx, p.ClientID, &entity.ListHistoryRequest{Skip: skip, Limit: limit})
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "chat history listed", zap.Int("count", len(page.Chats)))
	response.Success(w, page)
}

// ClearHistory handles DELETE /chat/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearChatHistory")
	p, _ := middleware.PrincipalFromContext(ctx)

	deleted, err := h.usecase.ClearHistory(ctx, p.ClientID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, &entity.ClearHistoryResponse{Deleted: deleted})
}

// Analytics handles GET /analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Analytics")
	p, _ := middleware.PrincipalFromContext(ctx)

	a, err := h.usecase.Analytics(ctx, p.ClientID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, a)
}
