package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gabot/faq-backend/internal/api/middleware"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/pkg/request"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase  ClientUsecase
	sessions Sessions
}

func NewHandler(usecase ClientUsecase, sessions Sessions) *Handler {
	return &Handler{
		usecase:  usecase,
		sessions: sessions,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Register")

	var req entity.RegisterRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	c, err := h.usecase.Register(ctx, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Created(w, toClientSummary(c))
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Login")

	var req entity.LoginRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	c, err := h.usecase.Login(ctx, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	if err := h.sessions.Login(w, r, c); err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to start session", err)
		return
	}

	ctxzap.Info(ctx, "client logged in", zap.Int64("client_id", c.ID))
	response.Success(w, toClientSummary(c))
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Logout")

	if err := h.sessions.Logout(w, r); err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to end session", err)
		return
	}

	response.Success(w, &entity.StatusResponse{Status: "logged_out"})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Me")
	p, _ := middleware.PrincipalFromContext(ctx)

	c, err := h.usecase.Get(ctx, p.ClientID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, toClientSummary(c))
}

// ListClients handles GET /admin/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListClients")

	clients, err := h.usecase.List(ctx)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	summaries := make([]*entity.ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, toClientSummary(c))
	}

	response.Success(w, &entity.ListClientsResponse{Clients: summaries})
}

// ApproveClient handles POST /admin/clients/{client_id}/approve
func (h *Handler) ApproveClient(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, "ApproveClient", h.usecase.Approve, entity.ClientStatusApproved)
}

// RejectClient handles POST /admin/clients/{client_id}/reject
func (h *Handler) RejectClient(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, "RejectClient", h.usecase.Reject, entity.ClientStatusRejected)
}

func (h *Handler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(ctx context.Context, id int64) error,
	status entity.ClientStatus,
) {
	ctx := logger.WithAction(r.Context(), action)

	id, err := clientID(r)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	if err := apply(ctx, id); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, &entity.StatusResponse{Status: string(status)})
}

// DeleteClient handles DELETE /admin/clients/{client_id}
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteClient")
	p, _ := middleware.PrincipalFromContext(ctx)

	id, err := clientID(r)
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

func clientID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "client_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: client_id", entity.ErrInvalidParameter)
	}
	return id, nil
}
