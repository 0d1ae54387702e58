package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/validator"
	"github.com/gabot/faq-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ClientUsecase implements registration, login and the admin approval workflow.
type ClientUsecase struct {
	clients   repository.ClientRepository
	indexes   IndexInvalidator
	validator *validator.Validator
	logger    *zap.Logger
	hashCost  int
	dummyHash []byte
}

func NewUsecase(
	clients repository.ClientRepository,
	indexes IndexInvalidator,
	validator *validator.Validator,
	logger *zap.Logger,
) *ClientUsecase {
	return newUsecase(clients, indexes, validator, logger, bcrypt.DefaultCost)
}

func newUsecase(
	clients repository.ClientRepository,
	indexes IndexInvalidator,
	validator *validator.Validator,
	logger *zap.Logger,
	cost int,
) *ClientUsecase {
	// compared against when the username is unknown so both paths cost the same
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	return &ClientUsecase{
		clients:   clients,
		indexes:   indexes,
		validator: validator,
		logger:    logger,
		hashCost:  cost,
		dummyHash: dummy,
	}
}

// Register creates a pending client that an admin must approve before login.
func (uc *ClientUsecase) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.Client, error) {
	req.Normalize()
	if err := uc.validator.ValidateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c, err := uc.clients.Create(ctx, entity.Client{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		Status:       entity.ClientStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	ctxzap.Info(ctx, "client registered", zap.Int64("client_id", c.ID), zap.String("username", c.Username))

	return c, nil
}

func (uc *ClientUsecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.Client, error) {
	c, err := uc.clients.GetByUsername(ctx, req.Username)
	if errors.Is(err, entity.ErrClientNotFound) {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(req.Password))
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}
	if c.Status != entity.ClientStatusApproved {
		return nil, fmt.Errorf("%w: status %s", entity.ErrClientNotApproved, c.Status)
	}

	return c, nil
}

func (uc *ClientUsecase) Get(ctx context.Context, id int64) (*entity.Client, error) {
	return uc.clients.Get(ctx, id)
}

func (uc *ClientUsecase) List(ctx context.Context) ([]*entity.Client, error) {
	return uc.clients.List(ctx)
}

// ListApprovedIDs returns the clients whose indexes are warmed at start-up.
func (uc *ClientUsecase) ListApprovedIDs(ctx context.Context) ([]int64, error) {
	return uc.clients.ListApprovedIDs(ctx)
}

func (uc *ClientUsecase) Approve(ctx context.Context, id int64) error {
	return uc.setStatus(ctx, id, entity.ClientStatusApproved)
}

func (uc *ClientUsecase) Reject(ctx context.Context, id int64) error {
	return uc.setStatus(ctx, id, entity.ClientStatusRejected)
}

func (uc *ClientUsecase) setStatus(ctx context.Context, id int64, status entity.ClientStatus) error {
	if err := uc.clients.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update client status: %w", err)
	}

	ctxzap.Info(ctx, "client status changed", zap.Int64("client_id", id), zap.String("status", string(status)))

	return nil
}

// Delete removes the client with its FAQs and chat history.
func (uc *ClientUsecase) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete own account", entity.ErrForbidden)
	}

	if err := uc.clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	uc.indexes.Invalidate(id)
	ctxzap.Info(ctx, "client deleted", zap.Int64("client_id", id))

	return nil
}

// EnsureAdmin makes sure an approved admin with the given credentials exists.
// An existing account with that username is promoted and its password reset.
func (uc *ClientUsecase) EnsureAdmin(ctx context.Context, username, password string) (*entity.Client, error) {
	req := &entity.RegisterRequest{Username: username, Password: password}
	req.Normalize()
	if err := uc.validator.ValidateRegister(req); err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c, err := uc.clients.GetByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, entity.ErrClientNotFound):
		c, err = uc.clients.Create(ctx, entity.Client{
			Username:     req.Username,
			PasswordHash: string(hash),
			Role:         entity.RoleAdmin,
			Status:       entity.ClientStatusApproved,
		})
		if err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		uc.logger.Info("admin account created", zap.String("username", c.Username))
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("get admin: %w", err)
	}

	if err := uc.clients.UpdatePassword(ctx, c.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("reset admin password: %w", err)
	}
	if !c.IsAdmin() {
		if err := uc.clients.UpdateRole(ctx, c.ID, entity.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
	}
	if c.Status != entity.ClientStatusApproved {
		if err := uc.clients.UpdateStatus(ctx, c.ID, entity.ClientStatusApproved); err != nil {
			return nil, fmt.Errorf("approve admin: %w", err)
		}
	}

	c.PasswordHash = string(hash)
	c.Role = entity.RoleAdmin
	c.Status = entity.ClientStatusApproved
	uc.logger.Info("admin account ensured", zap.Int64("client_id", c.ID), zap.String("username", c.Username))

	return c, nil
}
