package client

import (
	"context"
	"net/http"

	"github.com/gabot/faq-backend/internal/entity"
)

type ClientUsecase interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.Client, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.Client, error)
	Get(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Delete(ctx context.Context, actorID, id int64) error
}

// Sessions persists the login across requests.
type Sessions interface {
	Login(w http.ResponseWriter, r *http.Request, c *entity.Client) error
	Logout(w http.ResponseWriter, r *http.Request) error
}
