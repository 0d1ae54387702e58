package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository defines the interface for client (tenant) persistence
type ClientRepository interface {
	Create(ctx context.Context, client entity.Client) (*entity.Client, error)
	Get(ctx context.Context, id int64) (*entity.Client, error)
	GetByUsername(ctx context.Context, username string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	ListApprovedIDs(ctx context.Context) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, status entity.ClientStatus) error
	UpdateRole(ctx context.Context, id int64, role entity.Role) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

var _ ClientRepository = &ClientPostgres{}

// ClientPostgres implements ClientRepository using PostgreSQL
type ClientPostgres struct {
	db *pgxpool.Pool
}

func NewClientPostgres(db *pgxpool.Pool) *ClientPostgres {
	return &ClientPostgres{db: db}
}

const clientColumns = `id, username, password_hash, role, status, created_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Role, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientPostgres) Create(ctx context.Context, client entity.Client) (*entity.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`INSERT INTO clients (username, password_hash, role, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+clientColumns,
		client.Username, client.PasswordHash, client.Role, client.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	return c, nil
}

func (r *ClientPostgres) Get(ctx context.Context, id int64) (*entity.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	return c, nil
}

func (r *ClientPostgres) GetByUsername(ctx context.Context, username string) (*entity.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client by username: %w", err)
	}

	return c, nil
}

func (r *ClientPostgres) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

func (r *ClientPostgres) ListApprovedIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM clients WHERE status = $1 ORDER BY id`, entity.ClientStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved clients: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan client ids: %w", err)
	}

	return ids, nil
}

func (r *ClientPostgres) UpdateStatus(ctx context.Context, id int64, status entity.ClientStatus) error {
	return r.exec(ctx, "update client status",
		`UPDATE clients SET status = $2 WHERE id = $1`, id, status)
}

func (r *ClientPostgres) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	return r.exec(ctx, "update client role",
		`UPDATE clients SET role = $2 WHERE id = $1`, id, role)
}

func (r *ClientPostgres) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, "update client password",
		`UPDATE clients SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

// Delete removes the client. FAQs and chat history go with it (ON DELETE CASCADE).
func (r *ClientPostgres) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete client", `DELETE FROM clients WHERE id = $1`, id)
}

func (r *ClientPostgres) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrClientNotFound
	}

	return nil
}
