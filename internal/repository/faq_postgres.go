package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FAQRepository defines the interface for FAQ persistence.
// Every method is scoped to a single client.
type FAQRepository interface {
	// ListQAPairs returns the client's question/answer pairs in insertion order.
	ListQAPairs(ctx context.Context, clientID int64) ([]entity.QAPair, error)
	List(ctx context.Context, clientID int64, category *string, limit, offset int) ([]*entity.FAQ, error)
	ListAll(ctx context.Context, clientID int64) ([]*entity.FAQ, error)
	Count(ctx context.Context, clientID int64, category *string) (int, error)
	Categories(ctx context.Context, clientID int64) ([]string, error)
	Questions(ctx context.Context, clientID int64) ([]string, error)
	Get(ctx context.Context, clientID, id int64) (*entity.FAQ, error)
	Create(ctx context.Context, faq entity.FAQ) (*entity.FAQ, error)
	// CreateMany inserts faqs in one transaction, skipping questions that
	// already exist, and returns how many rows were added.
	CreateMany(ctx context.Context, clientID int64, faqs []entity.FAQ) (int, error)
	Update(ctx context.Context, faq entity.FAQ) (*entity.FAQ, error)
	Delete(ctx context.Context, clientID, id int64) error
	DeleteMany(ctx context.Context, clientID int64, ids []int64) (int64, error)
}

var _ FAQRepository = &FAQPostgres{}

// FAQPostgres implements FAQRepository using PostgreSQL
type FAQPostgres struct {
	db *pgxpool.Pool
}

func NewFAQPostgres(db *pgxpool.Pool) *FAQPostgres {
	return &FAQPostgres{db: db}
}

const faqColumns = `id, client_id, question, answer, category, created_at, updated_at`

func scanFAQ(row pgx.Row) (*entity.FAQ, error) {
	var f entity.FAQ
	if err := row.Scan(&f.ID, &f.ClientID, &f.Question, &f.Answer, &f.Category, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFAQs(rows pgx.Rows) ([]*entity.FAQ, error) {
	defer rows.Close()

	faqs := make([]*entity.FAQ, 0)
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

func (r *FAQPostgres) ListQAPairs(ctx context.Context, clientID int64) ([]entity.QAPair, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question, answer FROM faqs WHERE client_id = $1 ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("query qa pairs: %w", err)
	}

	pairs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.QAPair, error) {
		var p entity.QAPair
		err := row.Scan(&p.Question, &p.Answer)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan qa pairs: %w", err)
	}

	return pairs, nil
}

func (r *FAQPostgres) List(ctx context.Context, clientID int64, category *string, limit, offset int) ([]*entity.FAQ, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+faqColumns+` FROM faqs
		 WHERE client_id = $1 AND ($2::text IS NULL OR category = $2)
		 ORDER BY id
		 LIMIT $3 OFFSET $4`,
		clientID, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	faqs, err := collectFAQs(rows)
	if err != nil {
		return nil, fmt.Errorf("scan faqs: %w", err)
	}

	return faqs, nil
}

func (r *FAQPostgres) ListAll(ctx context.Context, clientID int64) ([]*entity.FAQ, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+faqColumns+` FROM faqs WHERE client_id = $1 ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list all faqs: %w", err)
	}

	faqs, err := collectFAQs(rows)
	if err != nil {
		return nil, fmt.Errorf("scan faqs: %w", err)
	}

	return faqs, nil
}

func (r *FAQPostgres) Count(ctx context.Context, clientID int64, category *string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM faqs WHERE client_id = $1 AND ($2::text IS NULL OR category = $2)`,
		clientID, category).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count faqs: %w", err)
	}

	return total, nil
}

func (r *FAQPostgres) Categories(ctx context.Context, clientID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM faqs
		 WHERE client_id = $1 AND category IS NOT NULL AND category <> ''
		 ORDER BY category`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}

	return categories, nil
}

func (r *FAQPostgres) Questions(ctx context.Context, clientID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT question FROM faqs WHERE client_id = $1`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}

	return questions, nil
}

func (r *FAQPostgres) Get(ctx context.Context, clientID, id int64) (*entity.FAQ, error) {
	f, err := scanFAQ(r.db.QueryRow(ctx,
		`SELECT `+faqColumns+` FROM faqs WHERE client_id = $1 AND id = $2`, clientID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrFAQNotFound
		}
		return nil, fmt.Errorf("get faq: %w", err)
	}

	return f, nil
}

func (r *FAQPostgres) Create(ctx context.Context, faq entity.FAQ) (*entity.FAQ, error) {
	f, err := scanFAQ(r.db.QueryRow(ctx,
		`INSERT INTO faqs (client_id, question, answer, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+faqColumns,
		faq.ClientID, faq.Question, faq.Answer, faq.Category))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrDuplicateQuestion
		}
		return nil, fmt.Errorf("create faq: %w", err)
	}

	return f, nil
}

func (r *FAQPostgres) CreateMany(ctx context.Context, clientID int64, faqs []entity.FAQ) (int, error) {
	if len(faqs) == 0 {
		return 0, nil
	}

	added := 0
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, f := range faqs {
			batch.Queue(
				`INSERT INTO faqs (client_id, question, answer, category)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (client_id, question) DO NOTHING`,
				clientID, f.Question, f.Answer, f.Category)
		}

		results := tx.SendBatch(ctx, batch)
		for range faqs {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return err
			}
			added += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("import faqs: %w", err)
	}

	return added, nil
}

func (r *FAQPostgres) Update(ctx context.Context, faq entity.FAQ) (*entity.FAQ, error) {
	f, err := scanFAQ(r.db.QueryRow(ctx,
		`UPDATE faqs SET question = $3, answer = $4, category = $5, updated_at = NOW()
		 WHERE client_id = $1 AND id = $2
		 RETURNING `+faqColumns,
		faq.ClientID, faq.ID, faq.Question, faq.Answer, faq.Category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrFAQNotFound
		}
		if isUniqueViolation(err) {
			return nil, entity.ErrDuplicateQuestion
		}
		return nil, fmt.Errorf("update faq: %w", err)
	}

	return f, nil
}

func (r *FAQPostgres) Delete(ctx context.Context, clientID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE client_id = $1 AND id = $2`, clientID, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrFAQNotFound
	}

	return nil
}

func (r *FAQPostgres) DeleteMany(ctx context.Context, clientID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE client_id = $1 AND id = ANY($2)`, clientID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete faqs: %w", err)
	}

	return tag.RowsAffected(), nil
}
