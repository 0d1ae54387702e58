package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatHistoryRepository defines the interface for chat history persistence
type ChatHistoryRepository interface {
	Create(ctx context.Context, chat entity.ChatHistory) (*entity.ChatHistory, error)
	List(ctx context.Context, clientID int64, limit, offset int) ([]*entity.ChatHistory, error)
	Count(ctx context.Context, clientID int64) (int, error)
	DeleteAll(ctx context.Context, clientID int64) (int64, error)

	// CountResponses returns the total number of turns and how many of them
	// were answered with unanswered.
	CountResponses(ctx context.Context, clientID int64, unanswered string) (total, matching int, err error)
	MostAsked(ctx context.Context, clientID int64, limit int) ([]entity.MessageCount, error)
	TopWithResponse(ctx context.Context, clientID int64, response string, limit int) ([]entity.MessageCount, error)
	DailyActivity(ctx context.Context, clientID int64, since time.Time) ([]entity.DailyCount, error)
}

var _ ChatHistoryRepository = &ChatHistoryPostgres{}

// ChatHistoryPostgres implements ChatHistoryRepository using PostgreSQL
type ChatHistoryPostgres struct {
	db *pgxpool.Pool
}

func NewChatHistoryPostgres(db *pgxpool.Pool) *ChatHistoryPostgres {
	return &ChatHistoryPostgres{db: db}
}

const chatColumns = `id, client_id, session_id, user_message, bot_response, matched, created_at`

func scanChat(row pgx.Row) (*entity.ChatHistory, error) {
	var c entity.ChatHistory
	err := row.Scan(&c.ID, &c.ClientID, &c.SessionID, &c.UserMessage, &c.BotResponse, &c.Matched, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatHistoryPostgres) Create(ctx context.Context, chat entity.ChatHistory) (*entity.ChatHistory, error) {
	c, err := scanChat(r.db.QueryRow(ctx,
		`INSERT INTO chat_history (client_id, session_id, user_message, bot_response, matched)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+chatColumns,
		chat.ClientID, chat.SessionID, chat.UserMessage, chat.BotResponse, chat.Matched))
	if err != nil {
		return nil, fmt.Errorf("create chat history: %w", err)
	}

	return c, nil
}

func (r *ChatHistoryPostgres) List(ctx context.Context, clientID int64, limit, offset int) ([]*entity.ChatHistory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+chatColumns+` FROM chat_history
		 WHERE client_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	defer rows.Close()

	chats := make([]*entity.ChatHistory, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat history: %w", err)
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}

	return chats, nil
}

func (r *ChatHistoryPostgres) Count(ctx context.Context, clientID int64) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_history WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count chat history: %w", err)
	}

	return total, nil
}

func (r *ChatHistoryPostgres) DeleteAll(ctx context.Context, clientID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_history WHERE client_id = $1`, clientID)
	if err != nil {
		return 0, fmt.Errorf("clear chat history: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ChatHistoryPostgres) CountResponses(ctx context.Context, clientID int64, unanswered string) (int, int, error) {
	var total, matching int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE bot_response = $2)
		 FROM chat_history WHERE client_id = $1`,
		clientID, unanswered).Scan(&total, &matching)
	if err != nil {
		return 0, 0, fmt.Errorf("count chat responses: %w", err)
	}

	return total, matching, nil
}

func (r *ChatHistoryPostgres) MostAsked(ctx context.Context, clientID int64, limit int) ([]entity.MessageCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_message, COUNT(*) AS n FROM chat_history
		 WHERE client_id = $1
		 GROUP BY user_message
		 ORDER BY n DESC, user_message
		 LIMIT $2`,
		clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("query most asked: %w", err)
	}

	return collectMessageCounts(rows)
}

func (r *ChatHistoryPostgres) TopWithResponse(ctx context.Context, clientID int64, response string, limit int) ([]entity.MessageCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_message, COUNT(*) AS n FROM chat_history
		 WHERE client_id = $1 AND bot_response = $2
		 GROUP BY user_message
		 ORDER BY n DESC, user_message
		 LIMIT $3`,
		clientID, response, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages by response: %w", err)
	}

	return collectMessageCounts(rows)
}

func collectMessageCounts(rows pgx.Rows) ([]entity.MessageCount, error) {
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.MessageCount, error) {
		var mc entity.MessageCount
		err := row.Scan(&mc.Message, &mc.Count)
		return mc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan message counts: %w", err)
	}

	return counts, nil
}

func (r *ChatHistoryPostgres) DailyActivity(ctx context.Context, clientID int64, since time.Time) ([]entity.DailyCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*)
		 FROM chat_history
		 WHERE client_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day`,
		clientID, since)
	if err != nil {
		return nil, fmt.Errorf("query daily activity: %w", err)
	}

	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DailyCount, error) {
		var dc entity.DailyCount
		err := row.Scan(&dc.Date, &dc.Count)
		return dc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan daily activity: %w", err)
	}

	return days, nil
}
