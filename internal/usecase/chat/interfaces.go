package chat

import (
	"context"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/matching"
)

// Matcher answers a chat message from a client's FAQ corpus.
type Matcher interface {
	Answer(ctx context.Context, clientID int64, utterance string) matching.Reply
	Messages() matching.Messages
}

// FAQCounter reports how many FAQs a client owns.
type FAQCounter interface {
	Count(ctx context.Context, clientID int64, category *string) (int, error)
}

// TenantReader loads the client a chat message is addressed to.
type TenantReader interface {
	Get(ctx context.Context, id int64) (*entity.Client, error)
}
