//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/repository"
	"github.com/gabot/faq-backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, repo *repository.ClientPostgres, username string) *entity.Client {
	t.Helper()
	c, err := repo.Create(context.Background(), entity.Client{
		Username:     username,
		PasswordHash: "hash",
		Role:         entity.RoleUser,
		Status:       entity.ClientStatusApproved,
	})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestFAQPostgres(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()

	clients := repository.NewClientPostgres(db.Pool)
	faqs := repository.NewFAQPostgres(db.Pool)
	owner := newClient(t, clients, "acme")
	other := newClient(t, clients, "globex")

	first, err := faqs.Create(ctx, entity.FAQ{ClientID: owner.ID, Question: "What are your hours?", Answer: "9-5", Category: strPtr("general")})
	require.NoError(t, err)
	_, err = faqs.Create(ctx, entity.FAQ{ClientID: owner.ID, Question: "Where are you located?", Answer: "Downtown"})
	require.NoError(t, err)

	t.Run("duplicate question is rejected per client", func(t *testing.T) {
		_, err := faqs.Create(ctx, entity.FAQ{ClientID: owner.ID, Question: "What are your hours?", Answer: "x"})
		assert.ErrorIs(t, err, entity.ErrDuplicateQuestion)

		_, err = faqs.Create(ctx, entity.FAQ{ClientID: other.ID, Question: "What are your hours?", Answer: "24/7"})
		assert.NoError(t, err)

		// uniqueness is case-sensitive
		_, err = faqs.Create(ctx, entity.FAQ{ClientID: owner.ID, Question: "what are your hours?", Answer: "9-5"})
		assert.NoError(t, err)
	})

	t.Run("qa pairs in insertion order and tenant scoped", func(t *testing.T) {
		pairs, err := faqs.ListQAPairs(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, pairs, 3)
		assert.Equal(t, "What are your hours?", pairs[0].Question)
		assert.Equal(t, "Where are you located?", pairs[1].Question)

		pairs, err = faqs.ListQAPairs(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, []entity.QAPair{{Question: "What are your hours?", Answer: "24/7"}}, pairs)
	})

	t.Run("list, count and categories", func(t *testing.T) {
		list, err := faqs.List(ctx, owner.ID, strPtr("general"), 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID, list[0].ID)

		total, err := faqs.Count(ctx, owner.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		categories, err := faqs.Categories(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"general"}, categories)
	})

	t.Run("update and get are tenant scoped", func(t *testing.T) {
		_, err := faqs.Get(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, entity.ErrFAQNotFound)

		_, err = faqs.Update(ctx, entity.FAQ{ID: first.ID, ClientID: other.ID, Question: "q", Answer: "a"})
		assert.ErrorIs(t, err, entity.ErrFAQNotFound)

		updated, err := faqs.Update(ctx, entity.FAQ{ID: first.ID, ClientID: owner.ID, Question: "Opening hours?", Answer: "8-4"})
		require.NoError(t, err)
		assert.Equal(t, "8-4", updated.Answer)
		assert.Nil(t, updated.Category)
	})

	t.Run("import skips existing questions", func(t *testing.T) {
		added, err := faqs.CreateMany(ctx, owner.ID, []entity.FAQ{
			{Question: "Opening hours?", Answer: "dup"},
			{Question: "Do you deliver?", Answer: "Yes"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, added)
	})

	t.Run("bulk delete only touches own rows", func(t *testing.T) {
		otherPairs, err := faqs.ListAll(ctx, other.ID)
		require.NoError(t, err)
		ownRows, err := faqs.ListAll(ctx, owner.ID)
		require.NoError(t, err)

		ids := []int64{otherPairs[0].ID}
		for _, f := range ownRows {
			ids = append(ids, f.ID)
		}

		deleted, err := faqs.DeleteMany(ctx, owner.ID, ids)
		require.NoError(t, err)
		assert.Equal(t, int64(len(ownRows)), deleted)

		pairs, err := faqs.ListQAPairs(ctx, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, pairs)

		pairs, err = faqs.ListQAPairs(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, pairs, 1)

		assert.ErrorIs(t, faqs.Delete(ctx, owner.ID, first.ID), entity.ErrFAQNotFound)
	})
}

func TestClientPostgres(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()

	clients := repository.NewClientPostgres(db.Pool)
	c, err := clients.Create(ctx, entity.Client{Username: "acme", PasswordHash: "h", Role: entity.RoleUser, Status: entity.ClientStatusPending})
	require.NoError(t, err)

	_, err = clients.Create(ctx, entity.Client{Username: "acme", PasswordHash: "h", Role: entity.RoleUser, Status: entity.ClientStatusPending})
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)

	ids, err := clients.ListApprovedIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, clients.UpdateStatus(ctx, c.ID, entity.ClientStatusApproved))
	require.NoError(t, clients.UpdateRole(ctx, c.ID, entity.RoleAdmin))

	got, err := clients.GetByUsername(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusApproved, got.Status)
	assert.True(t, got.IsAdmin())

	ids, err = clients.ListApprovedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, ids)

	require.NoError(t, clients.Delete(ctx, c.ID))
	_, err = clients.Get(ctx, c.ID)
	assert.ErrorIs(t, err, entity.ErrClientNotFound)
	assert.ErrorIs(t, clients.Delete(ctx, c.ID), entity.ErrClientNotFound)
}

func TestChatHistoryPostgres(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()

	owner := newClient(t, repository.NewClientPostgres(db.Pool), "acme")
	history := repository.NewChatHistoryPostgres(db.Pool)
	const unanswered = "not understood"

	turns := []entity.ChatHistory{
		{UserMessage: "hours?", BotResponse: "9-5", Matched: true},
		{UserMessage: "hours?", BotResponse: "9-5", Matched: true},
		{UserMessage: "parking?", BotResponse: unanswered},
	}
	for _, turn := range turns {
		turn.ClientID = owner.ID
		turn.SessionID = "s1"
		_, err := history.Create(ctx, turn)
		require.NoError(t, err)
	}

	chats, err := history.List(ctx, owner.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "parking?", chats[0].UserMessage)

	total, matching, err := history.CountResponses(ctx, owner.ID, unanswered)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, matching)

	most, err := history.MostAsked(ctx, owner.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.MessageCount{Message: "hours?", Count: 2}, most[0])

	top, err := history.TopWithResponse(ctx, owner.ID, unanswered, 10)
	require.NoError(t, err)
	assert.Equal(t, []entity.MessageCount{{Message: "parking?", Count: 1}}, top)

	days, err := history.DailyActivity(ctx, owner.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, days)
	sum := 0
	for _, d := range days {
		sum += d.Count
	}
	assert.Equal(t, 3, sum)

	deleted, err := history.DeleteAll(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
