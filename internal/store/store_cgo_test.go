//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenMemoryStore(t *testing.T) {
	s := openTestStore(t)
	require.Equal(t, "libsql", s.Driver())
	require.NoError(t, s.Ping(context.Background()))
}

func TestInsertAndGetStory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := &StoryRecord{
		ID:          "story1",
		UserEmail:   "reader@example.com",
		Title:       "A Meeting in Paris",
		Content:     "Once upon a time...",
		ContentType: "love_story",
		Fields:      intake.FieldSet{intake.KeyName1: "Alex", intake.KeyName2: "Jordan"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.InsertStory(ctx, rec))

	got, err := s.GetStory(ctx, "story1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, rec.Title, got.Title)
	require.Equal(t, rec.Content, got.Content)
	require.Equal(t, rec.Fields, got.Fields)
	require.Equal(t, "reader@example.com", got.UserEmail)
}

func TestGetStoryNotFound(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetStory(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListStoriesByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.InsertStory(ctx, &StoryRecord{
			ID:          id,
			UserEmail:   "reader@example.com",
			Title:       id,
			Content:     "body",
			ContentType: "poem",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := s.ListStoriesByUser(ctx, "reader@example.com", 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[2].ID)
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.EnsureUser(ctx, "Pat@Example.com", "Pat")
	require.NoError(t, err)
	require.Equal(t, "pat@example.com", first.Email)
	require.Equal(t, "free", first.Plan)

	again, err := s.EnsureUser(ctx, "pat@example.com", "ignored")
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, "Pat", again.Name)
}

func TestPlanUpdatesAndStripeLink(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.EnsureUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)

	require.NoError(t, s.SetPlan(ctx, "pat@example.com", "premium"))
	require.NoError(t, s.LinkStripeSubscription(ctx, "pat@example.com", "cus_123", "sub_456"))

	got, err := s.GetUserByStripeCustomer(ctx, "cus_123")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "premium", got.Plan)
	require.Equal(t, "sub_456", got.StripeSubscriptionID)

	require.NoError(t, s.SetPlanByStripeCustomer(ctx, "cus_123", "pro"))
	got, err = s.GetUserByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Equal(t, "pro", got.Plan)

	require.NoError(t, s.ClearStripeSubscription(ctx, "cus_123"))
	got, err = s.GetUserByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Equal(t, "free", got.Plan)
	require.Empty(t, got.StripeSubscriptionID)
}

func TestRecordStoryUseIncrements(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.EnsureUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)

	require.NoError(t, s.RecordStoryUse(ctx, "pat@example.com"))
	require.NoError(t, s.RecordStoryUse(ctx, "pat@example.com"))

	got, err := s.GetUserByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, got.StoriesThisMonth)
}

func TestStaleUsageMonthReadsAsZero(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.EnsureUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)
	require.NoError(t, s.RecordStoryUse(ctx, "pat@example.com"))

	_, err = s.DB.ExecContext(ctx, `UPDATE users SET usage_month = '2020-01' WHERE email = 'pat@example.com'`)
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Equal(t, 0, got.StoriesThisMonth)

	require.NoError(t, s.RecordStoryUse(ctx, "pat@example.com"))
	got, err = s.GetUserByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, got.StoriesThisMonth)
}
