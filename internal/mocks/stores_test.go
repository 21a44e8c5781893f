package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlineStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	taskID := uuid.New()

	t.Run("insert is idempotent on text and date", func(t *testing.T) {
		t.Parallel()
		s := NewHeadlineStore()

		first, err := domain.NewHeadline(taskID, "Solar farm opens", "2026-10-01", "", "q")
		require.NoError(t, err)
		dup, err := domain.NewHeadline(taskID, "Solar farm opens", "2026-10-01", "other", "q")
		require.NoError(t, err)

		inserted, err := s.InsertIfAbsent(ctx, first)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = s.InsertIfAbsent(ctx, dup)
		require.NoError(t, err)
		assert.False(t, inserted)

		_, err = s.GetByID(ctx, dup.ID)
		assert.ErrorIs(t, err, store.ErrHeadlineNotFound)
	})

	t.Run("transitions are conditional", func(t *testing.T) {
		t.Parallel()
		s := NewHeadlineStore()
		h, err := domain.NewHeadline(taskID, "Grid upgrade", "", "", "q")
		require.NoError(t, err)
		_, err = s.InsertIfAbsent(ctx, h)
		require.NoError(t, err)

		require.NoError(t, s.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing))
		err = s.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing)
		assert.ErrorIs(t, err, store.ErrStatusConflict)

		require.NoError(t, s.MarkFailed(ctx, h.ID, "boom"))
		got, err := s.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.HeadlineStatusFailed, got.Status)
		assert.Equal(t, "boom", got.ErrorMessage)
		assert.Equal(t, 1, got.RetryCount)

		err = s.MarkFailed(ctx, h.ID, "again")
		assert.ErrorIs(t, err, store.ErrStatusConflict)

		err = s.Transition(ctx, uuid.New(), domain.HeadlineStatusFailed, domain.HeadlineStatusFresh)
		assert.ErrorIs(t, err, store.ErrHeadlineNotFound)
	})

	t.Run("list is oldest first and limited", func(t *testing.T) {
		t.Parallel()
		s := NewHeadlineStore()
		other := uuid.New()
		var ids []uuid.UUID
		for i, text := range []string{"a", "b", "c", "d"} {
			owner := taskID
			if i == 1 {
				owner = other
			}
			h, err := domain.NewHeadline(owner, text, "", "", "q")
			require.NoError(t, err)
			_, err = s.InsertIfAbsent(ctx, h)
			require.NoError(t, err)
			ids = append(ids, h.ID)
		}

		got, err := s.ListByStatus(ctx, store.HeadlineFilter{
			Status: domain.HeadlineStatusFresh,
			TaskID: &taskID,
			Limit:  2,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[0], got[0].ID)
		assert.Equal(t, ids[2], got[1].ID)
	})

	t.Run("fail stale only touches old processing rows", func(t *testing.T) {
		t.Parallel()
		s := NewHeadlineStore()
		old, err := domain.NewHeadline(taskID, "old", "", "", "q")
		require.NoError(t, err)
		recent, err := domain.NewHeadline(taskID, "recent", "", "", "q")
		require.NoError(t, err)
		for _, h := range []*domain.Headline{old, recent} {
			_, err := s.InsertIfAbsent(ctx, h)
			require.NoError(t, err)
			require.NoError(t, s.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing))
		}
		s.SetUpdatedAt(old.ID, time.Now().Add(-time.Hour))

		ids, err := s.FailStale(ctx, time.Now().Add(-30*time.Minute), "processing timed out")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{old.ID}, ids)
	})
}

func TestArticleStore_OnePerHeadline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewArticleStore()
	headlineID := uuid.New()

	bundles := map[domain.Language]domain.LanguageBundle{}
	for _, lang := range domain.Languages {
		bundles[lang] = domain.LanguageBundle{Title: "t", Content: "c", Summary: "s"}
	}

	first, err := domain.NewArticle(headlineID, bundles, []string{"news"})
	require.NoError(t, err)
	second, err := domain.NewArticle(headlineID, bundles, []string{"news"})
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, first))
	assert.ErrorIs(t, s.Create(ctx, second), store.ErrArticleExists)
	assert.Equal(t, 1, s.Count())

	got, err := s.GetByHeadlineID(ctx, headlineID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}
