//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/platform/postgres"
	"github.com/phrazzld/newsdesk/internal/store"
	"github.com/phrazzld/newsdesk/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlineLifecycleIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		headlines := postgres.NewPostgresHeadlineStore(tx, nil)
		articles := postgres.NewPostgresArticleStore(tx, nil)

		task, err := domain.NewSearchTask("integration", "solar news", "", "")
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		h, err := domain.NewHeadline(task.ID, "Integration headline", "", "", task.Query)
		require.NoError(t, err)

		inserted, err := headlines.InsertIfAbsent(ctx, h)
		require.NoError(t, err)
		assert.True(t, inserted)

		dup, err := domain.NewHeadline(task.ID, "Integration headline", "", "", task.Query)
		require.NoError(t, err)
		inserted, err = headlines.InsertIfAbsent(ctx, dup)
		require.NoError(t, err)
		assert.False(t, inserted, "same text and missing date must collide")

		require.NoError(t, headlines.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing))
		err = headlines.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing)
		assert.ErrorIs(t, err, store.ErrStatusConflict)

		article, err := domain.NewArticle(h.ID, map[domain.Language]domain.LanguageBundle{
			domain.LanguageEnglish: {Title: "T", Content: "C", Summary: "S"},
			domain.LanguageChinese: {Title: "标题"},
			domain.LanguageMalay:   {Title: "Tajuk"},
		}, []string{"solar", "energy"})
		require.NoError(t, err)
		require.NoError(t, articles.Create(ctx, article))
		require.NoError(t, headlines.Transition(ctx, h.ID, domain.HeadlineStatusProcessing, domain.HeadlineStatusCompleted))

		got, err := articles.GetByHeadlineID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"solar", "energy"}, got.Tags)
		assert.Equal(t, "标题", got.Bundle(domain.LanguageChinese).Title)

		second, err := domain.NewArticle(h.ID, article.Bundles, []string{"news"})
		require.NoError(t, err)
		assert.ErrorIs(t, articles.Create(ctx, second), store.ErrArticleExists)

		stored, err := headlines.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.HeadlineStatusCompleted, stored.Status)
	})
}

func TestFailStaleIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		headlines := postgres.NewPostgresHeadlineStore(tx, nil)

		task, err := domain.NewSearchTask("stale", "stale query", "", "")
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		h, err := domain.NewHeadline(task.ID, "Stale headline "+task.ID.String(), "2026-01-01", "", task.Query)
		require.NoError(t, err)
		_, err = headlines.InsertIfAbsent(ctx, h)
		require.NoError(t, err)
		require.NoError(t, headlines.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing))

		ids, err := headlines.FailStale(ctx, time.Now().Add(time.Minute), "processing timed out")
		require.NoError(t, err)
		assert.Contains(t, ids, h.ID)

		stored, err := headlines.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.HeadlineStatusFailed, stored.Status)
		assert.Equal(t, "processing timed out", stored.ErrorMessage)
		assert.Equal(t, 1, stored.RetryCount)

		require.NoError(t, headlines.Transition(ctx, h.ID, domain.HeadlineStatusFailed, domain.HeadlineStatusFresh))
		require.NoError(t, tasks.MarkRun(ctx, task.ID, time.Now()))
	})
}
