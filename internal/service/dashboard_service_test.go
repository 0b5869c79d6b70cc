package service

import (
	"testing"
	"workplace_training_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseStats(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "ayse")
	course := env.course(t, u)
	_, err := env.learning().MarkPdfViewed(u.ID, false, course.Pdfs[0].ID)
	require.NoError(t, err)

	svc := NewDashboardService(env.userRepo, env.courseRepo, env.progressRepo, repository.NewBackupRepository(env.db))
	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Tables["users"])
	assert.Equal(t, int64(2), stats.Tables["videos"])
	assert.Equal(t, int64(1), stats.Completions.Pdfs)
	assert.Zero(t, stats.Completions.Videos)
	require.Len(t, stats.LatestUsers, 1)
	require.Len(t, stats.LatestCourses, 1)
	assert.Equal(t, course.ID, stats.LatestCourses[0].ID)
}
