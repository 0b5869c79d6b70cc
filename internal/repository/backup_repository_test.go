package repository

import (
	"testing"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupExportReplace(t *testing.T) {
	src := dbtest.New(t)
	course := seedCourse(t, src)
	user := seedUser(t, src, "emre")
	require.NoError(t, NewCourseRepository(src).AddAssignedUsers(course, []model.User{*user}))
	require.NoError(t, NewAnnouncementRepository(src).Create(&model.Announcement{Title: "Hi", Content: "Welcome"}))

	data, err := NewBackupRepository(src).Export()
	require.NoError(t, err)
	assert.Len(t, data["videos"], 2)
	assert.Len(t, data["assigned_courses"], 1)

	dst := dbtest.New(t)
	seedUser(t, dst, "stale")
	require.NoError(t, NewBackupRepository(dst).Replace(data))

	counts, err := NewBackupRepository(dst).Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["users"])
	assert.Equal(t, int64(2), counts["videos"])
	assert.Equal(t, int64(1), counts["announcements"])

	loaded, err := NewUserRepository(dst).FindByUsername("emre")
	require.NoError(t, err)
	assigned, err := NewUserRepository(dst).IsAssigned(loaded.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, assigned)
}

func TestIsBackupTable(t *testing.T) {
	assert.True(t, IsBackupTable("progress"))
	assert.False(t, IsBackupTable("sqlite_master"))
}
