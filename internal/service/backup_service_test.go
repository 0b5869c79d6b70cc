package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "ayse")
	course := env.course(t, u)
	learning := env.learning()
	_, err := learning.CompleteVideo(u.ID, false, course.Videos[0].ID)
	require.NoError(t, err)

	data, err := NewBackupService(repository.NewBackupRepository(env.db)).Export()
	require.NoError(t, err)

	var decoded map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded["videos"], 2)
	assert.Len(t, decoded["progress"], 1)

	// 目标库中已有的数据会被清空
	dst := dbtest.New(t)
	dstUsers := repository.NewUserRepository(dst)
	stale := *u
	stale.ID = 0
	stale.Username, stale.Email = "stale", "stale@example.com"
	require.NoError(t, dstUsers.Create(&stale))

	withExtra := bytes.Replace(data, []byte("{"), []byte(`{"sqlite_sequence": [{"name": "users"}],`), 1)
	summary, err := NewBackupService(repository.NewBackupRepository(dst)).Import(bytes.NewReader(withExtra))
	require.NoError(t, err)
	assert.Equal(t, []string{"sqlite_sequence"}, summary.Ignored)
	assert.Equal(t, int64(1), summary.Counts["users"])
	assert.Equal(t, int64(1), summary.Counts["progress"])

	_, err = dstUsers.FindByUsername("stale")
	assert.Error(t, err)
	imported, err := dstUsers.FindByUsername("ayse")
	require.NoError(t, err)
	assert.Equal(t, u.Password, imported.Password)
}

func TestImportRejectsInvalidBackup(t *testing.T) {
	svc := NewBackupService(repository.NewBackupRepository(dbtest.New(t)))

	_, err := svc.Import(strings.NewReader("not json"))
	assert.ErrorIs(t, err, util.ErrInvalidBackup)

	_, err = svc.Import(strings.NewReader("{}"))
	assert.ErrorIs(t, err, util.ErrInvalidBackup)
}

func TestNormalizeBackupRow(t *testing.T) {
	row := map[string]interface{}{
		"id":         json.Number("7"),
		"ratio":      json.Number("0.5"),
		"created_at": "2024-05-01T10:00:00Z",
		"last_login": "2024-05-01 10:00:00",
		"title":      "2024-05-01T10:00:00Z",
	}
	normalizeBackupRow(row)

	assert.Equal(t, int64(7), row["id"])
	assert.Equal(t, 0.5, row["ratio"])
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), row["created_at"])
	assert.IsType(t, time.Time{}, row["last_login"])
	assert.Equal(t, "2024-05-01T10:00:00Z", row["title"])
}
