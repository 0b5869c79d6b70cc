package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(to []string, subject, html string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: html})
	return nil
}

func newResetService(env *testEnv, mailer Mailer) *PasswordResetService {
	return NewPasswordResetService(repository.NewPasswordResetRepository(env.db), env.userRepo, mailer, nil, env.cfg)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	mailer := &fakeMailer{}
	svc := newResetService(env, mailer)
	u := env.user(t, "ayse")
	admin := env.user(t, "admin")

	_, err := svc.Request("nobody@example.com")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	res, err := svc.Request(" AYSE@example.com ")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, model.ResetPending, res.Status)

	res, err = svc.Request("ayse@example.com")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, model.ResetPending, res.Status)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list.Pending, 1)
	id := list.Pending[0].ID

	approval, err := svc.Approve(context.Background(), id, admin.ID)
	require.NoError(t, err)
	token := approval.Request.Token
	assert.Len(t, token, 64)
	assert.Equal(t, "http://localhost:8080/reset-password/"+token, approval.Link)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ayse@example.com"}, mailer.sent[0].to)
	assert.True(t, strings.Contains(mailer.sent[0].body, approval.Link))

	_, err = svc.Approve(context.Background(), id, admin.ID)
	assert.ErrorIs(t, err, util.ErrResetNotPending)

	res, err = svc.Request("ayse@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.ResetApproved, res.Status)

	require.NoError(t, svc.CheckToken(token))
	assert.ErrorIs(t, svc.Reset(token, "N3w!Password", "different"), util.ErrPasswordMismatch)
	assert.ErrorIs(t, svc.Reset(token, "weak", "weak"), util.ErrWeakPassword)
	require.NoError(t, svc.Reset(token, "N3w!Password", "N3w!Password"))

	updated, err := env.userRepo.FindByID(u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("N3w!Password")))

	assert.ErrorIs(t, svc.Reset(token, "N3w!Password", "N3w!Password"), util.ErrResetTokenInvalid)

	list, err = svc.List()
	require.NoError(t, err)
	assert.Empty(t, list.Pending)
	require.Len(t, list.Processed, 1)
	assert.Equal(t, model.ResetCompleted, list.Processed[0].Status)
}

func TestExpiredResetToken(t *testing.T) {
	env := newTestEnv(t)
	svc := newResetService(env, &fakeMailer{})
	env.user(t, "ayse")
	admin := env.user(t, "admin")

	_, err := svc.Request("ayse@example.com")
	require.NoError(t, err)
	list, err := svc.List()
	require.NoError(t, err)
	approval, err := svc.Approve(context.Background(), list.Pending[0].ID, admin.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.ErrorIs(t, svc.CheckToken(approval.Request.Token), util.ErrResetTokenInvalid)

	req, err := svc.Repo.FindByID(approval.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResetExpired, req.Status)

	// 过期后可以重新申请
	res, err := svc.Request("ayse@example.com")
	require.NoError(t, err)
	assert.True(t, res.Created)
}

func TestRejectAndExpireStale(t *testing.T) {
	env := newTestEnv(t)
	svc := newResetService(env, &fakeMailer{})
	env.user(t, "ayse")
	env.user(t, "mehmet")
	admin := env.user(t, "admin")
	ctx := context.Background()

	_, err := svc.Request("ayse@example.com")
	require.NoError(t, err)
	_, err = svc.Request("mehmet@example.com")
	require.NoError(t, err)
	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list.Pending, 2)

	rejected, err := svc.Reject(list.Pending[0].ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResetRejected, rejected.Status)
	_, err = svc.Reject(list.Pending[0].ID, admin.ID)
	assert.ErrorIs(t, err, util.ErrResetNotPending)
	_, err = svc.Reject(9999, admin.ID)
	assert.ErrorIs(t, err, util.ErrResetNotFound)

	approval, err := svc.Approve(ctx, list.Pending[1].ID, admin.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	svc.ExpireStale()
	req, err := svc.Repo.FindByID(approval.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResetExpired, req.Status)
	assert.Empty(t, req.Token)
}

func TestScheduleRegistersExpiryJob(t *testing.T) {
	env := newTestEnv(t)
	svc := newResetService(env, &fakeMailer{})
	c := cron.New()

	_, err := svc.Schedule(c, "")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = svc.Schedule(c, "not a spec")
	assert.Error(t, err)
}
