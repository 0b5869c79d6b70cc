package service

import (
	"context"
	"testing"
	"time"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.userRepo, NewMemoryTokenBlacklist(), env.cfg)

	in := RegisterInput{
		Username:        "ayse",
		Email:           "Ayse@Example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       " Ayşe ",
		LastName:        "Yılmaz",
	}
	user, err := svc.Register(in)
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.Equal(t, "ayse@example.com", user.Email)
	assert.Equal(t, "Ayşe", user.FirstName)
	assert.NotEqual(t, testPassword, user.Password)

	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	in.Username = "ayse2"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	in.Email = "weak@example.com"
	in.Password, in.ConfirmPassword = "password", "password"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrWeakPassword)

	in.ConfirmPassword = "other"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrPasswordMismatch)
}

func TestRegisterAdminPassphrase(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.userRepo, NewMemoryTokenBlacklist(), env.cfg)

	in := RegisterInput{Username: "boss", Email: "boss@example.com", Password: testPassword, AdminPassphrase: "wrong"}
	_, err := svc.Register(in)
	assert.ErrorIs(t, err, util.ErrInvalidPassphrase)

	in.AdminPassphrase = "let-me-in"
	admin, err := svc.Register(in)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	// 未配置口令时一律拒绝
	env.cfg.Admin.RegistrationPassphrase = ""
	_, err = svc.Register(RegisterInput{Username: "x", Email: "x@example.com", Password: testPassword, AdminPassphrase: "let-me-in"})
	assert.ErrorIs(t, err, util.ErrInvalidPassphrase)
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)
	blacklist := NewMemoryTokenBlacklist()
	svc := NewAuthService(env.userRepo, blacklist, env.cfg)
	env.user(t, "ayse")

	_, _, err := svc.Login("ayse", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login("nobody", testPassword)
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	token, user, err := svc.Login("ayse@example.com", testPassword)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	claims, err := util.ParseJWT(token, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	ctx := context.Background()
	require.NoError(t, svc.Logout(ctx, claims))
	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlacklistExpires(t *testing.T) {
	b := NewMemoryTokenBlacklist()
	now := time.Now()
	b.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, b.Revoke(ctx, "jti", time.Minute))
	revoked, err := b.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)
	u := env.user(t, "ayse")
	admin := env.user(t, "boss")

	_, err := svc.AdminUpdateUser(admin.ID, AdminUserInput{FirstName: "Big", LastName: "Boss", Email: "boss@example.com", IsAdmin: true})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.AdminDeleteUser(admin.ID), util.ErrAdminUndeletable)

	_, err = svc.AdminUpdateUser(u.ID, AdminUserInput{Email: "boss@example.com"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	require.NoError(t, svc.AdminDeleteUser(u.ID))
	_, err = svc.GetUserByID(u.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)
	u := env.user(t, "ayse")

	err := svc.ChangePassword(u.ID, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "N3w!Password", ConfirmPassword: "N3w!Password"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	err = svc.ChangePassword(u.ID, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "N3w!Password", ConfirmPassword: "x"})
	assert.ErrorIs(t, err, util.ErrPasswordMismatch)

	require.NoError(t, svc.ChangePassword(u.ID, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "N3w!Password", ConfirmPassword: "N3w!Password"}))
	assert.ErrorIs(t, svc.DeleteAccount(u.ID, testPassword), util.ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(u.ID, "N3w!Password"))
}
