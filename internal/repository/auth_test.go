package repository

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/models"
)

func TestLoginAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, models.Credentials{Email: "Admin@Noir.com", Password: testAdminPassword})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.Equal(t, models.AllPermissions(), res.User.Permissions)
	assert.Equal(t, "Admin User", res.User.Name)
	assert.NotEmpty(t, res.Token)

	recent, err := env.Activities.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "User Admin User logged in", recent[0].Message)
	require.NotNil(t, recent[0].UserID)
	assert.Equal(t, res.User.ID, *recent[0].UserID)
}

func TestLoginAdminWrongPasswordDoesNotFallThrough(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Auth.Login(context.Background(), models.Credentials{Email: testAdminEmail, Password: "not-the-password"})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestLoginCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, first.User.Role)
	assert.Empty(t, first.User.Permissions)
	assert.Equal(t, "mira", first.User.Name)

	env.clock.Advance(time.Minute)
	second, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "another"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.True(t, second.User.LastLoginAt.After(first.User.LastLoginAt))
}

func TestLoginRejectsShortPasswordAndEmptyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "12345"})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	_, err = env.Auth.Login(ctx, models.Credentials{Email: "  ", Password: "123456"})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := env.Auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "mira@example.com", user.Email)

	user, err = env.Auth.CurrentUser(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = env.Auth.CurrentUser(ctx, res.Token+"x")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUserExpiredTokenClearsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, _, err := env.Auth.parse(res.Token)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)
	user, err := env.Auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	var session models.Session
	_, err = env.store.Get(ctx, env.Auth.sessionKey(claims.ID), &session)
	assert.Error(t, err)
}

func TestExpiredTokenWithForeignSignatureKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.Auth.Login(ctx, models.Credentials{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)
	claims, _, err := env.Auth.parse(res.Token)
	require.NoError(t, err)

	claims.ExpiresAt = jwt.NewNumericDate(env.clock.Now().Add(-time.Minute))
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	_, expired, err := env.Auth.parse(forged)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	assert.False(t, expired)

	user, err := env.Auth.CurrentUser(ctx, forged)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = env.Auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testAdminEmail, user.Email)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.Auth.Login(ctx, models.Credentials{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, res.Token))
	user, err := env.Auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	recent, err := env.Activities.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "User Admin User logged out", recent[0].Message)

	assert.NoError(t, env.Auth.Logout(ctx, res.Token))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.Auth.Login(ctx, models.Credentials{Email: "mira@example.com", Password: "secret1"})
	require.NoError(t, err)

	name := "Mira K"
	user, err := env.Auth.UpdateProfile(ctx, "mira@example.com", models.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mira K", user.Name)
	assert.Equal(t, models.RoleCustomer, user.Role)

	_, err = env.Auth.UpdateProfile(ctx, "ghost@example.com", models.ProfilePatch{Name: &name})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.Auth.ChangePassword(ctx, testAdminEmail, models.PasswordChange{CurrentPassword: "wrong", NewPassword: "newpass1"})
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	err = env.Auth.ChangePassword(ctx, testAdminEmail, models.PasswordChange{CurrentPassword: testAdminPassword, NewPassword: "short"})
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	err = env.Auth.ChangePassword(ctx, "mira@example.com", models.PasswordChange{CurrentPassword: "secret1", NewPassword: "newpass1"})
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	require.NoError(t, env.Auth.ChangePassword(ctx, testAdminEmail, models.PasswordChange{CurrentPassword: testAdminPassword, NewPassword: "newpass1"}))

	_, err = env.Auth.Login(ctx, models.Credentials{Email: testAdminEmail, Password: testAdminPassword})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	res, err := env.Auth.Login(ctx, models.Credentials{Email: testAdminEmail, Password: "newpass1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}

func TestHasPermission(t *testing.T) {
	admin := models.User{Role: models.RoleAdmin}
	staff := models.User{Role: models.RoleStaff, Permissions: []models.Permission{models.PermOrdersRead}}
	customer := models.User{Role: models.RoleCustomer}

	assert.True(t, HasPermission(admin, models.PermSettingsWrite))
	assert.True(t, HasPermission(staff, models.PermOrdersRead))
	assert.False(t, HasPermission(staff, models.PermOrdersWrite))
	assert.False(t, HasPermission(customer, models.PermProductsRead))
}
