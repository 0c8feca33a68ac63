package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const (
	adminUserID     int64 = 1
	minPasswordLen        = 6
	invalidLoginMsg       = "Invalid email or password"
)

var adminCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type credential struct {
	Hash string `json:"hash"`
}

type sessionClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthRepository struct {
	*base
	activities *ActivityLogger
	adminEmail string
	adminHash  []byte
	secret     []byte
	ttl        time.Duration
}

func newAuthRepository(b *base, activities *ActivityLogger, opts Options) (*AuthRepository, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthRepository{
		base:       b,
		activities: activities,
		adminEmail: strings.ToLower(strings.TrimSpace(opts.AdminEmail)),
		adminHash:  hash,
		secret:     []byte(opts.JWTSecret),
		ttl:        opts.SessionTTL,
	}, nil
}

func (r *AuthRepository) userKey(email string) string {
	return r.store.Key(storage.NSAuthUser, email)
}

func (r *AuthRepository) sessionKey(id string) string {
	return r.store.Key(storage.NSAuthToken, id)
}

func (r *AuthRepository) credentialKey(email string) string {
	return r.store.Key(storage.NSAuthCredential, email)
}

// Login authenticates the admin account against its bcrypt hash. Any other
// address with a long enough password signs in as a customer.
func (r *AuthRepository) Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error) {
	if err := r.wait(ctx); err != nil {
		return models.LoginResult{}, err
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return models.LoginResult{}, Unauthorized(invalidLoginMsg)
	}

	var defaults models.User
	if email == r.adminEmail {
		ok, err := r.checkAdminPassword(ctx, creds.Password)
		if err != nil {
			return models.LoginResult{}, err
		}
		if !ok {
			return models.LoginResult{}, Unauthorized(invalidLoginMsg)
		}
		defaults = models.User{
			ID:        adminUserID,
			Email:     email,
			Name:      "Admin User",
			Role:      models.RoleAdmin,
			CreatedAt: adminCreatedAt,
		}
	} else {
		if len(creds.Password) < minPasswordLen {
			return models.LoginResult{}, Unauthorized(invalidLoginMsg)
		}
		defaults = models.User{
			Email:     email,
			Name:      strings.SplitN(email, "@", 2)[0],
			Role:      models.RoleCustomer,
			CreatedAt: r.now().UTC(),
		}
	}

	now := r.now().UTC()
	user, _, err := mutateOr(ctx, r.store, r.userKey(email), defaults, func(u *models.User) error {
		if u.ID == 0 {
			u.ID = r.ids.Next()
		}
		if u.Role == models.RoleAdmin {
			u.Permissions = models.AllPermissions()
		} else if u.Permissions == nil {
			u.Permissions = []models.Permission{}
		}
		u.LastLoginAt = now
		return nil
	})
	if err != nil {
		return models.LoginResult{}, err
	}

	token, err := r.issue(ctx, user)
	if err != nil {
		return models.LoginResult{}, err
	}

	userID := user.ID
	_, err = r.activities.Log(ctx, models.Activity{
		Type:    models.ActivitySystem,
		Message: fmt.Sprintf("User %s logged in", user.Name),
		UserID:  &userID,
	})
	return models.LoginResult{User: user, Token: token}, err
}

func (r *AuthRepository) checkAdminPassword(ctx context.Context, password string) (bool, error) {
	hash := r.adminHash
	cred, _, err := storage.GetOr(ctx, r.store, r.credentialKey(r.adminEmail), credential{})
	if err != nil {
		return false, err
	}
	if cred.Hash != "" {
		hash = []byte(cred.Hash)
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil, nil
}

func (r *AuthRepository) issue(ctx context.Context, user models.User) (string, error) {
	now := r.now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: now.Add(r.ttl),
	}
	claims := sessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if _, err := r.store.Set(ctx, r.sessionKey(session.ID), session, storage.NoVersion); err != nil {
		return "", err
	}
	return token, nil
}

func (r *AuthRepository) keyFunc(*jwt.Token) (interface{}, error) {
	return r.secret, nil
}

// parse verifies the signature. Expiry is reported through expired rather than err.
func (r *AuthRepository) parse(token string) (claims sessionClaims, expired bool, err error) {
	methods := jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})
	// the signature is checked before the claims, so an expired token is authentic
	_, err = jwt.ParseWithClaims(token, &claims, r.keyFunc, methods, jwt.WithTimeFunc(r.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return claims, true, nil
	}
	return claims, false, err
}

// CurrentUser resolves a token to its user. Invalid or expired tokens yield nil
// without an error; expired sessions are removed.
func (r *AuthRepository) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	claims, expired, err := r.parse(token)
	if err != nil || claims.ID == "" {
		return nil, nil
	}
	if expired {
		return nil, r.store.Remove(ctx, r.sessionKey(claims.ID))
	}

	var session models.Session
	if _, err := r.store.Get(ctx, r.sessionKey(claims.ID), &session); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !r.now().Before(session.ExpiresAt) {
		return nil, r.store.Remove(ctx, r.sessionKey(claims.ID))
	}

	var user models.User
	if _, err := r.store.Get(ctx, r.userKey(session.Email), &user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, r.store.Remove(ctx, r.sessionKey(claims.ID))
		}
		return nil, err
	}
	return &user, nil
}

// Logout ends the token's session. Unknown tokens are ignored.
func (r *AuthRepository) Logout(ctx context.Context, token string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	claims, _, err := r.parse(token)
	if err != nil || claims.ID == "" {
		return nil
	}
	var session models.Session
	if _, err := r.store.Get(ctx, r.sessionKey(claims.ID), &session); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Remove(ctx, r.sessionKey(claims.ID)); err != nil {
		return err
	}

	user, _, err := storage.GetOr(ctx, r.store, r.userKey(session.Email), models.User{})
	if err != nil || user.ID == 0 {
		return err
	}
	userID := user.ID
	_, err = r.activities.Log(ctx, models.Activity{
		Type:    models.ActivitySystem,
		Message: fmt.Sprintf("User %s logged out", user.Name),
		UserID:  &userID,
	})
	return err
}

func (r *AuthRepository) UpdateProfile(ctx context.Context, email string, patch models.ProfilePatch) (models.User, error) {
	if err := r.wait(ctx); err != nil {
		return models.User{}, err
	}
	user, _, err := mutate(ctx, r.store, r.userKey(strings.ToLower(email)), "User", 0, func(u *models.User) error {
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Avatar != nil {
			u.Avatar = *patch.Avatar
		}
		return nil
	})
	if isNotFound(err) {
		return models.User{}, Unauthorized("Not authenticated")
	}
	return user, err
}

// ChangePassword replaces the admin credential with a new bcrypt hash.
func (r *AuthRepository) ChangePassword(ctx context.Context, email string, in models.PasswordChange) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	if !strings.EqualFold(email, r.adminEmail) {
		return BadRequest("Password can only be changed for the admin account")
	}
	ok, err := r.checkAdminPassword(ctx, in.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return BadRequest("Current password is incorrect")
	}
	if len(in.NewPassword) < minPasswordLen {
		return BadRequest(fmt.Sprintf("New password must be at least %d characters", minPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return BadRequest("New password is not acceptable")
	}
	if _, err := r.store.Set(ctx, r.credentialKey(r.adminEmail), credential{Hash: string(hash)}, storage.AnyVersion); err != nil {
		return err
	}
	return r.activities.record(ctx, models.ActivitySystem, "Admin password changed", "")
}

// HasPermission is always true for admins.
func HasPermission(user models.User, perm models.Permission) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return slices.Contains(user.Permissions, perm)
}
