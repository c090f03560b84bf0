package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/pkg/config"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type mockAuthRepo struct {
	user              *models.User
	findByUsernameErr error
	findByIDErr       error
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.findByUsernameErr != nil {
		return nil, m.findByUsernameErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return m.user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test_secret", Expiration: 20 * time.Minute, Issuer: "uni-attend-test"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           "u-1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         models.RoleTeacher,
		Username:     "ada",
		PasswordHash: hashPassword(t, "s3cret"),
	}}
	svc := NewAuthService(repo, nil, nil, testJWTConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(1200), resp.ExpiresIn)
	assert.Equal(t, "ada", resp.User.Username)
	assert.Equal(t, "Ada Lovelace", resp.User.FullName)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           "u-1",
		Username:     "ada",
		Role:         models.RoleTeacher,
		PasswordHash: hashPassword(t, "s3cret"),
	}}
	svc := NewAuthService(repo, nil, nil, testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &mockAuthRepo{findByUsernameErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, nil, testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginValidation(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           "u-9",
		FirstName:    "Alan",
		LastName:     "Turing",
		Role:         models.RoleAdmin,
		Username:     "alan",
		PasswordHash: hashPassword(t, "enigma"),
	}}
	svc := NewAuthService(repo, nil, nil, testJWTConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "alan", Password: "enigma"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "alan", claims.Subject)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, testJWTConfig())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	other := NewAuthService(&mockAuthRepo{}, nil, nil, config.JWTConfig{Secret: "different", Expiration: time.Minute})
	repo := &mockAuthRepo{user: &models.User{ID: "u-1", Username: "ada", Role: models.RoleStudent, PasswordHash: hashPassword(t, "pw")}}
	issuer := NewAuthService(repo, nil, nil, testJWTConfig())
	resp, err := issuer.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "pw"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
