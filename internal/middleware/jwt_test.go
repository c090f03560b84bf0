package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/service"
	"github.com/noah-isme/uni-attend-api/pkg/config"
)

type staticUserRepo struct {
	user *models.User
}

func (r *staticUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.user, nil
}

func (r *staticUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.user, nil
}

func issueToken(t *testing.T, role models.UserRole, cfg config.JWTConfig) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &staticUserRepo{user: &models.User{ID: "u-1", Username: "user", Role: role, PasswordHash: string(hash)}}
	svc := service.NewAuthService(repo, nil, nil, cfg)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "user", Password: "pw"})
	require.NoError(t, err)
	return resp.AccessToken
}

func protectedRouter(cfg config.JWTConfig, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(&staticUserRepo{}, nil, nil, cfg)
	r := gin.New()
	group := r.Group("/", JWT(svc))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/secure", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestJWTMissingHeader(t *testing.T) {
	cfg := config.JWTConfig{Secret: "mw_secret", Expiration: time.Minute}
	r := protectedRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "mw_secret", Expiration: time.Minute}
	foreign := issueToken(t, models.RoleAdmin, config.JWTConfig{Secret: "other_secret", Expiration: time.Minute})
	r := protectedRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "claimed role never outranks a bad signature")
}

func TestJWTRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "mw_secret", Expiration: -time.Minute}
	token := issueToken(t, models.RoleAdmin, cfg)
	r := protectedRouter(config.JWTConfig{Secret: "mw_secret", Expiration: time.Minute})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	cfg := config.JWTConfig{Secret: "mw_secret", Expiration: time.Minute}
	r := protectedRouter(cfg, models.RoleAdmin)

	student := issueToken(t, models.RoleStudent, cfg)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+student)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := issueToken(t, models.RoleAdmin, cfg)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
