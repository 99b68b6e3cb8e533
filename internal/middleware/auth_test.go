package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/pkg/auth"
)

type fakeVerifier struct{ subject string }

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "good-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: f.subject}}, nil
}

type fakeBlacklist struct {
	revoked map[string]bool
	lastCtx context.Context
}

func (f *fakeBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	f.lastCtx = ctx
	return f.revoked[token], nil
}

type fakeResolver struct{ identity *models.Identity }

func (f *fakeResolver) Resolve(subject string) (*models.Identity, error) {
	if f.identity == nil || f.identity.Email != subject {
		return nil, errors.New("no such user")
	}
	return f.identity, nil
}

type ctxMarker struct{}

func newAuthRouter(blacklist *fakeBlacklist, identity *models.Identity, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/",
		AuthMiddleware(&fakeVerifier{subject: identity.Email}, blacklist, &fakeResolver{identity: identity}),
		handler,
	)
	return router
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	identity := &models.Identity{UserID: uuid.New(), Email: "alice@example.com", Username: "alice"}

	var got *models.Identity
	router := newAuthRouter(&fakeBlacklist{}, identity, func(c *gin.Context) {
		got = MustIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.UserID != identity.UserID {
		t.Errorf("identity in handler = %+v, want %+v", got, identity)
	}
}

// Проверка чёрного списка должна жить в контексте запроса:
// отвал клиента обрывает и поход в Redis.
func TestAuthMiddlewareUsesRequestContext(t *testing.T) {
	identity := &models.Identity{UserID: uuid.New(), Email: "alice@example.com"}
	blacklist := &fakeBlacklist{}
	router := newAuthRouter(blacklist, identity, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxMarker{}, "marker"))
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if blacklist.lastCtx == nil || blacklist.lastCtx.Value(ctxMarker{}) != "marker" {
		t.Error("blacklist lookup must receive the request context")
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	identity := &models.Identity{UserID: uuid.New(), Email: "alice@example.com"}
	blacklist := &fakeBlacklist{revoked: map[string]bool{"good-token": true}}

	called := false
	router := newAuthRouter(blacklist, identity, func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("handler must not run for a revoked token")
	}
}
