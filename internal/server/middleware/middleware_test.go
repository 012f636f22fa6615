package middleware

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/auth"
	"github.com/mamadbah2/dairyflow/internal/session"
)

type verifierFunc func(ctx context.Context, token string) (models.User, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (models.User, error) {
	return f(ctx, token)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireSession(t *testing.T) {
	verifier := verifierFunc(func(_ context.Context, token string) (models.User, error) {
		switch token {
		case "good":
			return models.User{ID: "u1", Email: "a@b.c"}, nil
		case "down":
			return models.User{}, errors.New("connection refused")
		default:
			return models.User{}, auth.ErrInvalidSession
		}
	})

	r := gin.New()
	r.GET("/me", RequireSession(verifier, nil), func(c *gin.Context) {
		user, _ := session.UserFromContext(c.Request.Context())
		c.String(http.StatusOK, user.ID)
	})

	cases := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, "missing bearer token"},
		{"Basic abc", http.StatusUnauthorized, "missing bearer token"},
		{"Bearer bad", http.StatusUnauthorized, "invalid or expired session"},
		{"Bearer down", http.StatusBadGateway, "identity provider unavailable"},
		{"bearer good", http.StatusOK, "u1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("%q: got %d %s", tc.header, rec.Code, rec.Body.String())
		}
	}
}

func TestMetaSignature(t *testing.T) {
	r := gin.New()
	r.POST("/webhook", MetaSignature("app-secret", nil), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	payload := `{"object":"whatsapp_business_account"}`
	valid := "sha256=" + hex.EncodeToString(sign([]byte("app-secret"), []byte(payload)))
	cases := []struct {
		name      string
		signature string
		status    int
	}{
		{"valid", valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "sha256=" + hex.EncodeToString(sign([]byte("other"), []byte(payload))), http.StatusUnauthorized},
		{"not hex", "sha256=zz", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
		if tc.signature != "" {
			req.Header.Set("X-Hub-Signature-256", tc.signature)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: got %d %s", tc.name, rec.Code, rec.Body.String())
		}
		if tc.status == http.StatusOK && rec.Body.String() != payload {
			t.Fatalf("body not restored: %q", rec.Body.String())
		}
	}
}

func TestMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/animals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/animals/a", "/animals/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/animals/:id", "200")); got != 2 {
		t.Fatalf("expected 2 requests on the route, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}
