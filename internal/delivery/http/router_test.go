package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"certinvite/internal/delivery/http/controllers"
	"certinvite/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct{}

func (stubLedger) Create(ctx context.Context, profileID, userID int64, activationCount int) (*domain.Invitation, error) {
	return &domain.Invitation{ID: 1, ProfileID: profileID, UserID: userID, Token: "tok", ActivationsTotal: activationCount}, nil
}

func (stubLedger) Load(ctx context.Context, token string) (*domain.Invitation, error) {
	return domain.NewInvalidInvitation(token), nil
}

func (stubLedger) Revoke(ctx context.Context, inv *domain.Invitation) error { return domain.ErrNotFound }

func (stubLedger) ListByProfile(ctx context.Context, profileID int64, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	return []*domain.Invitation{}, 0, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (domain.Principal, error) {
	switch token {
	case "admin":
		return domain.Principal{Subject: "op", Roles: []string{domain.AdminRole}}, nil
	case "support":
		return domain.Principal{Subject: "op", Roles: []string{"support"}}, nil
	}
	return domain.Principal{}, domain.ErrNotFound
}

type stubPinger struct{}

func (stubPinger) PingContext(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"}))
	invitations := controllers.NewInvitationController(logger, stubLedger{}, nil, nil, "https://cat.example.org")
	return NewRouter(RouterConfig{
		Logger:         logger,
		Verifier:       stubVerifier{},
		AllowedOrigins: []string{"https://admin.example.org"},
		Gatherer:       reg,
	}, invitations, controllers.NewHealthController(logger, stubPinger{}))
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		target     string
		token      string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "public status", method: http.MethodGet, target: "/accountstatus?token=x", wantStatus: http.StatusOK, wantBody: `"invalid"`},
		{name: "admin without token", method: http.MethodGet, target: "/admin/profiles/1/invitations", wantStatus: http.StatusUnauthorized},
		{name: "admin with wrong role", method: http.MethodGet, target: "/admin/profiles/1/invitations", token: "support", wantStatus: http.StatusForbidden},
		{name: "admin list", method: http.MethodGet, target: "/admin/profiles/1/invitations", token: "admin", wantStatus: http.StatusOK, wantBody: `"items":[]`},
		{name: "admin create", method: http.MethodPost, target: "/admin/profiles/1/invitations", token: "admin", body: `{"user_id":2,"activations":1}`, wantStatus: http.StatusCreated, wantBody: "accountstatus?token=tok"},
		{name: "revoke unknown", method: http.MethodPost, target: "/admin/invitations/x/revoke", token: "admin", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, target: "/accountstatus", wantStatus: http.StatusMethodNotAllowed},
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK, wantBody: "router_test_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/admin/profiles/1/invitations", nil)
	req.Header.Set("Origin", "https://admin.example.org")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://admin.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}
