package middleware

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/entity"
	"github.com/gabot/faq-backend/internal/pkg/logger"
	"github.com/gabot/faq-backend/internal/pkg/response"
	"github.com/gorilla/sessions"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Session value keys.
const (
	sessionKeyClientID = "client_id"
	sessionKeyUsername = "username"
)

type principalKey struct{}

// Principal is the logged-in client of a request.
type Principal struct {
	ClientID int64
	Username string
	Role     entity.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == entity.RoleAdmin
}

// ClientGetter loads the current state of a client.
type ClientGetter interface {
	Get(ctx context.Context, id int64) (*entity.Client, error)
}

// SessionManager keeps the login in a signed cookie. The client is reloaded
// on every request so approval changes and deletions apply immediately.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	clients ClientGetter
}

func NewSessionManager(cfg config.SessionConfig, clients ClientGetter) *SessionManager {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(cfg.Secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite(cfg.SameSite),
	}

	return &SessionManager{store: store, name: cfg.Name, clients: clients}
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Login stores c in the session cookie.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, c *entity.Client) error {
	session, err := m.store.Get(r, m.name)
	if err != nil && session == nil {
		return fmt.Errorf("get session: %w", err)
	}

	session.Values[sessionKeyClientID] = c.ID
	session.Values[sessionKeyUsername] = c.Username

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout expires the session cookie.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, m.name)
	if err != nil && session == nil {
		return fmt.Errorf("get session: %w", err)
	}

	session.Options.MaxAge = -1
	delete(session.Values, sessionKeyClientID)
	delete(session.Values, sessionKeyUsername)

	return session.Save(r, w)
}

func (m *SessionManager) principal(r *http.Request) (Principal, bool) {
	// an undecodable cookie yields a fresh session and an error; treat as anonymous
	session, err := m.store.Get(r, m.name)
	if err != nil || session == nil {
		return Principal{}, false
	}

	id, ok := session.Values[sessionKeyClientID].(int64)
	if !ok {
		return Principal{}, false
	}

	c, err := m.clients.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, entity.ErrClientNotFound) {
			ctxzap.Error(r.Context(), "failed to load session client", zap.Int64("client_id", id), zap.Error(err))
		}
		return Principal{}, false
	}
	if c.Status != entity.ClientStatusApproved {
		return Principal{}, false
	}

	return Principal{ClientID: c.ID, Username: c.Username, Role: c.Role}, true
}

// Authenticate attaches the session principal, if any, to the request context.
func (m *SessionManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := m.principal(r); ok {
			ctx := logger.WithTenant(WithPrincipal(r.Context(), p), p.ClientID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the logged-in client set by Authenticate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// RequireClient rejects anonymous requests with 401.
func RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			response.Error(r.Context(), w, http.StatusUnauthorized, "login required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 404 to everyone but admins so the admin surface
// stays hidden.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); !ok || !p.IsAdmin() {
			response.Error(r.Context(), w, http.StatusNotFound, "resource not found", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
