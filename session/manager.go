package session

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/simbank/logger"
)

// Manager binds sessions to requests through an opaque identifier cookie.
// The cookie carries only the random id; all session data stays server-side.
type Manager struct {
	store Store
	cfg   Config
	log   *logger.Logger
}

// NewManager creates a session manager on the given store.
func NewManager(store Store, cfg Config, log *logger.Logger) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("session manager requires a store")
	}
	return &Manager{store: store, cfg: cfg, log: log.WithComponent("session")}, nil
}

// Load returns the request's session, or nil when the browser has none.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	id, err := c.Cookie(m.cfg.CookieName)
	if err != nil || id == "" {
		return nil, nil
	}
	return m.store.Get(c.Request.Context(), id)
}

// Save persists the session, issuing the identifier cookie when the browser
// does not hold one yet.
func (m *Manager) Save(c *gin.Context, sess *Session) error {
	id, err := c.Cookie(m.cfg.CookieName)
	if err != nil || id == "" {
		id = uuid.NewString()
		m.setCookie(c, id, int(m.cfg.TTL.Seconds()))
		m.log.Debug("Issued new session cookie", logger.Fields(logger.FieldSessionID, id))
	}
	return m.store.Set(c.Request.Context(), id, sess)
}

// Clear removes the session server-side and expires the cookie. Clearing
// twice is not an error.
func (m *Manager) Clear(c *gin.Context) error {
	id, err := c.Cookie(m.cfg.CookieName)
	if err != nil || id == "" {
		return nil
	}
	if err := m.store.Clear(c.Request.Context(), id); err != nil {
		return err
	}
	m.setCookie(c, "", -1)
	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
