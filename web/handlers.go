package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/simbank/bank"
	"github.com/kbukum/simbank/errors"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/oauth"
	"github.com/kbukum/simbank/observability"
	"github.com/kbukum/simbank/server"
	"github.com/kbukum/simbank/session"
	"github.com/kbukum/simbank/version"
)

// Handlers carries the dependencies of the HTTP surface.
type Handlers struct {
	flow     *oauth.Flow
	sessions *session.Manager
	bank     *bank.Service
	health   []observability.HealthChecker
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures optional handler dependencies.
type Option func(*Handlers)

// WithMetrics attaches metric instruments to the handlers.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithHealthChecker registers a component for the health endpoint.
func WithHealthChecker(hc observability.HealthChecker) Option {
	return func(h *Handlers) { h.health = append(h.health, hc) }
}

// NewHandlers creates the handler set.
func NewHandlers(flow *oauth.Flow, sessions *session.Manager, bankSvc *bank.Service, log *logger.Logger, opts ...Option) *Handlers {
	h := &Handlers{
		flow:     flow,
		sessions: sessions,
		bank:     bankSvc,
		log:      log.WithComponent("web"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts all routes on the engine.
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/", h.Landing)
	r.GET("/login", h.Login)
	r.GET("/callback", h.Callback)
	r.GET("/logout", h.Logout)
	r.POST("/transfer", h.Transfer)
	r.POST("/submit-config", h.SubmitConfig)
	r.GET("/health", h.Health)
}

// Login starts a login attempt and redirects the browser to the provider.
// The stored customer msisdn rides along as login_hint so the provider can
// prefill the phone number.
func (h *Handlers) Login(c *gin.Context) {
	hint := h.bank.Snapshot().MSISDN

	authURL, err := h.flow.BeginLogin(c.Request.Context(), hint)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.Redirect(c, authURL)
}

// Callback finishes a login attempt: it validates the provider callback,
// establishes the session, and sends the browser back to the landing page.
func (h *Handlers) Callback(c *gin.Context) {
	start := time.Now()

	result, err := h.flow.HandleCallback(c.Request.Context(), oauth.Callback{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	})
	if err != nil {
		h.recordLogin(c, "error", start)
		server.RespondWithError(c, err)
		return
	}

	sess := &session.Session{User: result.User, Token: result.Token}
	if err := h.sessions.Save(c, sess); err != nil {
		h.recordLogin(c, "error", start)
		server.RespondWithError(c, errors.ServiceUnavailable("session store").WithCause(err))
		return
	}

	h.log.Info("Login completed", logger.Fields(
		"sub", result.User["sub"],
	))
	h.recordLogin(c, "ok", start)
	server.Redirect(c, "/")
}

// Logout clears the session and redirects to the provider logout endpoint
// when one is configured. The id_token_hint is captured before the session
// is destroyed; a second logout finds no session and redirects locally.
func (h *Handlers) Logout(c *gin.Context) {
	var idTokenHint string
	if sess, err := h.sessions.Load(c); err == nil && sess != nil && sess.Token != nil {
		idTokenHint = sess.Token.IDToken
	}

	if err := h.sessions.Clear(c); err != nil {
		// The cookie is gone regardless; log and proceed with the redirect.
		h.log.Warn("Failed to clear session", logger.ErrorFields("logout", err))
	}

	target := "/"
	if idTokenHint != "" {
		target = h.flow.LogoutURL(idTokenHint)
	}
	server.Redirect(c, target)
}

// Landing renders the JSON landing page: account snapshot plus login state.
func (h *Handlers) Landing(c *gin.Context) {
	snapshot := h.bank.Snapshot()

	resp := gin.H{
		"service":       "simbank",
		"version":       version.Short(),
		"balance":       snapshot.Balance,
		"msisdn":        snapshot.MSISDN,
		"config_type":   snapshot.ConfigType,
		"authenticated": false,
	}

	if sess, err := h.sessions.Load(c); err == nil && sess.Authenticated() {
		resp["authenticated"] = true
		resp["user"] = sess.User
	}

	server.RespondOK(c, resp)
}

type transferRequest struct {
	Amount float64 `form:"amount" binding:"required,gt=0"`
}

// Transfer debits the account. Requires a logged-in session; the session's
// access token feeds the SIM-swap risk check for large amounts.
func (h *Handlers) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBind(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("amount", "please enter a positive value").WithCause(err))
		return
	}

	sess, err := h.sessions.Load(c)
	if err != nil {
		server.RespondWithError(c, errors.ServiceUnavailable("session store").WithCause(err))
		return
	}
	if !sess.Authenticated() {
		server.RespondWithError(c, errors.Unauthorized("Please log in to make a transfer."))
		return
	}

	accessToken, _ := sess.AccessToken()
	balance, err := h.bank.Transfer(c.Request.Context(), req.Amount, accessToken)
	if err != nil {
		h.recordTransfer(c, err)
		server.RespondWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTransfer(c.Request.Context(), "ok")
	}
	server.RespondOK(c, gin.H{"balance": balance})
}

type submitConfigRequest struct {
	MSISDN     string `form:"msisdn" binding:"required,msisdn"`
	ConfigType string `form:"configType"`
}

// SubmitConfig updates the stored customer configuration.
func (h *Handlers) SubmitConfig(c *gin.Context) {
	var req submitConfigRequest
	if err := c.ShouldBind(&req); err != nil {
		if req.MSISDN == "" {
			server.RespondWithError(c, errors.MissingField("msisdn").WithCause(err))
		} else {
			server.RespondWithError(c, errors.InvalidInput("msisdn", "must be a tel:+<country><number> msisdn").WithCause(err))
		}
		return
	}

	if err := h.bank.SubmitConfig(req.MSISDN, req.ConfigType); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.bank.Snapshot())
}

// Health reports service and component health. Any component down turns the
// response into a 503.
func (h *Handlers) Health(c *gin.Context) {
	sh := observability.NewServiceHealth("simbank", version.Short())
	for _, hc := range h.health {
		sh.AddComponent(hc.CheckHealth(c.Request.Context()))
	}

	status := http.StatusOK
	if sh.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, sh)
}

func (h *Handlers) recordLogin(c *gin.Context, outcome string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordLogin(c.Request.Context(), outcome, time.Since(start))
	}
}

func (h *Handlers) recordTransfer(c *gin.Context, err error) {
	if h.metrics == nil {
		return
	}
	if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeForbidden {
		h.metrics.RecordTransferBlocked(c.Request.Context())
	}
	h.metrics.RecordTransfer(c.Request.Context(), "error")
}
