package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/simbank/bank"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/oauth"
	"github.com/kbukum/simbank/session"
	"github.com/kbukum/simbank/simswap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signedIDToken(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing id_token: %v", err)
	}
	return signed
}

// newSimSwapChecker builds a real simswap client against a test server.
func newSimSwapChecker(t *testing.T, baseURL string) bank.SwapChecker {
	t.Helper()
	client, err := simswap.New(simswap.Config{BaseURL: baseURL}, logger.NewDefault("web-test"))
	if err != nil {
		t.Fatalf("simswap.New: %v", err)
	}
	return client
}

type testApp struct {
	router   *gin.Engine
	sessions *session.Manager
	tokenSrv *httptest.Server
}

// newTestApp assembles the whole HTTP surface on memory stores with an
// httptest token endpoint standing in for the provider.
func newTestApp(t *testing.T, idTokenClaims gojwt.MapClaims, checker bank.SwapChecker) *testApp {
	t.Helper()
	log := logger.NewDefault("web-test")

	body := `{"access_token":"at-1","token_type":"Bearer"}`
	if idTokenClaims != nil {
		body = fmt.Sprintf(`{"access_token":"at-1","token_type":"Bearer","id_token":%q}`,
			signedIDToken(t, idTokenClaims))
	}
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(tokenSrv.Close)

	flow, err := oauth.NewFlow(oauth.Config{
		ClientID:              "client-1",
		ClientSecret:          "secret-1",
		AuthorizationEndpoint: "https://idp.example.com/authorize",
		TokenEndpoint:         tokenSrv.URL,
		RedirectURI:           "http://app.example.com/callback",
		LogoutEndpoint:        "https://idp.example.com/logout",
		AppBaseURL:            "http://app.example.com",
	}, oauth.NewMemoryTransactionStore(), log)
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}

	sessions, err := session.NewManager(session.NewMemoryStore(), session.Config{}, log)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	bankSvc, err := bank.NewService(bank.Config{
		InitialBalance: 1000,
		RiskThreshold:  200,
		SwapWindow:     48 * time.Hour,
		DefaultMSISDN:  "tel:+5511123456789",
	}, checker, log)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	router := gin.New()
	NewHandlers(flow, sessions, bankSvc, log).Register(router)

	return &testApp{router: router, sessions: sessions, tokenSrv: tokenSrv}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login runs /login then /callback and returns the session cookies.
func (a *testApp) login(t *testing.T) []*http.Cookie {
	t.Helper()

	w := a.do(t, http.MethodGet, "/login", nil, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("GET /login status = %d, want 302", w.Code)
	}
	authURL, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing authorize redirect: %v", err)
	}
	state := authURL.Query().Get("state")
	if state == "" {
		t.Fatal("authorize redirect missing state")
	}

	w = a.do(t, http.MethodGet, "/callback?code=auth-code-1&state="+url.QueryEscape(state), nil, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("GET /callback status = %d, body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("callback redirect = %q, want /", loc)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("callback set no session cookie")
	}
	return cookies
}

func TestLoginRedirectCarriesHintAndPKCE(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodGet, "/login", nil, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	u, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing redirect: %v", err)
	}
	q := u.Query()
	if got := q.Get("login_hint"); got != "tel:+5511123456789" {
		t.Errorf("login_hint = %q", got)
	}
	if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != "S256" {
		t.Error("redirect missing PKCE challenge")
	}
}

func TestFullLoginEstablishesSession(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1", "name": "Maria"}, nil)

	cookies := app.login(t)

	w := app.do(t, http.MethodGet, "/", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}

	var resp struct {
		Data struct {
			Authenticated bool           `json:"authenticated"`
			User          map[string]any `json:"user"`
			Balance       float64        `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding landing page: %v", err)
	}
	if !resp.Data.Authenticated {
		t.Error("landing page shows unauthenticated after login")
	}
	if got := resp.Data.User["sub"]; got != "u1" {
		t.Errorf("user sub = %v, want u1", got)
	}
	if resp.Data.Balance != 1000 {
		t.Errorf("balance = %v, want 1000", resp.Data.Balance)
	}
}

func TestCallbackForgedStateRejected(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodGet, "/callback?code=x&state=never-issued", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallbackReplayRejected(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodGet, "/login", nil, nil)
	authURL, _ := url.Parse(w.Header().Get("Location"))
	state := authURL.Query().Get("state")

	first := app.do(t, http.MethodGet, "/callback?code=c1&state="+url.QueryEscape(state), nil, nil)
	if first.Code != http.StatusFound {
		t.Fatalf("first callback status = %d", first.Code)
	}
	replay := app.do(t, http.MethodGet, "/callback?code=c1&state="+url.QueryEscape(state), nil, nil)
	if replay.Code != http.StatusBadRequest {
		t.Fatalf("replayed callback status = %d, want 400", replay.Code)
	}
}

func TestCallbackProviderErrorRejected(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodGet, "/callback?error=access_denied&error_description=user+cancelled", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "access_denied") {
		t.Errorf("body %q does not mention provider error", w.Body.String())
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)
	cookies := app.login(t)

	first := app.do(t, http.MethodGet, "/logout", nil, cookies)
	if first.Code != http.StatusFound {
		t.Fatalf("first logout status = %d", first.Code)
	}
	loc := first.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://idp.example.com/logout") {
		t.Fatalf("first logout redirect = %q, want provider logout", loc)
	}
	if !strings.Contains(loc, "id_token_hint=") {
		t.Errorf("first logout missing id_token_hint: %q", loc)
	}

	// Second logout: the session is gone, so the redirect stays local and
	// carries no id_token_hint.
	second := app.do(t, http.MethodGet, "/logout", nil, cookies)
	if second.Code != http.StatusFound {
		t.Fatalf("second logout status = %d", second.Code)
	}
	if loc := second.Header().Get("Location"); loc != "/" {
		t.Errorf("second logout redirect = %q, want /", loc)
	}
}

func TestTransferRequiresLogin(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodPost, "/transfer", url.Values{"amount": {"50"}}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestTransferRejectsBadAmount(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/transfer", url.Values{"amount": {"-5"}}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTransferDebitsBalance(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/transfer", url.Values{"amount": {"150"}}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Balance float64 `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Balance != 850 {
		t.Errorf("balance = %v, want 850", resp.Data.Balance)
	}
}

func TestTransferBlockedByRecentSwap(t *testing.T) {
	simswapSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"latestSimChange":%q}`, time.Now().UTC().Add(-2*time.Hour).Format(time.RFC3339))
	}))
	defer simswapSrv.Close()

	checker := newSimSwapChecker(t, simswapSrv.URL)
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, checker)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/transfer", url.Values{"amount": {"500"}}, cookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body = %s", w.Code, w.Body.String())
	}
}

func TestSubmitConfigUpdatesStoredMSISDN(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodPost, "/submit-config",
		url.Values{"msisdn": {"tel:+5511999999999"}, "configType": {"sim_swap"}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "tel:+5511999999999") {
		t.Errorf("body %q missing updated msisdn", w.Body.String())
	}

	w = app.do(t, http.MethodPost, "/submit-config", url.Values{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing msisdn status = %d, want 400", w.Code)
	}

	w = app.do(t, http.MethodPost, "/submit-config", url.Values{"msisdn": {"not-a-number"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed msisdn status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INVALID_INPUT") {
		t.Errorf("body = %s, want INVALID_INPUT", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, gojwt.MapClaims{"sub": "u1"}, nil)

	w := app.do(t, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"up"`) {
		t.Errorf("body %q missing up status", w.Body.String())
	}
}
