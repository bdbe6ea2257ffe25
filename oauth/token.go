package oauth

// TokenResponse is the provider's token-exchange result. It is held only in
// the user's session and never persisted server-side beyond session lifetime.
// Unknown fields in the wire response are ignored.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// LoginResult is the terminal success outcome of HandleCallback: the token
// set plus the materialized session user.
type LoginResult struct {
	Token *TokenResponse
	User  map[string]any
}
