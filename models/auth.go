package models

// PasswordGrant is the request body for the auth token endpoint
// (grant_type=password).
type PasswordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the successful response of the token endpoint.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}
