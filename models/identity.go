package models

// Identity is the authenticated user as reported by the auth backend.
// A nil *Identity means signed out. Email is the value compared against
// Notification.Author for the ownership gate in the UI.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Session couples an access token with the identity it was issued for.
type Session struct {
	AccessToken string
	Identity    Identity
}
