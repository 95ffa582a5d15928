package models

import "time"

// Notification is a single staff announcement as stored in the backend's
// notifications table. ID and CreatedAt are server-assigned; the client never
// fabricates them, it always re-reads the canonical record after a mutation.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether the notification was authored by the given email.
// This is a display-level convenience only; the authoritative ownership check
// lives in the backend's row-level security policy.
func (n Notification) OwnedBy(email string) bool {
	return email != "" && n.Author == email
}
