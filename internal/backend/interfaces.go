package backend

import (
	"context"

	"github.com/agrotrace/cropboard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend.go -package=mock

// Client is the full surface the external backend-as-a-service exposes to
// this application: session management plus the two record collections.
// All persistence, authentication, and authorization live behind it; the
// client never enforces anything the backend would not enforce itself.
type Client interface {
	// SignIn exchanges credentials for a session via the password grant.
	// On success the access token is retained for subsequent authed calls.
	// Rejected credentials map to ErrInvalidCredentials.
	SignIn(ctx context.Context, email, password string) (models.Session, error)

	// CurrentUser returns the identity of the current session, or (nil, nil)
	// when no valid session exists. It re-queries the backend rather than
	// decoding local state, so the answer always matches the source of truth.
	CurrentUser(ctx context.Context) (*models.Identity, error)

	// SignOut revokes the current session and drops the retained token.
	SignOut(ctx context.Context) error

	// SetToken replaces the retained access token ("" clears it).
	SetToken(token string)
	// Token returns the retained access token, or "" when signed out.
	Token() string

	// ListNotifications fetches all notifications ordered created_at
	// descending.
	ListNotifications(ctx context.Context) ([]models.Notification, error)

	// InsertNotification creates a notification and returns the stored record
	// with its server-assigned id and created_at.
	InsertNotification(ctx context.Context, title, message, author string) (models.Notification, error)

	// DeleteNotification deletes by id. Ownership is enforced server-side;
	// a row-level-security rejection surfaces as ErrForbidden.
	DeleteNotification(ctx context.Context, id int64) error

	// ListFinalizedBatches fetches batch records flagged finalized, ordered
	// created_at descending.
	ListFinalizedBatches(ctx context.Context) ([]models.Batch, error)
}
