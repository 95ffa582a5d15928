package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

func newTestClient(t *testing.T, serverURL string) *httpClient {
	t.Helper()

	c, err := NewHTTPClient(ClientConfig{BaseURL: serverURL, AnonKey: "test-anon-key"}, logger.Nop())
	require.NoError(t, err)
	return c.(*httpClient)
}

// ── SignIn ───────────────────────────────────────────────────────────────────

func TestSignIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "test-anon-key", r.Header.Get("apikey"))

		var grant models.PasswordGrant
		require.NoError(t, json.NewDecoder(r.Body).Decode(&grant))
		assert.Equal(t, "alice@x.com", grant.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{
			AccessToken: "token-abc",
			TokenType:   "bearer",
			User:        models.Identity{UserID: "u-1", Email: "alice@x.com"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	sess, err := c.SignIn(context.Background(), "alice@x.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "token-abc", sess.AccessToken)
	assert.Equal(t, "alice@x.com", sess.Identity.Email)
	assert.Equal(t, "token-abc", c.Token())
}

func TestSignIn_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.SignIn(context.Background(), "alice@x.com", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, c.Token(), "a failed sign-in must not retain a token")
}

// ── CurrentUser ──────────────────────────────────────────────────────────────

func TestCurrentUser_NoToken(t *testing.T) {
	c := newTestClient(t, "http://localhost:1")

	identity, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity, "no token means signed out, not an error")
}

func TestCurrentUser_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Identity{UserID: "u-1", Email: "alice@x.com"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetToken("token-abc")

	identity, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "alice@x.com", identity.Email)
}

func TestCurrentUser_ExpiredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetToken("stale-token")

	identity, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
}

// ── SignOut ──────────────────────────────────────────────────────────────────

func TestSignOut_DropsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetToken("token-abc")

	require.NoError(t, c.SignOut(context.Background()))
	assert.Empty(t, c.Token())
}

// ── Notifications ────────────────────────────────────────────────────────────

func TestListNotifications_Success(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	want := []models.Notification{
		{ID: 2, Title: "Second", Message: "m2", Author: "alice@x.com", CreatedAt: now},
		{ID: 1, Title: "First", Message: "m1", Author: "alice@x.com", CreatedAt: now.Add(-time.Hour)},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/notifications", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.ListNotifications(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.True(t, want[0].CreatedAt.Equal(got[0].CreatedAt))
}

func TestInsertNotification_ReturnsServerRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/notifications", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var rows []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Hi", rows[0]["title"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]models.Notification{{
			ID: 3, Title: "Hi", Message: "Hello", Author: "alice@x.com",
			CreatedAt: time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC),
		}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.InsertNotification(context.Background(), "Hi", "Hello", "alice@x.com")

	require.NoError(t, err)
	assert.EqualValues(t, 3, got.ID)
	assert.False(t, got.CreatedAt.IsZero(), "created_at must be server-assigned")
}

func TestDeleteNotification_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.7", r.URL.Query().Get("id"))
		w.Header().Set("Content-Range", "*/1")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.DeleteNotification(context.Background(), 7))
}

// TestDeleteNotification_BlockedByPolicy covers the PostgREST quirk where a
// row-level-security rejection still answers 204 but reports zero affected
// rows.
func TestDeleteNotification_BlockedByPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "*/0")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.DeleteNotification(context.Background(), 7)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}

// ── Batches ──────────────────────────────────────────────────────────────────

func TestListFinalizedBatches_FilterAndOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/batch", r.URL.Path)
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_finalized"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Batch{
			{ID: "b-1", CropType: "strawberry", Variety: "albion", IsFinalized: true},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.ListFinalizedBatches(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b-1", got[0].ID)
}

func TestListFinalizedBatches_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListFinalizedBatches(context.Background())
	require.Error(t, err)
}

// ── URL normalisation ────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "full url", in: "https://demo.supabase.co/", want: "https://demo.supabase.co"},
		{name: "scheme added", in: "demo.supabase.co", want: "https://demo.supabase.co"},
		{name: "empty", in: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
