// Package backend implements the HTTP client for the Supabase services the
// bulletin board is built on: GoTrue for sessions and PostgREST for the
// notifications and batch collections.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

// ClientConfig carries the settings for the HTTP backend client.
type ClientConfig struct {
	// BaseURL is the project base URL (e.g. "https://xyz.supabase.co").
	BaseURL string
	// AnonKey is sent as the apikey header on every request.
	AnonKey string
	// Timeout is the per-request timeout; defaults to 15s.
	Timeout time.Duration
}

type httpClient struct {
	client  *resty.Client
	anonKey string
	logger  *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPClient constructs the REST implementation of [Client]. It normalises
// and validates the base URL and configures the shared resty client with the
// anon key header and request timeout.
func NewHTTPClient(cfg ClientConfig, log *logger.Logger) (Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.AnonKey)

	return &httpClient{client: cli, anonKey: cfg.AnonKey, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [Client].
func (h *httpClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [Client].
func (h *httpClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SignIn implements [Client]. It POSTs the password grant to
// POST /auth/v1/token?grant_type=password and retains the returned access
// token. The identity is taken from the token response, falling back to the
// token's own claims when the user object is absent.
func (h *httpClient) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	var tr models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("grant_type", "password").
		SetBody(models.PasswordGrant{Email: email, Password: password}).
		SetResult(&tr).
		Post("/auth/v1/token")
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapAuthError(resp); err != nil {
		return models.Session{}, err
	}

	identity := tr.User
	if identity.Email == "" {
		if claimed, claimErr := identityFromToken(tr.AccessToken); claimErr == nil {
			identity = claimed
		}
	}

	h.SetToken(tr.AccessToken)
	return models.Session{AccessToken: tr.AccessToken, Identity: identity}, nil
}

// CurrentUser implements [Client]. It GETs /auth/v1/user with the retained
// token. No token or a 401 both mean signed out and yield (nil, nil); that is
// a state, not an error.
func (h *httpClient) CurrentUser(ctx context.Context) (*models.Identity, error) {
	if h.Token() == "" {
		return nil, nil
	}

	var identity models.Identity
	resp, err := h.authedRequest(ctx).
		SetResult(&identity).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("current user request: %w", err)
	}
	if resp.StatusCode() == 401 {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return &identity, nil
}

// SignOut implements [Client]. It POSTs /auth/v1/logout and drops the
// retained token regardless of the response: a dead session on the server is
// indistinguishable from a revoked one from the client's point of view.
func (h *httpClient) SignOut(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/auth/v1/logout")
	h.SetToken("")
	if err != nil {
		return fmt.Errorf("sign out request: %w", err)
	}
	if resp.StatusCode() == 401 {
		return nil
	}

	return mapHTTPError(resp)
}

// ListNotifications implements [Client]. GET /rest/v1/notifications ordered by
// created_at descending.
func (h *httpClient) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("order", "created_at.desc").
		Get("/rest/v1/notifications")
	if err != nil {
		return nil, fmt.Errorf("list notifications request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.Notification
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode notifications response: %w", err)
	}

	return items, nil
}

// InsertNotification implements [Client]. POST /rest/v1/notifications with
// Prefer: return=representation so the server-assigned id and created_at come
// back in the same round trip.
func (h *httpClient) InsertNotification(ctx context.Context, title, message, author string) (models.Notification, error) {
	body := []map[string]string{{
		"title":   title,
		"message": message,
		"author":  author,
	}}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		Post("/rest/v1/notifications")
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Notification{}, err
	}

	var created []models.Notification
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return models.Notification{}, fmt.Errorf("decode insert response: %w", err)
	}
	if len(created) == 0 {
		return models.Notification{}, fmt.Errorf("insert response carried no record")
	}

	return created[0], nil
}

// DeleteNotification implements [Client]. DELETE /rest/v1/notifications with
// an id filter. PostgREST answers 204 whether or not the row-level policy let
// the delete through, so Count=exact is requested and zero affected rows from
// an authed delete maps to ErrForbidden.
func (h *httpClient) DeleteNotification(ctx context.Context, id int64) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("id", "eq."+strconv.FormatInt(id, 10)).
		Delete("/rest/v1/notifications")
	if err != nil {
		return fmt.Errorf("delete notification request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if affectedRows(resp) == 0 {
		return ErrForbidden
	}
	return nil
}

// ListFinalizedBatches implements [Client]. GET /rest/v1/batch filtered to
// finalized rows, ordered by created_at descending.
func (h *httpClient) ListFinalizedBatches(ctx context.Context) ([]models.Batch, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("is_finalized", "eq.true").
		SetQueryParam("order", "created_at.desc").
		Get("/rest/v1/batch")
	if err != nil {
		return nil, fmt.Errorf("list batches request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.Batch
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode batches response: %w", err)
	}

	return items, nil
}

func (h *httpClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// affectedRows reads the Content-Range header PostgREST sets when
// Prefer: count=exact is requested ("0-0/1" or "*/0"). Unparseable values
// count as one affected row so the conservative path is "the delete worked".
func affectedRows(resp *resty.Response) int64 {
	cr := resp.Header().Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 1
	}
	n, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 1
	}
	return n
}

// identityFromToken extracts email and subject from an access token's claims
// without verifying the signature; verification is the server's job, the
// client only needs the display values.
func identityFromToken(tokenString string) (models.Identity, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Identity{}, err
	}

	email, _ := claims["email"].(string)
	return models.Identity{UserID: sub, Email: email}, nil
}
