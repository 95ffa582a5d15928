// gatestub is a single-binary stand-in for the hosted backend, exposing just
// enough of the GoTrue and PostgREST surface for local development of the
// board: password sign-in, identity lookup, the notifications table with
// owner-only deletes, and the finalized-batch listing.
//
// Everything lives in memory and resets on restart.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

var tokenSecret = []byte("gatestub-dev-secret")

type account struct {
	userID       string
	email        string
	passwordHash []byte
}

type gate struct {
	logger *logger.Logger

	mu            sync.Mutex
	accounts      map[string]account
	notifications []models.Notification
	batchTable    []models.Batch
	nextID        int64
}

func main() {
	addr := flag.String("addr", ":54321", "listen address")
	flag.Parse()

	log := logger.NewClientLogger("gatestub")

	g, err := newGate(log)
	if err != nil {
		log.Fatal().Err(err).Msg("seed gatestub data")
	}

	log.Info().Str("addr", *addr).Msg("gatestub listening")
	if err = http.ListenAndServe(*addr, g.routes()); err != nil {
		log.Fatal().Err(err).Msg("gatestub stopped")
	}
}

func newGate(log *logger.Logger) (*gate, error) {
	g := &gate{
		logger:   log,
		accounts: make(map[string]account),
		nextID:   1,
	}

	for i, email := range []string{"alice@example.com", "bob@example.com"} {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		g.accounts[email] = account{
			userID:       fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i+1),
			email:        email,
			passwordHash: hash,
		}
	}

	now := time.Now().UTC()
	g.batchTable = []models.Batch{
		{ID: "batch-001", CropType: "strawberry", Variety: "albion", SowingDate: "2026-03-02",
			BlockchainHash: "0x5f8a1c", IsFinalized: true, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "batch-002", CropType: "strawberry", Variety: "monterey", SowingDate: "2026-03-18",
			BlockchainHash: "0x9b02de", IsFinalized: true, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "batch-003", CropType: "strawberry", Variety: "seascape", SowingDate: "2026-04-01",
			IsFinalized: false, CreatedAt: now.Add(-2 * time.Hour)},
	}
	g.notifications = []models.Notification{
		{ID: g.nextID, Title: "Welcome to CropBoard", Message: "First finalized batches are in.",
			Author: "alice@example.com", CreatedAt: now.Add(-48 * time.Hour)},
	}
	g.nextID++

	return g, nil
}

func (g *gate) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)

	router.Post("/auth/v1/token", g.token)
	router.Get("/auth/v1/user", g.user)
	router.Post("/auth/v1/logout", g.logout)

	router.Get("/rest/v1/notifications", g.listNotifications)
	router.Post("/rest/v1/notifications", g.insertNotification)
	router.Delete("/rest/v1/notifications", g.deleteNotification)
	router.Get("/rest/v1/batch", g.listBatches)

	return router
}

func (g *gate) token(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		httpError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	var grant models.PasswordGrant
	if err := json.NewDecoder(r.Body).Decode(&grant); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	g.mu.Lock()
	acc, ok := g.accounts[strings.ToLower(grant.Email)]
	g.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(grant.Password)) != nil {
		httpError(w, http.StatusBadRequest, "invalid_grant")
		return
	}

	signed, err := mintToken(acc)
	if err != nil {
		g.logger.Err(err).Msg("mint token")
		httpError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        models.Identity{UserID: acc.userID, Email: acc.email},
	})
}

func (g *gate) user(w http.ResponseWriter, r *http.Request) {
	identity, err := g.authenticate(r)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (g *gate) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := g.authenticate(r); err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *gate) listNotifications(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	items := make([]models.Notification, len(g.notifications))
	copy(items, g.notifications)
	g.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, items)
}

func (g *gate) insertNotification(w http.ResponseWriter, r *http.Request) {
	identity, err := g.authenticate(r)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var rows []models.Notification
	if err = json.NewDecoder(r.Body).Decode(&rows); err != nil || len(rows) != 1 {
		httpError(w, http.StatusBadRequest, "expected a single-row insert")
		return
	}

	row := rows[0]
	if strings.TrimSpace(row.Title) == "" || strings.TrimSpace(row.Message) == "" {
		httpError(w, http.StatusBadRequest, "title and message are required")
		return
	}

	g.mu.Lock()
	row.ID = g.nextID
	g.nextID++
	row.Author = identity.Email
	row.CreatedAt = time.Now().UTC()
	g.notifications = append(g.notifications, row)
	g.mu.Unlock()

	writeJSON(w, http.StatusCreated, []models.Notification{row})
}

// deleteNotification mimics PostgREST row-level security: a delete that the
// policy filters out still answers 204, with Content-Range reporting zero
// affected rows.
func (g *gate) deleteNotification(w http.ResponseWriter, r *http.Request) {
	identity, err := g.authenticate(r)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	idFilter := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(strings.TrimPrefix(idFilter, "eq."), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "unsupported id filter")
		return
	}

	affected := 0
	g.mu.Lock()
	kept := g.notifications[:0]
	for _, n := range g.notifications {
		if n.ID == id && n.Author == identity.Email {
			affected++
			continue
		}
		kept = append(kept, n)
	}
	g.notifications = kept
	g.mu.Unlock()

	w.Header().Set("Content-Range", fmt.Sprintf("*/%d", affected))
	w.WriteHeader(http.StatusNoContent)
}

func (g *gate) listBatches(w http.ResponseWriter, r *http.Request) {
	onlyFinalized := r.URL.Query().Get("is_finalized") == "eq.true"

	g.mu.Lock()
	items := make([]models.Batch, 0, len(g.batchTable))
	for _, b := range g.batchTable {
		if onlyFinalized && !b.IsFinalized {
			continue
		}
		items = append(items, b)
	}
	g.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, items)
}

func (g *gate) authenticate(r *http.Request) (models.Identity, error) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" || raw == r.Header.Get("Authorization") {
		return models.Identity{}, errors.New("missing bearer token")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).
		ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return tokenSecret, nil })
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return models.Identity{}, errors.New("token missing identity claims")
	}
	return models.Identity{UserID: sub, Email: email}, nil
}

func mintToken(acc account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   acc.userID,
		"email": acc.email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenSecret)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
