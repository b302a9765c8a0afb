package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailmemories/mail-memories/internal/gmail"
	"github.com/mailmemories/mail-memories/internal/googleoauth"
	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/services"
	"github.com/mailmemories/mail-memories/internal/store"
)

type stubCredentials struct {
	cred *model.Credential
}

func (s *stubCredentials) Create(ctx context.Context, c *model.Credential) (*model.Credential, error) {
	return c, nil
}

func (s *stubCredentials) GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Credential, error) {
	if s.cred == nil || s.cred.UserID != userID {
		return nil, model.ErrNotFound
	}
	return s.cred, nil
}

func (s *stubCredentials) UpdateTokens(ctx context.Context, credentialID string, upd model.TokenUpdate) error {
	return nil
}

func (s *stubCredentials) Delete(ctx context.Context, credentialID string) error {
	return model.ErrNotFound
}

type stubStore struct {
	creds stubCredentials
}

func (s *stubStore) Credentials() store.Credentials { return &s.creds }

type stubGmail struct{}

func (stubGmail) ListMessages(ctx context.Context, accessToken, query string, maxResults int) ([]gmail.MessageRef, error) {
	return nil, nil
}

func (stubGmail) GetMessage(ctx context.Context, accessToken, messageID string) (*gmail.Message, error) {
	return nil, &gmail.StatusError{StatusCode: 404}
}

type stubRefresher struct{}

func (stubRefresher) Refresh(ctx context.Context, refreshToken string) (*googleoauth.Grant, error) {
	return nil, googleoauth.ErrNotConfigured
}

func newTestRouter(st store.Store) *mux.Router {
	log := zerolog.New(io.Discard)
	tokens := services.NewTokenService(st, stubRefresher{}, log)
	svc := services.NewMemoryService(st, stubGmail{}, tokens, log)
	h := NewMemoriesHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/users/{userId}/memories/today", h.GetToday).Methods(http.MethodGet)
	return r
}

func TestGetTodayNeedsConnection(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/memories/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"status":"needs-connection","items":null,"message":"Reconnect Gmail to load your memories."}`,
		rec.Body.String())
}

func TestGetTodayOkEmptyDay(t *testing.T) {
	token := "at-1"
	expiry := time.Now().Add(time.Hour)
	st := &stubStore{}
	st.creds.cred = &model.Credential{
		ID:                   "cred-1",
		UserID:               "user-1",
		ProviderID:           model.ProviderGoogle,
		AccessToken:          &token,
		AccessTokenExpiresAt: &expiry,
	}
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/memories/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","items":[]}`, string(body))
}

func TestGetTodayUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/users//memories/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// gorilla/mux refuses an empty path segment before the handler runs.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckHealth(t *testing.T) {
	healthy := true
	h := NewHealthHandler(func() bool { return healthy })

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.CheckHealth(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	healthy = false
	rec = httptest.NewRecorder()
	h.CheckHealth(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}
