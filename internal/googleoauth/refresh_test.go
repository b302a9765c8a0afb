package googleoauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRefreshSendsFormGrant(t *testing.T) {
	var gotForm map[string][]string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-new","expires_in":3599,"scope":"https://www.googleapis.com/auth/gmail.readonly","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret", 5*time.Second)
	grant, err := c.Refresh(context.Background(), "rt-1")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type: %q", gotContentType)
	}
	want := map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"refresh_token": "rt-1",
		"grant_type":    "refresh_token",
	}
	for k, v := range want {
		if got := gotForm[k]; len(got) != 1 || got[0] != v {
			t.Errorf("form field %s: %v, want %q", k, got, v)
		}
	}

	if grant.AccessToken != "at-new" || grant.ExpiresIn != 3599 {
		t.Fatalf("unexpected grant %+v", grant)
	}
	if grant.RefreshToken != "" {
		t.Fatalf("refresh token should be empty when omitted, got %q", grant.RefreshToken)
	}
	if grant.Scope != "https://www.googleapis.com/auth/gmail.readonly" {
		t.Fatalf("scope: %q", grant.Scope)
	}
}

func TestRefreshNotConfigured(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", "", 5*time.Second)
	_, err := c.Refresh(context.Background(), "rt-1")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret", 5*time.Second)
	_, err := c.Refresh(context.Background(), "rt-revoked")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}
