package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mailmemories/mail-memories/internal/model"
)

type pingStore struct {
	err error
}

func (p *pingStore) Credentials() Credentials             { return nil }
func (p *pingStore) HealthPing(ctx context.Context) error { return p.err }

type readOnlyStore struct {
	getErr error
}

func (r *readOnlyStore) Credentials() Credentials { return roCredentials{r.getErr} }

type roCredentials struct{ getErr error }

func (c roCredentials) Create(ctx context.Context, cr *model.Credential) (*model.Credential, error) {
	return nil, errors.New("not implemented")
}

func (c roCredentials) GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Credential, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return nil, model.ErrNotFound
}

func (c roCredentials) UpdateTokens(ctx context.Context, credentialID string, upd model.TokenUpdate) error {
	return errors.New("not implemented")
}

func (c roCredentials) Delete(ctx context.Context, credentialID string) error {
	return errors.New("not implemented")
}

func TestStoreHealthCheckerUsesPinger(t *testing.T) {
	st := &pingStore{}
	hc := NewStoreHealthChecker(st, zerolog.Nop(), time.Second)

	if hc.IsHealthy() {
		t.Fatal("should start unhealthy")
	}
	if !hc.probe(context.Background()) {
		t.Fatal("healthy ping should probe true")
	}

	st.err = errors.New("connection refused")
	if hc.probe(context.Background()) {
		t.Fatal("failing ping should probe false")
	}
}

func TestStoreHealthCheckerReadFallback(t *testing.T) {
	hc := NewStoreHealthChecker(&readOnlyStore{}, zerolog.Nop(), time.Second)
	// ErrNotFound from the sentinel read means the database answered.
	if !hc.probe(context.Background()) {
		t.Fatal("responsive store should probe true")
	}

	hc = NewStoreHealthChecker(&readOnlyStore{getErr: errors.New("db down")}, zerolog.Nop(), time.Second)
	if hc.probe(context.Background()) {
		t.Fatal("failing store should probe false")
	}
}
