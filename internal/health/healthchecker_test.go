package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) {}

func TestServiceHealthCheckerAggregates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &fakeChecker{name: "store"}
	st.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), st)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, svc.IsHealthy)

	st.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })

	st.healthy.Store(1)
	waitTrue(t, svc.IsHealthy)
}

func TestServiceHealthCheckerStartsUnhealthy(t *testing.T) {
	svc := NewServiceHealthChecker(zerolog.Nop())
	if svc.IsHealthy() {
		t.Fatal("should be unhealthy before first evaluation")
	}
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
