package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/cache"
)

// countingStore envuelve un cache en memoria y cuenta los Set, para
// verificar que la marca se escribe exactamente una vez.
type countingStore struct {
	cache.Client
	sets   int
	getErr error
}

func (c *countingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.sets++
	return c.Client.Set(ctx, key, value, ttl)
}

func (c *countingStore) Exists(ctx context.Context, key string) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	return c.Client.Exists(ctx, key)
}

func newCounting(t *testing.T) *countingStore {
	t.Helper()
	inner, err := cache.New(cache.Config{Kind: "memory"})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = inner.Close() })
	return &countingStore{Client: inner}
}

func TestBegin_FirstRunShowsTour(t *testing.T) {
	f := New(newCounting(t), nil)
	if !f.Begin(context.Background()) {
		t.Fatal("first run should show the tour")
	}
	step, pos, total := f.Current()
	if pos != 1 || total != len(DefaultSteps) {
		t.Fatalf("pos=%d total=%d, want 1/%d", pos, total, len(DefaultSteps))
	}
	if step.Title == "" {
		t.Fatal("first step should have a title")
	}
}

func TestNext_WalksAllStepsThenCloses(t *testing.T) {
	store := newCounting(t)
	f := New(store, nil)
	ctx := context.Background()
	if !f.Begin(ctx) {
		t.Fatal("expected tour to start")
	}

	steps := 1
	for f.Next(ctx) {
		steps++
	}
	if steps != len(DefaultSteps) {
		t.Fatalf("walked %d steps, want %d", steps, len(DefaultSteps))
	}
	if store.sets != 1 {
		t.Fatalf("seen flag written %d times, want exactly 1", store.sets)
	}

	// Segundo arranque: la marca persiste, el tour no vuelve.
	g := New(store, nil)
	if g.Begin(ctx) {
		t.Fatal("tour should not run again after completion")
	}
}

func TestSkip_MarksSeenOnce(t *testing.T) {
	store := newCounting(t)
	f := New(store, nil)
	ctx := context.Background()
	f.Begin(ctx)
	f.Skip(ctx)
	f.Skip(ctx) // repetido: no debe reescribir

	if store.sets != 1 {
		t.Fatalf("seen flag written %d times, want exactly 1", store.sets)
	}
	if f.Next(ctx) {
		t.Fatal("Next after Skip should report a finished tour")
	}

	g := New(store, nil)
	if g.Begin(ctx) {
		t.Fatal("tour should not run again after skipping")
	}
}

func TestClose_MarksSeen(t *testing.T) {
	store := newCounting(t)
	f := New(store, nil)
	ctx := context.Background()
	f.Begin(ctx)
	f.Close(ctx)

	if store.sets != 1 {
		t.Fatalf("seen flag written %d times, want 1", store.sets)
	}
	g := New(store, nil)
	if g.Begin(ctx) {
		t.Fatal("tour should not run again after Close")
	}
}

func TestBegin_StoreReadFailureShowsTour(t *testing.T) {
	store := newCounting(t)
	store.getErr = errors.New("kv down")
	f := New(store, nil)
	if !f.Begin(context.Background()) {
		t.Fatal("an unreadable flag must not hide the tour")
	}
}

func TestCustomSteps(t *testing.T) {
	store := newCounting(t)
	f := New(store, []Step{{Title: "solo"}})
	ctx := context.Background()
	f.Begin(ctx)
	if f.Next(ctx) {
		t.Fatal("single-step tour should finish on first Next")
	}
	if store.sets != 1 {
		t.Fatalf("seen flag written %d times, want 1", store.sets)
	}
}
