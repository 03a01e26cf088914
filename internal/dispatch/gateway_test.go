package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/rate"
	"github.com/xenocrypt01/smile-report-dash/internal/report"
)

// fakeSender cuenta hand-offs y puede fallar a demanda.
type fakeSender struct {
	mu    sync.Mutex
	sent  []string // destinatarios
	fail  bool
	texts []string
}

func (f *fakeSender) Send(to, subject, html, txt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, to)
	f.texts = append(f.texts, txt)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// clockStore envuelve un MemoryStore con reloj controlado via el gateway.
type fixture struct {
	gw     *Gateway
	sender *fakeSender
	now    *time.Time
	store  *rate.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := rate.NewMemoryStore(60 * time.Second)
	sender := &fakeSender{}
	gw := NewGateway(store, sender, nil, "Security Report")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gw.now = func() time.Time { return now }
	f := &fixture{gw: gw, sender: sender, now: &now, store: store}
	f.advance(0)
	return f
}

// advance corre el reloj del gateway y del store juntos.
func (f *fixture) advance(d time.Duration) {
	*f.now = f.now.Add(d)
	f.store.SetNow(func() time.Time { return *f.now })
}

func validReq() report.Request {
	return report.Request{
		TargetPhone:    "+15551234567",
		ReportReason:   "spam",
		RecipientEmail: "a@b.com",
		SenderName:     "Alice",
		ContactDetails: "alice@x.com",
	}
}

func TestDispatch_ScenarioU1(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// t=0: éxito con recibo
	rcpt, err := f.gw.Dispatch(ctx, "U1", validReq())
	if err != nil {
		t.Fatalf("t=0: %v", err)
	}
	if rcpt.ID == "" || rcpt.IdentityID != "U1" || rcpt.Recipient != "a@b.com" {
		t.Fatalf("bad receipt: %+v", rcpt)
	}

	// t=30s: rate limited, sin segundo hand-off
	f.advance(30 * time.Second)
	_, err = f.gw.Dispatch(ctx, "U1", validReq())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("t=30s: expected ErrRateLimited, got %v", err)
	}
	var rl *RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitedError, got %T", err)
	}
	if rl.RetryAfter != 30*time.Second {
		t.Fatalf("retry_after=%v quiere 30s", rl.RetryAfter)
	}
	if f.sender.count() != 1 {
		t.Fatalf("rate-limited dispatch must not hand off mail, count=%d", f.sender.count())
	}

	// t=65s: éxito de nuevo
	f.advance(35 * time.Second)
	if _, err := f.gw.Dispatch(ctx, "U1", validReq()); err != nil {
		t.Fatalf("t=65s: %v", err)
	}
	if f.sender.count() != 2 {
		t.Fatalf("expected 2 hand-offs, got %d", f.sender.count())
	}
}

func TestDispatch_IdentitiesDoNotShareWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.gw.Dispatch(ctx, "U1", validReq()); err != nil {
		t.Fatalf("U1: %v", err)
	}
	if _, err := f.gw.Dispatch(ctx, "U2", validReq()); err != nil {
		t.Fatalf("U2 must have its own window: %v", err)
	}
}

func TestDispatch_DeliveryFailureConsumesWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sender.fail = true
	_, err := f.gw.Dispatch(ctx, "U1", validReq())
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}

	// Política documentada: el fallo de entrega NO devuelve la ventana.
	f.sender.fail = false
	f.advance(10 * time.Second)
	_, err = f.gw.Dispatch(ctx, "U1", validReq())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("window must stay consumed after delivery failure, got %v", err)
	}

	f.advance(55 * time.Second)
	if _, err := f.gw.Dispatch(ctx, "U1", validReq()); err != nil {
		t.Fatalf("after full window: %v", err)
	}
}

func TestDispatch_ConcurrentSameIdentitySingleWinner(t *testing.T) {
	store := rate.NewMemoryStore(60 * time.Second)
	sender := &fakeSender{}
	gw := NewGateway(store, sender, nil, "")
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, limited := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.Dispatch(ctx, "U1", validReq())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrRateLimited):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
	if limited != attempts-1 {
		t.Fatalf("expected %d rate limited, got %d", attempts-1, limited)
	}
	if sender.count() != 1 {
		t.Fatalf("expected exactly 1 mail hand-off, got %d", sender.count())
	}
}

func TestDispatch_BodyContainsReportFields(t *testing.T) {
	f := newFixture(t)
	req := validReq()
	req.TargetIdentifier = "some-handle"

	if _, err := f.gw.Dispatch(context.Background(), "U1", req); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	body := f.sender.texts[0]
	for _, want := range []string{"+15551234567", "some-handle", "spam", "Alice", "alice@x.com"} {
		if !strings.Contains(body, want) {
			t.Fatalf("mail body missing %q:\n%s", want, body)
		}
	}
}

// fakeAudit registra y puede fallar; un fallo no debe voltear el despacho.
type fakeAudit struct {
	fail bool
	got  []Receipt
}

func (a *fakeAudit) Record(_ context.Context, r Receipt) error {
	if a.fail {
		return fmt.Errorf("db down")
	}
	a.got = append(a.got, r)
	return nil
}

func TestDispatch_AuditFailureDoesNotFailDispatch(t *testing.T) {
	f := newFixture(t)
	audit := &fakeAudit{fail: true}
	f.gw.Audit = audit

	if _, err := f.gw.Dispatch(context.Background(), "U1", validReq()); err != nil {
		t.Fatalf("audit failure must not fail dispatch: %v", err)
	}

	audit.fail = false
	rcpt, err := f.gw.Dispatch(context.Background(), "U2", validReq())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(audit.got) != 1 || audit.got[0].ID != rcpt.ID {
		t.Fatalf("expected receipt recorded, got %+v", audit.got)
	}
}
