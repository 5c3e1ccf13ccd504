package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"rosebot/internal/claim"
	"rosebot/internal/controlstore"
	"rosebot/internal/deliver"
	"rosebot/internal/eventbus"
	"rosebot/internal/pipeline"
	"rosebot/pkg/logx"
)

type recordingGen struct{}

func (recordingGen) Generate(_ context.Context, _, _ string) (string, error) {
	return "mensagem", nil
}

type recordingDeliverer struct {
	sent []string
}

func (d *recordingDeliverer) Deliver(_ context.Context, text, title string) (deliver.Status, error) {
	d.sent = append(d.sent, title)
	return deliver.Status{Success: true}, nil
}

func (d *recordingDeliverer) Limit() int { return 1024 }

type fixture struct {
	svc   *Service
	store controlstore.Store
	reg   *claim.Registrar
	del   *recordingDeliverer
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := controlstore.Open(controlstore.Config{
		Driver: "file",
		Path:   filepath.Join(t.TempDir(), "control.json"),
	}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{store: store, del: &recordingDeliverer{}}
	f.reg = claim.NewRegistrar(store, logx.Nop(), eventbus.New())
	pipe := pipeline.New(recordingGen{}, f.del, eventbus.New(), logx.Nop(), pipeline.Options{})
	f.svc = New(f.reg, pipe, time.UTC, logx.Nop(), Options{
		Now: func() time.Time { return f.now },
	})
	return f
}

func TestTickFiresFixedSlotOnce(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2026, 3, 10, 8, 0, 10, 0, time.UTC)

	// A 45s tick lands twice inside one minute; the claim makes the second
	// pass a no-op.
	f.svc.Tick(context.Background())
	f.now = f.now.Add(45 * time.Second)
	f.svc.Tick(context.Background())

	if len(f.del.sent) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(f.del.sent))
	}
}

func TestTickOutsideSlotDoesNothing(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2026, 3, 10, 8, 3, 0, 0, time.UTC)
	f.svc.Tick(context.Background())
	if len(f.del.sent) != 0 {
		t.Fatalf("deliveries = %d, want 0", len(f.del.sent))
	}
}

func TestTickFiresRandomSlot(t *testing.T) {
	f := newFixture(t)
	// Pin today's random times so the tick can hit one deterministically.
	err := f.store.Save(controlstore.State{
		Date:        "2026-03-10",
		Sent:        []string{},
		RandomTimes: [][2]int{{9, 30}, {15, 0}},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	f.now = time.Date(2026, 3, 10, 9, 30, 5, 0, time.UTC)
	f.svc.Tick(context.Background())
	f.svc.Tick(context.Background())

	if len(f.del.sent) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(f.del.sent))
	}

	st := f.reg.Snapshot()
	if !st.HasSent("random_9_30") {
		t.Fatalf("random slot not claimed: %+v", st)
	}
}

func TestTickRollsDayBeforeMatching(t *testing.T) {
	f := newFixture(t)
	// Yesterday's record with the 08:00 slot already consumed.
	err := f.store.Save(controlstore.State{
		Date:        "2026-03-09",
		Sent:        []string{"fixed_8_0"},
		RandomTimes: [][2]int{{9, 30}, {15, 0}},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	f.now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	f.svc.Tick(context.Background())

	// The rollover cleared yesterday's claims, so today's 08:00 fires.
	if len(f.del.sent) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(f.del.sent))
	}
	if st := f.reg.Snapshot(); st.Date != "2026-03-10" {
		t.Fatalf("date = %q", st.Date)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}
