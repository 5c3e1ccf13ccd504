package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoRecordsFirstError(t *testing.T) {
	sup := New(context.Background())
	want := errors.New("boom")
	sup.Go("worker", func(ctx context.Context) error { return want })
	if err := sup.Wait(context.Background()); err == nil || !errors.Is(err, want) {
		t.Fatalf("Wait = %v", err)
	}
}

func TestCancelOnError(t *testing.T) {
	sup := New(context.Background(), WithCancelOnError(true))
	sup.Go("failing", func(ctx context.Context) error { return errors.New("boom") })
	select {
	case <-sup.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("context not canceled after error")
	}
}

func TestGoRecoversPanic(t *testing.T) {
	sup := New(context.Background())
	sup.Go("panicky", func(ctx context.Context) error { panic("oops") })
	if err := sup.Wait(context.Background()); err == nil {
		t.Fatalf("panic should surface as error")
	}
}

func TestCanceledExitIsClean(t *testing.T) {
	sup := New(context.Background())
	sup.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	sup.Cancel()
	if err := sup.Wait(context.Background()); err != nil {
		t.Fatalf("context.Canceled should not count as failure: %v", err)
	}
}

func TestGoRestartRetriesUntilClean(t *testing.T) {
	sup := New(context.Background())
	attempts := 0
	done := make(chan struct{})
	sup.GoRestart("flaky", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, time.Millisecond, 5*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("restart loop never reached a clean exit")
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d", attempts)
	}
}
