package logger

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			logger, err := New(env)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", env, err)
			}
			logger.Info("hello")
			logger.Sync()
		})
	}
}

func TestDedupCollapsesRepeats(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	for i := 0; i < 3; i++ {
		Dedup("serving cached snapshot %s", "amazon_prices_20260825_0930.csv")
	}
	Dedup("loaded snapshot %s (%d products)", "amazon_prices_20260825_0935.csv", 2)

	// The repeated message flushes when a different one arrives; the last
	// message flushes on its timer.
	time.Sleep(dedup.flushDelay + 500*time.Millisecond)

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2: %+v", len(entries), entries)
	}
	if want := "serving cached snapshot amazon_prices_20260825_0930.csv (3)"; entries[0].Message != want {
		t.Errorf("entries[0] = %q, want %q", entries[0].Message, want)
	}
	if want := "loaded snapshot amazon_prices_20260825_0935.csv (2 products)"; entries[1].Message != want {
		t.Errorf("entries[1] = %q, want %q", entries[1].Message, want)
	}
}
