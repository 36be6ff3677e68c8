package log

import "testing"

func TestLoggerBeforeInit(t *testing.T) {
	baseLogger, sugar = nil, nil

	if Logger() == nil || Sugared() == nil {
		t.Fatal("expected no-op loggers before Init")
	}
	// Must not panic.
	Infow("not initialized", "key", 1)
	Sync()
}

func TestInit(t *testing.T) {
	for _, debug := range []bool{true, false} {
		if err := Init(debug); err != nil {
			t.Fatalf("Init(%v) error = %v", debug, err)
		}
		if Logger() == nil || Sugared() == nil {
			t.Fatalf("Init(%v) left logger nil", debug)
		}
		Debugw("debug message", "debug", debug)
	}
	baseLogger, sugar = nil, nil
}
