package logger

import "testing"

func TestNew(t *testing.T) {
	for _, mode := range []string{"", "quiet", "dev", "prod", "DEV"} {
		t.Run(mode, func(t *testing.T) {
			l, err := New(mode)
			if err != nil {
				t.Fatalf("New(%q) error = %v", mode, err)
			}
			if l.SugaredLogger == nil {
				t.Fatal("SugaredLogger should be set")
			}
		})
	}
}

func TestNew_UnknownMode(t *testing.T) {
	if _, err := New("verbose"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Debug("debug", "k", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
	l.Sync()
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should return nil")
	}
}
