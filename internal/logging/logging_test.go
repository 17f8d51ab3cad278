package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		verbose bool
		debug   bool
	}{
		{false, false},
		{true, true},
	}
	for _, tt := range tests {
		logger, err := New(tt.verbose)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Errorf("verbose=%v: expected debug enabled %v, got %v", tt.verbose, tt.debug, got)
		}
		if !logger.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("verbose=%v: expected info enabled", tt.verbose)
		}
	}
}
