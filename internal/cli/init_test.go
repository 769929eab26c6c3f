package cli

import (
	"context"
	"testing"

	"tripledger/internal/config"
	applog "tripledger/internal/log"
	"tripledger/internal/sheets/memory"
)

func TestBuildSourceOpener_Memory(t *testing.T) {
	logger := applog.New(applog.DefaultConfig())
	cfg := &config.Config{SourceBackend: "memory"}

	opener := BuildSourceOpener(context.Background(), logger, cfg)

	if _, ok := opener.(*memory.Store); !ok {
		t.Fatalf("opener = %T, want *memory.Store", opener)
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	if logger == nil {
		t.Fatal("SetupLogger returned nil")
	}
}
