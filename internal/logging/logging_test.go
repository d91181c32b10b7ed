package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chaz8081/engoctl/internal/config"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetupLevel(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreDefault(t)
			var buf bytes.Buffer
			logger, closer := setup(config.LogConfig{Level: tt.level}, &buf)
			defer closer.Close()

			logger.Debug("[BLE] debug line")
			logger.Info("[BLE] info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestSetupInstallsDefault(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	_, closer := setup(config.LogConfig{Level: "info"}, &buf)
	defer closer.Close()

	slog.Info("[BLE] connected", "address", "AA:BB:CC:DD:EE:FF")
	if !strings.Contains(buf.String(), "address=AA:BB:CC:DD:EE:FF") {
		t.Errorf("default logger output = %q, want address attr", buf.String())
	}
}

func TestSetupWritesFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "engoctl.log")
	var buf bytes.Buffer
	logger, closer := setup(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &buf)

	logger.Info("[BLE] session opened", "id", "abc")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "session opened") {
		t.Errorf("log file = %q, want the logged line", data)
	}
	if !strings.Contains(buf.String(), "session opened") {
		t.Errorf("console = %q, want the logged line", buf.String())
	}
}
