package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/livefir/statichtml/internal/encode"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, cfg.Version)
	}

	if len(cfg.SourceDirs) != 1 || cfg.SourceDirs[0] != "." {
		t.Errorf("Expected source dirs [.], got %v", cfg.SourceDirs)
	}

	if cfg.DelimiterRune() != '"' {
		t.Errorf("Expected default delimiter '\"', got %q", cfg.DelimiterRune())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Encoding.Kind != encode.EncodingText {
		t.Errorf("Expected text encoding, got %s", cfg.Encoding.Kind)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
lookup_sources: [enums.go, shared.yaml]
source_dirs: [testdata]
delimiter: "'"
minify: true
void_elements: [x-icon]
encoding:
  kind: bytes
  width: 16
representation:
  kind: stream
  chunk_size: 4
  delay: 50ms
  synchronous: true
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cfg.LookupSources) != 2 || cfg.LookupSources[1] != "shared.yaml" {
		t.Errorf("Expected two lookup sources, got %v", cfg.LookupSources)
	}

	if cfg.DelimiterRune() != '\'' {
		t.Errorf("Expected delimiter ', got %q", cfg.DelimiterRune())
	}

	if !cfg.Minify {
		t.Error("Expected minify to be enabled")
	}

	if cfg.Encoding.Kind != encode.EncodingBytes || cfg.Encoding.Width != 16 {
		t.Errorf("Expected bytes/16 encoding, got %+v", cfg.Encoding)
	}

	rep := cfg.Representation
	if rep.Kind != encode.Stream || rep.ChunkSize != 4 || rep.Delay != 50*time.Millisecond || !rep.Synchronous {
		t.Errorf("Unexpected representation %+v", rep)
	}

	if cfg.Version != Version {
		t.Errorf("Expected version default %s, got %s", Version, cfg.Version)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			data:    "lookup_sources: [",
			wantErr: "failed to parse config file",
		},
		{
			name:    "long delimiter",
			data:    "delimiter: '\"\"'",
			wantErr: "invalid config",
		},
		{
			name:    "zero chunk size",
			data:    "representation: {kind: chunks}",
			wantErr: "chunk size",
		},
		{
			name:    "bad width",
			data:    "encoding: {kind: bytes, width: 32}",
			wantErr: "invalid config",
		},
		{
			name:    "unknown encoding",
			data:    "encoding: {kind: morse}",
			wantErr: "unknown encoding",
		},
		{
			name:    "custom template without marker",
			data:    "encoding: {kind: custom, template: wrap()}",
			wantErr: "exactly once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := DefaultConfig()
	cfg.LookupSources = []string{"enums.go"}
	cfg.Representation = encode.FixedChunks(8, true)

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(loaded.LookupSources) != 1 || loaded.LookupSources[0] != "enums.go" {
		t.Errorf("Expected lookup sources [enums.go], got %v", loaded.LookupSources)
	}

	if loaded.Representation.Kind != encode.Chunks || loaded.Representation.ChunkSize != 8 || !loaded.Representation.Optimized {
		t.Errorf("Representation did not round-trip: %+v", loaded.Representation)
	}
}
