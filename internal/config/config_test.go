package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.BaseName != "extracted_questions" {
		t.Errorf("Expected default base name to be 'extracted_questions', got '%s'", cfg.BaseName)
	}

	if strings.Join(cfg.Formats, ",") != "json,xlsx" {
		t.Errorf("Expected default formats to be json,xlsx, got %v", cfg.Formats)
	}

	if !cfg.ShowSummary || cfg.ShowSample || cfg.UseOCR || cfg.SeparateByType {
		t.Errorf("Unexpected default toggles: %+v", cfg)
	}

	if cfg.ServerName != "pdf-question-extractor" {
		t.Errorf("Expected default server name to be 'pdf-question-extractor', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.Workers != 4 {
		t.Errorf("Expected default workers to be 4, got %d", cfg.Workers)
	}

	if cfg.OCR.Lang != "eng" || cfg.OCR.DPI != 300 || cfg.OCR.PSM != 0 {
		t.Errorf("Unexpected OCR defaults: %+v", cfg.OCR)
	}

	currentDir, _ := os.Getwd()
	if cfg.Directory != currentDir || cfg.OutputDir != currentDir {
		t.Errorf("Expected default directories to be '%s', got '%s' and '%s'", currentDir, cfg.Directory, cfg.OutputDir)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config - stdio mode",
			modify: func(*Config) {},
		},
		{
			name:   "valid config - server mode",
			modify: func(c *Config) { c.Mode = ModeServer },
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Mode = "invalid" },
			wantErr: "mode must be",
		},
		{
			name:    "invalid port - too low (server mode)",
			modify:  func(c *Config) { c.Mode = ModeServer; c.Port = 0 },
			wantErr: "port must be",
		},
		{
			name:    "invalid port - too high (server mode)",
			modify:  func(c *Config) { c.Mode = ModeServer; c.Port = 70000 },
			wantErr: "port must be",
		},
		{
			name:   "invalid port ignored in stdio mode",
			modify: func(c *Config) { c.Port = 0 },
		},
		{
			name:    "empty base name",
			modify:  func(c *Config) { c.BaseName = "" },
			wantErr: "base name cannot be empty",
		},
		{
			name:    "base name with separator",
			modify:  func(c *Config) { c.BaseName = "../escape" },
			wantErr: "path separators",
		},
		{
			name:    "no formats",
			modify:  func(c *Config) { c.Formats = nil },
			wantErr: "output format",
		},
		{
			name:    "empty output directory",
			modify:  func(c *Config) { c.OutputDir = "" },
			wantErr: "output directory cannot be empty",
		},
		{
			name:    "zero max file size",
			modify:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "maximum file size",
		},
		{
			name:    "zero workers",
			modify:  func(c *Config) { c.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "zero OCR DPI",
			modify:  func(c *Config) { c.OCR.DPI = 0 },
			wantErr: "DPI",
		},
		{
			name:    "OCR page segmentation mode out of range",
			modify:  func(c *Config) { c.OCR.PSM = 14 },
			wantErr: "segmentation mode",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateOutputDirectoryCreation(t *testing.T) {
	cfg := validConfig(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "nested", "out")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	info, err := os.Stat(cfg.OutputDir)
	if err != nil {
		t.Fatalf("output directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("output path is not a directory")
	}
}

func TestConfigValidateOutputDirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig(t)
	cfg.OutputDir = file
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for a file output directory")
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9090}
	if got := cfg.Address(); got != "localhost:9090" {
		t.Errorf("Address() = %v, want %v", got, "localhost:9090")
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		logLevel string
		want     bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:        ModeStdio,
		Directory:   "/pdfs",
		OutputDir:   "/out",
		BaseName:    "exam",
		Formats:     []string{"json", "csv"},
		UseOCR:      true,
		Workers:     2,
		LogLevel:    "debug",
		MaxFileSize: 1024,
	}

	want := "Config{Mode: stdio, Directory: /pdfs, OutputDir: /out, BaseName: exam, Formats: json,csv, " +
		"OCR: true, Workers: 2, LogLevel: debug, MaxFileSize: 1024}"
	if got := cfg.String(); got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}

func TestConfigModes(t *testing.T) {
	stdio := &Config{Mode: ModeStdio}
	if !stdio.IsStdioMode() || stdio.IsServerMode() {
		t.Error("stdio config reports the wrong mode")
	}

	server := &Config{Mode: ModeServer}
	if !server.IsServerMode() || server.IsStdioMode() {
		t.Error("server config reports the wrong mode")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"json", "json"},
		{"JSON, xlsx ,csv", "json|xlsx|csv"},
		{",,", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := strings.Join(SplitList(tt.in), "|"); got != tt.want {
				t.Errorf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
