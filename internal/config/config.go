package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// EnvPrefix prefixes every environment variable, e.g. PDF_QUESTIONS_OUTPUT_DIR
	EnvPrefix = "PDF_QUESTIONS"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultBaseName    = "extracted_questions"
	DefaultFormats     = "json,xlsx"
	DefaultWorkers     = 4
	DefaultOCRLang     = "eng"
	DefaultOCRDPI      = 300

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Configuration keys. They double as flag names and YAML config file keys;
// the environment variable is EnvPrefix + "_" + key with dashes as underscores.
const (
	KeyMode           = "mode"
	KeyHost           = "host"
	KeyPort           = "port"
	KeyInput          = "input"
	KeyDir            = "dir"
	KeyOutputDir      = "output-dir"
	KeyBaseName       = "base-name"
	KeyFormats        = "formats"
	KeyOCR            = "ocr"
	KeySeparateByType = "separate-by-type"
	KeyShowSample     = "show-sample"
	KeyShowSummary    = "show-summary"
	KeyLogLevel       = "loglevel"
	KeyMaxFileSize    = "maxfilesize"
	KeyWorkers        = "workers"
	KeyPdftoppm       = "pdftoppm"
	KeyTesseract      = "tesseract"
	KeyOCRLang        = "ocr-lang"
	KeyOCRDPI         = "ocr-dpi"
	KeyOCRPSM         = "ocr-psm"
)

// OCR holds the external OCR tool settings
type OCR struct {
	Pdftoppm  string
	Tesseract string
	Lang      string
	DPI       int
	PSM       int // 0 leaves tesseract's default page segmentation
}

// Config holds all configuration for the question extractor
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Input
	InputPath string
	Directory string // batch input directory and MCP path root

	// Output
	OutputDir      string
	BaseName       string
	Formats        []string
	SeparateByType bool
	ShowSample     bool
	ShowSummary    bool

	// Extraction
	UseOCR      bool
	OCR         OCR
	MaxFileSize int64 // Maximum PDF file size in bytes
	Workers     int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:        ModeStdio,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Directory:   currentDir,
		OutputDir:   currentDir,
		BaseName:    DefaultBaseName,
		Formats:     SplitList(DefaultFormats),
		ShowSummary: true,
		OCR: OCR{
			Pdftoppm:  "pdftoppm",
			Tesseract: "tesseract",
			Lang:      DefaultOCRLang,
			DPI:       DefaultOCRDPI,
		},
		MaxFileSize: DefaultMaxFileSize,
		Workers:     DefaultWorkers,
		Version:     "1.0.0",
		ServerName:  "pdf-question-extractor",
		LogLevel:    DefaultLogLevel,
	}
}

// Loader layers command line flags over environment variables, an optional
// YAML config file and the defaults
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader seeded with the defaults of DefaultConfig
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	v.SetDefault(KeyMode, cfg.Mode)
	v.SetDefault(KeyHost, cfg.Host)
	v.SetDefault(KeyPort, cfg.Port)
	v.SetDefault(KeyInput, cfg.InputPath)
	v.SetDefault(KeyDir, cfg.Directory)
	v.SetDefault(KeyOutputDir, cfg.OutputDir)
	v.SetDefault(KeyBaseName, cfg.BaseName)
	v.SetDefault(KeyFormats, strings.Join(cfg.Formats, ","))
	v.SetDefault(KeyOCR, cfg.UseOCR)
	v.SetDefault(KeySeparateByType, cfg.SeparateByType)
	v.SetDefault(KeyShowSample, cfg.ShowSample)
	v.SetDefault(KeyShowSummary, cfg.ShowSummary)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeyPdftoppm, cfg.OCR.Pdftoppm)
	v.SetDefault(KeyTesseract, cfg.OCR.Tesseract)
	v.SetDefault(KeyOCRLang, cfg.OCR.Lang)
	v.SetDefault(KeyOCRDPI, cfg.OCR.DPI)
	v.SetDefault(KeyOCRPSM, cfg.OCR.PSM)

	return &Loader{v: v}
}

// BindFlags binds every flag of fs to the configuration key of the same name
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = l.v.BindPFlag(f.Name, f)
		}
	})
	return err
}

// ReadConfigFile merges a YAML config file into the configuration
func (l *Loader) ReadConfigFile(path string) error {
	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return nil
}

// Load builds and validates the configuration
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.populate(cfg)

	for _, dir := range []*string{&cfg.Directory, &cfg.OutputDir} {
		if *dir == "" {
			continue
		}
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// populate fills the config struct with values from viper
func (l *Loader) populate(cfg *Config) {
	v := l.v
	cfg.Mode = v.GetString(KeyMode)
	cfg.Host = v.GetString(KeyHost)
	cfg.Port = v.GetInt(KeyPort)
	cfg.InputPath = v.GetString(KeyInput)
	cfg.Directory = v.GetString(KeyDir)
	cfg.OutputDir = v.GetString(KeyOutputDir)
	cfg.BaseName = v.GetString(KeyBaseName)
	cfg.Formats = SplitList(v.GetString(KeyFormats))
	cfg.UseOCR = v.GetBool(KeyOCR)
	cfg.SeparateByType = v.GetBool(KeySeparateByType)
	cfg.ShowSample = v.GetBool(KeyShowSample)
	cfg.ShowSummary = v.GetBool(KeyShowSummary)
	cfg.LogLevel = strings.ToLower(v.GetString(KeyLogLevel))
	cfg.MaxFileSize = v.GetInt64(KeyMaxFileSize)
	cfg.Workers = v.GetInt(KeyWorkers)
	cfg.OCR = OCR{
		Pdftoppm:  v.GetString(KeyPdftoppm),
		Tesseract: v.GetString(KeyTesseract),
		Lang:      v.GetString(KeyOCRLang),
		DPI:       v.GetInt(KeyOCRDPI),
		PSM:       v.GetInt(KeyOCRPSM),
	}
}

// Load is a shortcut for a loader bound to fs, reading configFile when it
// is not empty
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	l := NewLoader()
	if fs != nil {
		if err := l.BindFlags(fs); err != nil {
			return nil, err
		}
	}
	if configFile != "" {
		if err := l.ReadConfigFile(configFile); err != nil {
			return nil, err
		}
	}
	return l.Load()
}

// SplitList splits a comma separated list, lowercasing entries and dropping blanks
func SplitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters when serving over HTTP
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.BaseName == "" {
		return errors.New("base name cannot be empty")
	}
	if strings.ContainsAny(c.BaseName, `/\`) {
		return fmt.Errorf("base name %q must not contain path separators", c.BaseName)
	}

	if len(c.Formats) == 0 {
		return errors.New("at least one output format is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	// Create the output directory if it doesn't exist
	if info, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", c.OutputDir)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.OCR.DPI <= 0 {
		return errors.New("OCR DPI must be positive")
	}
	if c.OCR.PSM < 0 || c.OCR.PSM > 13 {
		return fmt.Errorf("invalid OCR page segmentation mode: %d (must be 0-13)", c.OCR.PSM)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Directory: %s, OutputDir: %s, BaseName: %s, Formats: %s, "+
		"OCR: %t, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Directory, c.OutputDir, c.BaseName, strings.Join(c.Formats, ","),
		c.UseOCR, c.Workers, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the MCP server runs over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the MCP server runs over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
