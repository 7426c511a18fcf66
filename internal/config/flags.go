package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flag groups used by the commands
var (
	OutputFlags = []string{
		KeyOutputDir, KeyBaseName, KeyFormats, KeySeparateByType,
		KeyShowSample, KeyShowSummary,
	}
	ExtractionFlags = []string{
		KeyOCR, KeyMaxFileSize, KeyPdftoppm, KeyTesseract,
		KeyOCRLang, KeyOCRDPI, KeyOCRPSM,
	}
	ServerFlags = []string{KeyMode, KeyHost, KeyPort, KeyDir}
)

// DefineFlags adds the flags named by keys to fs, with defaults taken from
// DefaultConfig. Unknown keys are a programming error and panic.
func DefineFlags(fs *pflag.FlagSet, keys ...string) {
	cfg := DefaultConfig()
	for _, key := range keys {
		switch key {
		case KeyMode:
			fs.String(key, cfg.Mode, "MCP transport: 'stdio' for standard I/O, 'server' for HTTP/SSE")
		case KeyHost:
			fs.String(key, cfg.Host, "Server host address (server mode only)")
		case KeyPort:
			fs.Int(key, cfg.Port, "Server port (server mode only)")
		case KeyInput:
			fs.StringP(key, "i", cfg.InputPath, "Input PDF file")
		case KeyDir:
			fs.StringP(key, "d", cfg.Directory, "Directory containing PDF files")
		case KeyOutputDir:
			fs.StringP(key, "o", cfg.OutputDir, "Directory for output files")
		case KeyBaseName:
			fs.StringP(key, "b", cfg.BaseName, "Base name for output files")
		case KeyFormats:
			fs.StringP(key, "f", strings.Join(cfg.Formats, ","),
				"Comma separated output formats (json, xlsx, csv, txt, pdf, sqlite, yaml)")
		case KeyOCR:
			fs.Bool(key, cfg.UseOCR, "Also OCR page images (requires pdftoppm and tesseract)")
		case KeySeparateByType:
			fs.Bool(key, cfg.SeparateByType, "Write separate files for all, text-based and image-based questions")
		case KeyShowSample:
			fs.Bool(key, cfg.ShowSample, "Print the first extracted question")
		case KeyShowSummary:
			fs.Bool(key, cfg.ShowSummary, "Print the question count summary")
		case KeyLogLevel:
			fs.String(key, cfg.LogLevel, "Log level (debug, info, warn, error)")
		case KeyMaxFileSize:
			fs.Int64(key, cfg.MaxFileSize, "Maximum PDF file size in bytes")
		case KeyWorkers:
			fs.IntP(key, "w", cfg.Workers, "Number of documents processed concurrently")
		case KeyPdftoppm:
			fs.String(key, cfg.OCR.Pdftoppm, "pdftoppm binary used to rasterize pages")
		case KeyTesseract:
			fs.String(key, cfg.OCR.Tesseract, "tesseract binary used for OCR")
		case KeyOCRLang:
			fs.String(key, cfg.OCR.Lang, "OCR language")
		case KeyOCRDPI:
			fs.Int(key, cfg.OCR.DPI, "Rasterization resolution for OCR")
		case KeyOCRPSM:
			fs.Int(key, cfg.OCR.PSM, "tesseract page segmentation mode (0 keeps the default)")
		default:
			panic(fmt.Sprintf("config: unknown flag %q", key))
		}
	}
}
