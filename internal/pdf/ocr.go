package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Runner lets tests stub the external OCR commands
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// OCRConfig names the binaries and settings used for OCR
type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"
	DPI       int    // rasterization DPI, default 300
	PSM       int    // tesseract page segmentation mode, 0 leaves the default
}

func (c OCRConfig) withDefaults() OCRConfig {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Lang == "" {
		c.Lang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}

// Capabilities records which optional external tools are installed.
// It is resolved once at startup and passed to the components that need it.
type Capabilities struct {
	OCR       bool   `json:"ocr"`
	Pdftoppm  string `json:"pdftoppm,omitempty"`
	Tesseract string `json:"tesseract,omitempty"`
}

// lookPath is swapped in tests
var lookPath = exec.LookPath

// DetectCapabilities checks PATH for the OCR binaries
func DetectCapabilities(cfg OCRConfig) Capabilities {
	cfg = cfg.withDefaults()

	var caps Capabilities
	if p, err := lookPath(cfg.Pdftoppm); err == nil {
		caps.Pdftoppm = p
	}
	if p, err := lookPath(cfg.Tesseract); err == nil {
		caps.Tesseract = p
	}
	caps.OCR = caps.Pdftoppm != "" && caps.Tesseract != ""
	return caps
}

// OCR extracts text from the rendered images of a PDF's pages
type OCR struct {
	cfg    OCRConfig
	runner Runner
	logger *log.Logger
	debug  bool
}

// NewOCR creates an OCR collaborator that shells out to pdftoppm and tesseract.
// A nil logger uses the standard logger.
func NewOCR(cfg OCRConfig, logger *log.Logger, debug bool) *OCR {
	if logger == nil {
		logger = log.Default()
	}
	return &OCR{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger, debug: debug}
}

// WithRunner replaces the command runner
func (o *OCR) WithRunner(r Runner) *OCR {
	o.runner = r
	return o
}

// ImagesToText renders every page and runs tesseract on it, joining the
// page texts with newlines. Any failure is logged and yields "".
func (o *OCR) ImagesToText(ctx context.Context, path string) string {
	text, err := o.imagesToText(ctx, path)
	if err != nil {
		o.logger.Printf("Error with OCR for %s: %v", path, err)
		return ""
	}
	return text
}

func (o *OCR) imagesToText(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfq-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			o.logger.Printf("failed to remove temp dir %s: %v", tmpDir, err)
		}
	}()

	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := o.runner.Run(ctx, o.cfg.Pdftoppm, "-r", strconv.Itoa(o.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to list rendered pages: %w", err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}
	sort.Strings(images)

	var b strings.Builder
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if o.debug {
			o.logger.Printf("Processing page %d with OCR...", i+1)
		}

		txt, err := o.tesseract(ctx, img)
		if err != nil {
			o.logger.Printf("OCR failed for page %d of %s: %v", i+1, path, err)
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (o *OCR) tesseract(ctx context.Context, image string) (string, error) {
	// tesseract <file> stdout -l <lang> [--psm N]
	args := []string{image, "stdout", "-l", o.cfg.Lang}
	if o.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(o.cfg.PSM))
	}

	out, errb, err := o.runner.Run(ctx, o.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
