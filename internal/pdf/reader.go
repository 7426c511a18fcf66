package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
)

// Document is the text extracted from one PDF file
type Document struct {
	Path       string
	Pages      []string
	ImageCount int
	Encrypted  bool
	PageErrors []*exerrors.ExtractionError
}

// Text joins the non-empty pages, each followed by a newline
func (d *Document) Text() string {
	var b strings.Builder
	for _, page := range d.Pages {
		if page == "" {
			continue
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String()
}

// Reader handles PDF text extraction
type Reader struct {
	validator *Validator
	logger    *log.Logger
	debug     bool
}

// NewReader creates a new PDF reader with the specified constraints.
// A nil logger uses the standard logger.
func NewReader(maxFileSize int64, logger *log.Logger, debug bool) *Reader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{
		validator: NewValidator(maxFileSize),
		logger:    logger,
		debug:     debug,
	}
}

// ExtractPages returns the plain text of every page in order. Pages that fail
// are logged and returned as empty strings.
func (r *Reader) ExtractPages(path string) ([]string, error) {
	doc, err := r.ExtractDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Pages, nil
}

// ExtractDocument reads the file and extracts every page's text.
// Missing or corrupt files fail with UnreadableDocument, files that cannot be
// opened with an empty password fail with EncryptedDocument. Page level
// failures are collected in Document.PageErrors.
func (r *Reader) ExtractDocument(path string) (*Document, error) {
	if err := r.validator.ValidateFile(path); err != nil {
		return nil, exerrors.Wrap(exerrors.ErrorTypeUnreadableDocument, "invalid PDF file", err).WithFile(path)
	}

	encrypted, err := r.probeEncryption(path)
	if err != nil {
		return nil, err
	}

	pdfReader, closeFile, err := r.open(path, encrypted)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, exerrors.Wrap(exerrors.ErrorTypeEncryptedDocument, "unable to decrypt PDF", err).WithFile(path)
		}
		return nil, exerrors.Wrap(exerrors.ErrorTypeUnreadableDocument, "failed to open PDF", err).WithFile(path)
	}
	defer closeFile()

	numPages, err := pageCount(pdfReader)
	if err != nil {
		return nil, exerrors.Wrap(exerrors.ErrorTypeUnreadableDocument, "failed to read page tree", err).WithFile(path)
	}

	doc := &Document{Path: path, Encrypted: encrypted}
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		text, err := r.extractPage(pdfReader, pageNum)
		if err != nil {
			pageErr := exerrors.Wrap(exerrors.ErrorTypePageExtractionFailure, "error extracting text from page", err).
				WithFile(path).
				WithPage(pageNum)
			r.logger.Printf("Error extracting text from page %d of %s: %v", pageNum, path, err)
			doc.PageErrors = append(doc.PageErrors, pageErr)
		}
		doc.Pages = append(doc.Pages, text)
		doc.ImageCount += countImagesOnPage(pdfReader, pageNum)

		if r.debug {
			r.logger.Printf("Processed page %d/%d", pageNum, numPages)
		}
	}

	return doc, nil
}

// probeEncryption opens the file with pdfcpu using an empty user password.
// Other pdfcpu failures are left to the text extractor, which tolerates more
// damage than a full parse.
func (r *Reader) probeEncryption(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, exerrors.Wrap(exerrors.ErrorTypeUnreadableDocument, "cannot open file", err).WithFile(path)
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, relaxedConfig())
	if err != nil {
		if isPasswordError(err) {
			return false, exerrors.Wrap(exerrors.ErrorTypeEncryptedDocument, "unable to decrypt PDF", err).WithFile(path)
		}
		if r.debug {
			r.logger.Printf("pdfcpu could not parse %s, continuing with text extraction: %v", path, err)
		}
		return false, nil
	}

	return ctx.Encrypt != nil, nil
}

// relaxedConfig is the pdfcpu configuration used for reading: lenient
// validation and an empty user password
func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = ""
	return conf
}

// open returns a text reader for the file and a func releasing it. Encrypted
// files are decrypted in memory first; if that fails the file is read as is.
func (r *Reader) open(path string, encrypted bool) (*pdf.Reader, func(), error) {
	if encrypted {
		reader, err := decryptedReader(path)
		if err == nil {
			r.logger.Printf("PDF was encrypted but successfully decrypted: %s", path)
			return reader, func() {}, nil
		}
		r.logger.Printf("Could not decrypt %s in memory, reading it directly: %v", path, err)
	}

	f, reader, err := openPDF(path)
	if err != nil {
		return nil, nil, err
	}
	return reader, func() { f.Close() }, nil
}

func decryptedReader(path string) (*pdf.Reader, error) {
	data, err := decryptPDF(path)
	if err != nil {
		return nil, err
	}
	return openPDFBytes(data)
}

// decryptPDF removes the encryption of a file that opens with an empty user
// password and returns the decrypted bytes
func decryptPDF(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.Decrypt(f, &buf, relaxedConfig()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isPasswordError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "password")
}

// openPDF wraps pdf.Open, which panics on some malformed files
func openPDF(path string) (f *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, reader, err = nil, nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// openPDFBytes wraps pdf.NewReader over an in-memory file
func openPDFBytes(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// pageCount wraps NumPage, which panics on a broken page tree
func pageCount(reader *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, fmt.Errorf("malformed page tree: %v", rec)
		}
	}()
	return reader.NumPage(), nil
}

// extractPage returns the plain text of one page, turning panics from the
// parser into errors
func (r *Reader) extractPage(pdfReader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("panic while extracting page: %v", rec)
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// countImagesOnPage counts the image XObjects of a page
func countImagesOnPage(pdfReader *pdf.Reader, pageNum int) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return 0
	}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return 0
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if subtype := obj.Key("Subtype"); !subtype.IsNull() && subtype.Name() == "Image" {
			count++
		}
	}
	return count
}
