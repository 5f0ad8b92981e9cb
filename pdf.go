package deck2pdf

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

var disableConfigDir sync.Once

// pdfConfig returns a fresh pdfcpu configuration that never touches the
// user's config directory.
func pdfConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// ImageToPDF wraps one PNG into a single-page PDF whose page is exactly the
// image size, 1 px to 1 pt.
func ImageToPDF(png []byte) ([]byte, error) {
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, []io.Reader{bytes.NewReader(png)}, imp, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return buf.Bytes(), nil
}

// Document accumulates single-page PDFs in generation order and is written
// once by Save.
type Document struct {
	pages [][]byte
	props map[string]string
}

// NewDocument creates an empty document. props are written to the PDF
// info dictionary on save.
func NewDocument(props map[string]string) *Document {
	return &Document{props: props}
}

// AddImage converts png to a page and appends it.
func (d *Document) AddImage(png []byte) error {
	page, err := ImageToPDF(png)
	if err != nil {
		return err
	}
	d.pages = append(d.pages, page)
	return nil
}

// Len returns the number of pages.
func (d *Document) Len() int {
	return len(d.pages)
}

// Bytes merges the pages into one PDF.
func (d *Document) Bytes() ([]byte, error) {
	if len(d.pages) == 0 {
		return nil, ErrEmptyDocument
	}

	rsc := make([]io.ReadSeeker, len(d.pages))
	for i, p := range d.pages {
		rsc[i] = bytes.NewReader(p)
	}
	var merged bytes.Buffer
	if err := api.MergeRaw(rsc, &merged, false, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	if len(d.props) == 0 {
		return merged.Bytes(), nil
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(merged.Bytes()), &out, d.props, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: setting properties: %v", ErrPDFMerge, err)
	}
	return out.Bytes(), nil
}

// Save merges the pages and writes the PDF to path atomically.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}
