package pdfutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned for bodies that pdfcpu cannot read, usually an html
// error page served with a 200.
var ErrNotPDF = errors.New("body is not a readable pdf")

var magic = []byte("%PDF-")

func init() {
	// keep pdfcpu from writing its config directory under the user's home
	model.ConfigPath = "disable"
}

// PageCount validates contents as a pdf and returns its number of pages.
func PageCount(contents []byte) (int, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(contents, " \t\r\n"), magic) {
		return 0, ErrNotPDF
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(contents), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotPDF, err)
	}
	return pages, nil
}
