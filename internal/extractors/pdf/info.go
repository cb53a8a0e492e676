package pdf

import (
	"bytes"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// documentInfo is the metadata read from the PDF trailer.
type documentInfo struct {
	PageCount int
	Title     string
}

// readInfo reads page count and title with pdfcpu.
func readInfo(data []byte) (documentInfo, error) {
	conf := model.NewDefaultConfiguration()
	info, err := api.PDFInfo(bytes.NewReader(data), "document.pdf", nil, conf)
	if err != nil {
		return documentInfo{}, err
	}
	return documentInfo{
		PageCount: info.PageCount,
		Title:     strings.TrimSpace(info.Title),
	}, nil
}
