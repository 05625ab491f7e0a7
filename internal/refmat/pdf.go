package refmat

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractText extracts the plain text of every page of the PDF at path,
// joined with spaces and cleaned. The file is validated as a PDF
// container first so corrupt uploads fail with a useful error instead
// of a parser panic.
func ExtractText(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	pageCount, err := pdfcpu.PageCount(f, nil)
	if err != nil {
		return "", 0, fmt.Errorf("not a readable PDF: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("stat PDF: %w", err)
	}

	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return "", 0, fmt.Errorf("parse PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades, it doesn't fail the
			// whole document.
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	return cleanText(strings.Join(pages, " ")), pageCount, nil
}

// cleanText collapses doubled newlines and trims the extracted text.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\n\n", "\n")
	return strings.TrimSpace(text)
}
