// Package pdftext extracts the native text layer from statement PDFs.
// It tries several extraction paths and refuses to hand garbage to the
// parsing pipeline: output that fails the readability gate is treated as
// a failed extraction.
package pdftext

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Extract reads a PDF file and returns its combined text content. An
// image-only or custom-font PDF whose decoded text is unreadable returns
// an error rather than garbage.
func Extract(filePath string) (string, error) {
	pages, err := extractPages(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf text extraction failed (the file may be scanned or use custom font encodings): %w", err)
	}
	if !Readable(pages) {
		return "", fmt.Errorf("no readable text layer in %s (the file may be scanned or use custom font encodings)", filePath)
	}
	return strings.Join(pages, "\n\n"), nil
}

func extractPages(filePath string) (pages []string, err error) {
	// The library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(r, numPages)
	if Readable(pages) {
		return pages, nil
	}

	pages = extractByPlainText(r, numPages)
	if Readable(pages) {
		return pages, nil
	}

	if text := extractWholeDocument(r); text != "" {
		return []string{text}, nil
	}
	return pages, nil
}

// extractByRow preserves layout best: rows of positioned words joined
// left to right.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByPlainText uses the per-page font-mapped path.
func extractByPlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractWholeDocument(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// statementWords are expected in virtually every statement rendering.
// Decoded text containing none of them is almost certainly garbage from
// an identity-encoded font.
var statementWords = []string{
	"bank", "card", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "due", "limit",
	"number", "page", "period",
}

// Readable reports whether pages carry enough plausible statement text:
// more than 50 characters, over 60% basic ASCII, and at least one word a
// statement would contain.
func Readable(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if isPlainChar(r) {
				readable++
			}
		}
	}
	if total <= 50 || float64(readable)/float64(total) <= 0.6 {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isPlainChar is a strict ASCII check. unicode.IsLetter is too broad: it
// matches the accented garbage produced by identity-encoded fonts.
func isPlainChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(`.,-/:;()'"*&@#!?+=%`, r)
}
