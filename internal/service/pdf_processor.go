package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contract-analyzer/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const defaultPageTimeout = 90 * time.Second

// PDFProcessor extracts text with MuPDF via go-fitz.
type PDFProcessor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		logger:      logger,
		pageTimeout: defaultPageTimeout,
	}
}

// PDFMetadata contains extracted PDF metadata
type PDFMetadata struct {
	Author    string `json:"author"`
	PageCount int    `json:"page_count"`
	Title     string `json:"title"`
}

// ExtractText returns the document text with pages separated by blank lines.
// Pages that fail or time out contribute nothing; an unreadable document is an error.
func (p *PDFProcessor) ExtractText(ctx context.Context, data []byte) (string, error) {
	text, meta, err := p.ExtractTextWithMetadata(ctx, data)
	if err != nil {
		return "", err
	}
	p.logger.Debug("PDF text extracted", "pages", meta.PageCount, "title", meta.Title, "author", meta.Author)
	return text, nil
}

// ExtractTextWithMetadata is ExtractText plus the document's metadata.
func (p *PDFProcessor) ExtractTextWithMetadata(ctx context.Context, data []byte) (string, PDFMetadata, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", PDFMetadata{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	metadata := PDFMetadata{PageCount: numPages}
	docMetadata := doc.Metadata()
	if title, ok := docMetadata["title"]; ok && title != "" {
		metadata.Title = title
	}
	if author, ok := docMetadata["author"]; ok && author != "" {
		metadata.Author = author
	}

	type pageResult struct {
		text string
		err  error
	}

	pages := make([]string, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		// MuPDF calls cannot be interrupted; a slow page is abandoned and its
		// goroutine finishes into the buffered channel.
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var text string
		select {
		case res := <-resultCh:
			if res.err != nil {
				p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", res.err)
				continue
			}
			text = res.text
		case <-time.After(p.pageTimeout):
			p.logger.Warn("PDF page extraction timeout; skipping page", "page", pageNum+1, "total", numPages, "timeout_sec", int(p.pageTimeout.Seconds()))
			continue
		case <-ctx.Done():
			return "", metadata, ctx.Err()
		}

		paragraphs := splitIntoParagraphs(sanitizeText(text))
		if len(paragraphs) > 0 {
			pages = append(pages, strings.Join(paragraphs, "\n\n"))
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n\n")), metadata, nil
}

// splitIntoParagraphs splits text into paragraphs based on double newlines
func splitIntoParagraphs(text string) []string {
	// Normalize line breaks
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	paragraphs := strings.Split(text, "\n\n")

	var result []string
	for _, para := range paragraphs {
		// Clean up single newlines within paragraphs (replace with space)
		para = strings.ReplaceAll(para, "\n", " ")
		para = strings.TrimSpace(para)
		if para != "" {
			result = append(result, para)
		}
	}

	return result
}

// sanitizeText removes NUL, other control characters and lone surrogates,
// which PostgreSQL rejects in text columns.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r <= 0x10FFFF && (r < 0xD800 || r > 0xDFFF):
			result.WriteRune(r)
		}
	}

	return result.String()
}
