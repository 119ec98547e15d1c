package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"contract-analyzer/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PlainPDFExtractor is a pure-Go extractor. It handles fewer encodings than
// MuPDF but needs no native library.
type PlainPDFExtractor struct{}

func NewPlainPDFExtractor() *PlainPDFExtractor {
	return &PlainPDFExtractor{}
}

func (e *PlainPDFExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return strings.TrimSpace(sanitizeText(string(raw))), nil
}

// FallbackExtractor tries each extractor in order and returns the first
// non-empty text. If every extractor fails, the last error is returned; if
// at least one succeeded with no text, the result is empty with a nil error.
type FallbackExtractor struct {
	extractors []domain.TextExtractor
	logger     domain.Logger
}

func NewFallbackExtractor(logger domain.Logger, extractors ...domain.TextExtractor) *FallbackExtractor {
	return &FallbackExtractor{extractors: extractors, logger: logger}
}

func (f *FallbackExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	var lastErr error
	succeeded := false
	for i, ex := range f.extractors {
		text, err := ex.ExtractText(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			f.logger.Warn("Text extractor failed", "extractor", i, "error", err)
			lastErr = err
			continue
		}
		succeeded = true
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if succeeded || lastErr == nil {
		return "", nil
	}
	return "", lastErr
}
