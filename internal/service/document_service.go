package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"
)

const pdfContentType = "application/pdf"

// DocumentService drives ingestion: upload, retrieve, extract and persist.
type DocumentService struct {
	blobs     domain.BlobStore
	source    ByteSource
	extractor domain.TextExtractor
	records   domain.DocumentRecordStore
	prefix    string
	logger    domain.Logger
}

// NewDocumentService wires the ingestion pipeline. Objects are stored under
// prefix inside the blob store's bucket.
func NewDocumentService(
	blobs domain.BlobStore,
	source ByteSource,
	extractor domain.TextExtractor,
	records domain.DocumentRecordStore,
	prefix string,
	logger domain.Logger,
) *DocumentService {
	return &DocumentService{
		blobs:     blobs,
		source:    source,
		extractor: extractor,
		records:   records,
		prefix:    strings.Trim(prefix, "/"),
		logger:    logger,
	}
}

// ObjectPath returns the blob path for a file name.
func (s *DocumentService) ObjectPath(fileName string) string {
	if s.prefix == "" {
		return fileName
	}
	return path.Join(s.prefix, fileName)
}

// CleanFileName strips any directory part and requires a .pdf extension.
func CleanFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return "", apperrors.NewValidationError("File name is required")
	}
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return "", apperrors.NewValidationError("Invalid file name", name)
	}
	if strings.ToLower(filepath.Ext(base)) != ".pdf" {
		return "", apperrors.NewValidationError("Only PDF files are allowed", base)
	}
	return base, nil
}

// Upload stores data under the file's object path, replacing any previous
// object, and returns its public URL.
func (s *DocumentService) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	name, err := CleanFileName(fileName)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperrors.NewValidationError("File is empty", name)
	}

	objectPath := s.ObjectPath(name)
	if err := s.blobs.Upload(ctx, objectPath, data, pdfContentType); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Error("Failed to upload file", err, "path", objectPath)
		return "", apperrors.NewStorageError(uploadMessage(err), err)
	}

	url := s.blobs.PublicURL(objectPath)
	s.logger.Info("File uploaded", "file_name", name, "path", objectPath, "size", len(data))
	return url, nil
}

// Ingest reads the stored file through the configured source.
func (s *DocumentService) Ingest(ctx context.Context, fileName string) (*domain.IngestResult, error) {
	return s.IngestFrom(ctx, fileName, s.source)
}

// IngestFrom retrieves the file's bytes from source, extracts the text and
// appends a new record for the file. Extraction that yields nothing stores
// domain.NoTextSentinel instead of failing. A persistence failure does not
// remove the uploaded blob.
func (s *DocumentService) IngestFrom(ctx context.Context, fileName string, source ByteSource) (*domain.IngestResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, apperrors.NewValidationError("fileName is required")
	}
	// Same key as Upload, so directory parts never reach the object path.
	fileName, err := CleanFileName(fileName)
	if err != nil {
		return nil, err
	}
	objectPath := s.ObjectPath(fileName)
	s.logger.Info("Parsing document", "file_name", fileName, "path", objectPath)

	data, from, err := source.Fetch(ctx, objectPath)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewRetrievalError(fileName, 0, err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewEmptyPayloadError(fileName, domain.ErrEmptyPayload)
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("Failed to extract text", err, "file_name", fileName)
		return nil, apperrors.NewExtractionError(fileName, err)
	}

	text = strings.TrimSpace(text)
	usedSentinel := false
	if text == "" {
		s.logger.Warn("No text found in PDF, storing placeholder", "file_name", fileName)
		text = domain.NoTextSentinel
		usedSentinel = true
	}

	record := &domain.DocumentRecord{
		FileName:       fileName,
		SourceLocation: objectPath,
		Text:           text,
	}
	if err := s.records.Save(ctx, record); err != nil {
		s.logger.Error("Failed to persist document record", err, "file_name", fileName)
		return nil, apperrors.NewPersistenceError(err.Error(), err)
	}

	length := utf8.RuneCountInString(text)
	s.logger.Info("Document ingested", "file_name", fileName, "source", from, "length", length)
	return &domain.IngestResult{
		FileName:       fileName,
		SourceLocation: objectPath,
		TextLength:     length,
		UsedSentinel:   usedSentinel,
		Source:         from,
	}, nil
}

func uploadMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Failed to upload file"
	}
	return fmt.Sprintf("Failed to upload file: %s", msg)
}
