// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contract-analyzer/internal/domain"
)

// Multipart framing and JSON field names on top of the file itself.
const requestOverhead = 1 << 20

// DocumentHandler handles upload and parse requests
type DocumentHandler struct {
	documentService domain.DocumentService
	maxFileSize     int64
	logger          domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService domain.DocumentService, maxFileSize int64, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

type uploadJSONRequest struct {
	FileName   string `json:"fileName"`
	FileBase64 string `json:"fileBase64"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type ParseRequest struct {
	FileName string `json:"fileName"`
}

type ParseResponse struct {
	Success bool `json:"success"`
	Length  int  `json:"length"`
}

// Upload accepts a multipart "file" field or a JSON body with the file
// base64 encoded, and stores it in the bucket.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var (
		fileName string
		data     []byte
		ok       bool
	)
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		fileName, data, ok = h.readMultipart(w, r)
	} else {
		fileName, data, ok = h.readBase64JSON(w, r)
	}
	if !ok {
		return
	}

	url, err := h.documentService.Upload(r.Context(), fileName, data)
	if err != nil {
		writeAppError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{Success: true, URL: url})
}

func (h *DocumentHandler) readMultipart(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+requestOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusBadRequest, h.tooLargeMessage())
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "Missing file")
		default:
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return "", nil, false
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		writeError(w, http.StatusBadRequest, h.tooLargeMessage())
		return "", nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		loggerFor(r, h.logger).Error("Failed to read uploaded file", err, "file_name", header.Filename)
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return "", nil, false
	}
	return header.Filename, data, true
}

func (h *DocumentHandler) readBase64JSON(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(base64.StdEncoding.EncodedLen(int(h.maxFileSize)))+requestOverhead)

	var req uploadJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, h.tooLargeMessage())
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", nil, false
	}
	if req.FileName == "" || req.FileBase64 == "" {
		writeError(w, http.StatusBadRequest, "Missing fileName or fileBase64")
		return "", nil, false
	}

	data, err := decodeBase64(req.FileBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base64 payload")
		return "", nil, false
	}
	if int64(len(data)) > h.maxFileSize {
		writeError(w, http.StatusBadRequest, h.tooLargeMessage())
		return "", nil, false
	}
	return req.FileName, data, true
}

// decodeBase64 accepts padded or unpadded input with an optional data URL prefix.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func (h *DocumentHandler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum file size is %dMB.", h.maxFileSize>>20)
}

// Parse retrieves a stored file, extracts its text and saves it as a record.
func (h *DocumentHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "Missing fileName")
		return
	}

	res, err := h.documentService.Ingest(r.Context(), req.FileName)
	if err != nil {
		writeAppError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{Success: true, Length: res.TextLength})
}
