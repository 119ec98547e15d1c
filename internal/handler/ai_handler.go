package handler

import (
	"encoding/json"
	"net/http"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"
)

// AnalysisHandler serves contract analysis requests.
type AnalysisHandler struct {
	analysisService domain.AnalysisService
	logger          domain.Logger
}

func NewAnalysisHandler(analysisService domain.AnalysisService, logger domain.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

type analysisSuccess struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

type analysisFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Analyze always answers with {success, result} or {success:false, error}.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, analysisFailure{Error: "Invalid request body"})
		return
	}

	logger := loggerFor(r, h.logger)
	logger.Info("Analyze request",
		"file_name", req.PrimaryFileName,
		"type", string(req.RequestType),
		"second_file_name", req.SecondaryFileName,
	)

	res, err := h.analysisService.Analyze(r.Context(), req)
	if err != nil {
		status := apperrors.GetStatusCode(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Analysis failed", err, "file_name", req.PrimaryFileName)
		}
		writeJSON(w, status, analysisFailure{Error: apperrors.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, analysisSuccess{Success: true, Result: res.Text})
}
