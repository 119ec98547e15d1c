package domain

import "strings"

// RequestType selects the prompt template used for an analysis.
type RequestType string

const (
	RequestTypeSummary RequestType = "summary"
	RequestTypeClauses RequestType = "clauses"
	RequestTypeRisk    RequestType = "risk"
	RequestTypeQA      RequestType = "qa"
	RequestTypeCompare RequestType = "compare"
)

// AnalysisRequest is one analysis call. SecondaryFileName is only read for
// compare requests and Question only for qa requests.
type AnalysisRequest struct {
	PrimaryFileName   string      `json:"fileName"`
	SecondaryFileName string      `json:"secondFileName,omitempty"`
	RequestType       RequestType `json:"type"`
	Question          string      `json:"question,omitempty"`
}

// Validate checks caller input that can be rejected without touching any store.
func (r *AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.PrimaryFileName) == "" {
		return &ValidationError{Field: "fileName", Message: "file name is required"}
	}
	if r.RequestType == RequestTypeQA && strings.TrimSpace(r.Question) == "" {
		return &ValidationError{Field: "question", Message: "question is required for qa requests"}
	}
	return nil
}

// AnalysisResult is the outcome returned to the caller.
type AnalysisResult struct {
	Succeeded    bool   `json:"success"`
	Text         string `json:"result"`
	ErrorMessage string `json:"error,omitempty"`
}
