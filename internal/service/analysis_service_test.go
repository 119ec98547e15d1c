package service

import (
	"context"
	"errors"
	"testing"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysisFixture() (*AnalysisService, *MockRecordStore, *MockBackend) {
	records := NewMockRecordStore()
	backend := &MockBackend{reply: `{"Term": "12 months"}`}
	return NewAnalysisService(records, backend, NewMockLogger()), records, backend
}

func TestAnalysisService_Summary(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("lease.pdf", "Term: 12 months.")

	res, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		PrimaryFileName: "lease.pdf",
		RequestType:     domain.RequestTypeSummary,
	})
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, `{"Term": "12 months"}`, res.Text)

	require.Len(t, backend.requests, 1)
	msgs := backend.requests[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, SystemPrompt, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "Term: 12 months.")
	assert.Contains(t, msgs[1].Content, "Term")
}

func TestAnalysisService_QAEmbedsQuestion(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("lease.pdf", "Rent is due monthly.")
	question := "When is rent due?"

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		PrimaryFileName: "lease.pdf",
		RequestType:     domain.RequestTypeQA,
		Question:        question,
	})
	require.NoError(t, err)
	assert.Contains(t, backend.lastUserMessage(), question)
}

func TestAnalysisService_QARequiresQuestion(t *testing.T) {
	svc, records, backend := newAnalysisFixture()

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		PrimaryFileName: "lease.pdf",
		RequestType:     domain.RequestTypeQA,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.GetStatusCode(err))
	assert.Equal(t, int32(0), records.calls.Load())
	assert.Empty(t, backend.requests)
}

func TestAnalysisService_CompareMissingSecondFile(t *testing.T) {
	svc, records, backend := newAnalysisFixture()

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		PrimaryFileName: "a.pdf",
		RequestType:     domain.RequestTypeCompare,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMissingSecondDocument))
	assert.ErrorIs(t, err, domain.ErrMissingSecondDocument)
	assert.Equal(t, 400, apperrors.GetStatusCode(err))
	assert.Equal(t, int32(0), records.calls.Load())
	assert.Empty(t, backend.requests)
}

func TestAnalysisService_CompareNamesMissingDocument(t *testing.T) {
	tests := []struct {
		name    string
		stored  []string
		missing string
	}{
		{name: "Second missing", stored: []string{"a.pdf"}, missing: "b.pdf"},
		{name: "First missing", stored: []string{"b.pdf"}, missing: "a.pdf"},
		{name: "Both missing reports first", stored: nil, missing: "a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, records, backend := newAnalysisFixture()
			for _, name := range tt.stored {
				records.put(name, "text of "+name)
			}

			_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
				PrimaryFileName:   "a.pdf",
				SecondaryFileName: "b.pdf",
				RequestType:       domain.RequestTypeCompare,
			})
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
			assert.Equal(t, "Document text not found: "+tt.missing, apperrors.PublicMessage(err))
			assert.Equal(t, int32(2), records.calls.Load())
			assert.Empty(t, backend.requests)
		})
	}
}

func TestAnalysisService_CompareBuildsLabeledPrompt(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("a.pdf", "Net 30 payment.")
	records.put("b.pdf", "Net 60 payment.")

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		PrimaryFileName:   "a.pdf",
		SecondaryFileName: "b.pdf",
		RequestType:       domain.RequestTypeCompare,
	})
	require.NoError(t, err)
	prompt := backend.lastUserMessage()
	assert.Contains(t, prompt, "Document A:\nNet 30 payment.")
	assert.Contains(t, prompt, "Document B:\nNet 60 payment.")
}

func TestAnalysisService_DocumentNotFound(t *testing.T) {
	svc, records, _ := newAnalysisFixture()
	records.put("blank.pdf", "x")
	records.records["blank.pdf"][0].Text = "   "

	for _, name := range []string{"missing.pdf", "blank.pdf"} {
		_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{PrimaryFileName: name, RequestType: "risk"})
		require.Error(t, err, name)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound), name)
		assert.Equal(t, 400, apperrors.GetStatusCode(err))
	}
}

func TestAnalysisService_RecordLookupFailure(t *testing.T) {
	svc, records, _ := newAnalysisFixture()
	records.findErr = errors.New("(XX000) database is down")

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{PrimaryFileName: "a.pdf", RequestType: "summary"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRecordLookup))
	assert.Equal(t, 500, apperrors.GetStatusCode(err))
}

func TestAnalysisService_BackendErrorPassesThrough(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("lease.pdf", "text")
	backend.err = apperrors.NewBackendError("rate limited", 429, nil)

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{PrimaryFileName: "lease.pdf", RequestType: "summary"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBackend))
	assert.Equal(t, "rate limited", apperrors.PublicMessage(err))
	assert.Len(t, backend.requests, 1)
}

func TestAnalysisService_UnclassifiedBackendFailureIsTransport(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("lease.pdf", "text")
	backend.err = errors.New("unexpected EOF")

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{PrimaryFileName: "lease.pdf", RequestType: "clauses"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))
	assert.Equal(t, 500, apperrors.GetStatusCode(err))
}

func TestAnalysisService_GenericType(t *testing.T) {
	svc, records, backend := newAnalysisFixture()
	records.put("lease.pdf", "text")

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{PrimaryFileName: "lease.pdf", RequestType: "obligations"})
	require.NoError(t, err)
	assert.Contains(t, backend.lastUserMessage(), "Analyze this document")
}
