package service

import (
	"context"
	"errors"
	"strings"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"golang.org/x/sync/errgroup"
)

// AnalysisService resolves stored document text, builds the prompt for the
// request type and asks the generation backend for the analysis.
type AnalysisService struct {
	records domain.DocumentRecordStore
	backend domain.GenerationBackend
	logger  domain.Logger
}

func NewAnalysisService(records domain.DocumentRecordStore, backend domain.GenerationBackend, logger domain.Logger) *AnalysisService {
	return &AnalysisService{
		records: records,
		backend: backend,
		logger:  logger,
	}
}

// Analyze returns the backend's first choice verbatim. Failures are returned
// once; nothing is retried.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	in, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	in.Question = req.Question

	prompt := BuildPrompt(req.RequestType, in)
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: prompt},
	}

	s.logger.Info("Sending analysis request",
		"file_name", req.PrimaryFileName,
		"type", string(req.RequestType),
		"backend", s.backend.Name(),
		"prompt_length", len(prompt),
	)

	text, err := s.backend.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Generation backend failed", err, "file_name", req.PrimaryFileName, "type", string(req.RequestType))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, apperrors.NewTransportError(ctx.Err().Error(), ctx.Err())
		}
		return nil, apperrors.NewTransportError(err.Error(), err)
	}

	return &domain.AnalysisResult{Succeeded: true, Text: text}, nil
}

func (s *AnalysisService) resolve(ctx context.Context, req domain.AnalysisRequest) (PromptInput, error) {
	if req.RequestType != domain.RequestTypeCompare {
		text, err := s.loadText(ctx, req.PrimaryFileName)
		if err != nil {
			return PromptInput{}, err
		}
		return PromptInput{PrimaryText: text}, nil
	}

	if strings.TrimSpace(req.SecondaryFileName) == "" {
		return PromptInput{}, apperrors.NewMissingSecondDocumentError(domain.ErrMissingSecondDocument)
	}

	// Both lookups finish before either result is inspected so the primary
	// file is always the one reported when both are missing.
	var (
		primary, secondary       string
		primaryErr, secondaryErr error
		g                        errgroup.Group
	)
	g.Go(func() error {
		primary, primaryErr = s.loadText(ctx, req.PrimaryFileName)
		return nil
	})
	g.Go(func() error {
		secondary, secondaryErr = s.loadText(ctx, req.SecondaryFileName)
		return nil
	})
	_ = g.Wait()

	if primaryErr != nil {
		return PromptInput{}, primaryErr
	}
	if secondaryErr != nil {
		return PromptInput{}, secondaryErr
	}
	return PromptInput{PrimaryText: primary, SecondaryText: secondary}, nil
}

func (s *AnalysisService) loadText(ctx context.Context, fileName string) (string, error) {
	rec, err := s.records.FindLatestByFileName(ctx, fileName)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			s.logger.Warn("No document text found", "file_name", fileName)
			return "", apperrors.NewDocumentNotFoundError(fileName, err)
		}
		s.logger.Error("Failed to load document record", err, "file_name", fileName)
		return "", apperrors.NewRecordLookupError(fileName, err)
	}
	if strings.TrimSpace(rec.Text) == "" {
		s.logger.Warn("Document record has no text", "file_name", fileName)
		return "", apperrors.NewDocumentNotFoundError(fileName, domain.ErrDocumentNotFound)
	}
	return rec.Text, nil
}
