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

type documentServiceFixture struct {
	svc       *DocumentService
	blobs     *MockBlobStore
	records   *MockRecordStore
	extractor *MockExtractor
	logger    *MockLogger
}

func newDocumentServiceFixture(extracted string) *documentServiceFixture {
	logger := NewMockLogger()
	blobs := NewMockBlobStore()
	records := NewMockRecordStore()
	extractor := &MockExtractor{text: extracted}
	chain := NewRetrievalChain(logger, NewDirectDownload(blobs))
	return &documentServiceFixture{
		svc:       NewDocumentService(blobs, chain, extractor, records, "contracts", logger),
		blobs:     blobs,
		records:   records,
		extractor: extractor,
		logger:    logger,
	}
}

type staticSource struct {
	data []byte
	err  error
}

func (s staticSource) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	return s.data, "static", s.err
}

func TestDocumentService_Upload(t *testing.T) {
	f := newDocumentServiceFixture("")

	url, err := f.svc.Upload(context.Background(), "lease.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.test/object/public/documents/contracts/lease.pdf", url)
	assert.Equal(t, "application/pdf", f.blobs.types["contracts/lease.pdf"])

	// Same key again overwrites
	_, err = f.svc.Upload(context.Background(), "lease.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(f.blobs.objects["contracts/lease.pdf"]))
}

func TestDocumentService_UploadValidation(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		errMsg   string
	}{
		{name: "Empty name", fileName: " ", data: []byte("x"), errMsg: "File name is required"},
		{name: "Not a PDF", fileName: "notes.txt", data: []byte("x"), errMsg: "Only PDF files are allowed"},
		{name: "Empty body", fileName: "a.pdf", data: nil, errMsg: "File is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDocumentServiceFixture("")
			_, err := f.svc.Upload(context.Background(), tt.fileName, tt.data)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			assert.Equal(t, tt.errMsg, apperrors.PublicMessage(err))
			assert.Empty(t, f.blobs.objects)
		})
	}
}

func TestDocumentService_UploadStorageFailure(t *testing.T) {
	f := newDocumentServiceFixture("")
	f.blobs.uploadErr = errors.New("The resource already exists")

	_, err := f.svc.Upload(context.Background(), "a.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	assert.Equal(t, 500, apperrors.GetStatusCode(err))
	assert.Contains(t, apperrors.PublicMessage(err), "The resource already exists")
}

func TestCleanFileName(t *testing.T) {
	name, err := CleanFileName("../../etc/lease.PDF")
	require.NoError(t, err)
	assert.Equal(t, "lease.PDF", name)

	name, err = CleanFileName(`C:\Users\me\nda.pdf`)
	require.NoError(t, err)
	assert.Equal(t, "nda.pdf", name)

	_, err = CleanFileName("..")
	assert.Error(t, err)
}

func TestDocumentService_IngestThenLookup(t *testing.T) {
	f := newDocumentServiceFixture("Term: 12 months.")
	_, err := f.svc.Upload(context.Background(), "lease.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	res, err := f.svc.Ingest(context.Background(), "lease.pdf")
	require.NoError(t, err)
	assert.Equal(t, len("Term: 12 months."), res.TextLength)
	assert.False(t, res.UsedSentinel)
	assert.Equal(t, "direct", res.Source)
	assert.Equal(t, "contracts/lease.pdf", res.SourceLocation)

	rec, err := f.records.FindLatestByFileName(context.Background(), "lease.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Term: 12 months.", rec.Text)
	assert.Equal(t, "contracts/lease.pdf", rec.SourceLocation)
}

func TestDocumentService_IngestSentinel(t *testing.T) {
	f := newDocumentServiceFixture("  \n ")

	res, err := f.svc.IngestFrom(context.Background(), "scan.pdf", staticSource{data: []byte("%PDF")})
	require.NoError(t, err)
	assert.True(t, res.UsedSentinel)

	rec, err := f.records.FindLatestByFileName(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.NoTextSentinel, rec.Text)
	assert.Contains(t, f.logger.Messages(), "WARN: No text found in PDF, storing placeholder")
}

func TestDocumentService_IngestEmptyPayload(t *testing.T) {
	f := newDocumentServiceFixture("unused")

	_, err := f.svc.IngestFrom(context.Background(), "a.pdf", staticSource{data: []byte{}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeEmptyPayload))
	assert.Equal(t, 0, f.extractor.calls)
	assert.Equal(t, int32(0), f.records.calls.Load())
}

func TestDocumentService_IngestRetrievalFailure(t *testing.T) {
	f := newDocumentServiceFixture("unused")

	// Nothing uploaded, so direct download fails
	_, err := f.svc.Ingest(context.Background(), "missing.pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRetrieval))
	assert.Equal(t, 0, f.extractor.calls)
}

func TestDocumentService_IngestExtractionFailure(t *testing.T) {
	f := newDocumentServiceFixture("")
	f.extractor.err = errors.New("malformed xref table")

	_, err := f.svc.IngestFrom(context.Background(), "bad.pdf", staticSource{data: []byte("garbage")})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.Equal(t, int32(0), f.records.calls.Load())
}

func TestDocumentService_IngestPersistenceFailure(t *testing.T) {
	f := newDocumentServiceFixture("Term")
	f.records.saveErr = errors.New("(23502) null value in column \"text\"")
	_, err := f.svc.Upload(context.Background(), "a.pdf", []byte("%PDF"))
	require.NoError(t, err)

	_, err = f.svc.Ingest(context.Background(), "a.pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
	assert.Equal(t, `(23502) null value in column "text"`, apperrors.PublicMessage(err))
	// The blob stays in place
	assert.Contains(t, f.blobs.objects, "contracts/a.pdf")
}

func TestDocumentService_IngestRequiresFileName(t *testing.T) {
	f := newDocumentServiceFixture("x")

	_, err := f.svc.Ingest(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.GetStatusCode(err))
}

func TestDocumentService_ReingestAppendsVersion(t *testing.T) {
	f := newDocumentServiceFixture("first draft")
	src := staticSource{data: []byte("%PDF")}

	_, err := f.svc.IngestFrom(context.Background(), "lease.pdf", src)
	require.NoError(t, err)
	f.extractor.text = "signed copy"
	_, err = f.svc.IngestFrom(context.Background(), "lease.pdf", src)
	require.NoError(t, err)

	assert.Len(t, f.records.records["lease.pdf"], 2)
	rec, err := f.records.FindLatestByFileName(context.Background(), "lease.pdf")
	require.NoError(t, err)
	assert.Equal(t, "signed copy", rec.Text)
}

func TestDocumentService_IngestUsesUploadKey(t *testing.T) {
	f := newDocumentServiceFixture("Term: 12 months.")
	_, err := f.svc.Upload(context.Background(), "docs/lease.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Contains(t, f.blobs.objects, "contracts/lease.pdf")

	res, err := f.svc.Ingest(context.Background(), "docs/lease.pdf")
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", res.FileName)
	assert.Equal(t, "contracts/lease.pdf", res.SourceLocation)
	assert.Len(t, f.records.records["lease.pdf"], 1)
}

func TestDocumentService_IngestStaysUnderPrefix(t *testing.T) {
	f := newDocumentServiceFixture("x")
	var fetched []string
	src := recordingSource{paths: &fetched, data: []byte("%PDF")}

	res, err := f.svc.IngestFrom(context.Background(), "../secret.pdf", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"contracts/secret.pdf"}, fetched)
	assert.Equal(t, "contracts/secret.pdf", res.SourceLocation)

	_, err = f.svc.IngestFrom(context.Background(), "..", src)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Len(t, fetched, 1)
}

type recordingSource struct {
	paths *[]string
	data  []byte
}

func (s recordingSource) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	*s.paths = append(*s.paths, path)
	return s.data, "static", nil
}
