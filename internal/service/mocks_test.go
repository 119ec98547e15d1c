package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"contract-analyzer/internal/domain"
)

// MockLogger is a mock implementation of domain.Logger for testing
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{messages: []string{}}
}

func (m *MockLogger) add(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, s)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.add("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.add("ERROR: " + msg)
		return
	}
	m.add("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.add("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.add("WARN: " + msg)
}

func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// MockBlobStore keeps objects in memory.
type MockBlobStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	types       map[string]string
	uploadErr   error
	downloadErr error
	baseURL     string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
		baseURL: "http://blobs.test/object/public/documents",
	}
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = append([]byte(nil), data...)
	m.types[path] = contentType
	return nil
}

func (m *MockBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", path)
	}
	return data, nil
}

func (m *MockBlobStore) PublicURL(path string) string {
	return m.baseURL + "/" + path
}

// MockRecordStore counts every call so tests can assert on store access.
type MockRecordStore struct {
	mu      sync.Mutex
	records map[string][]domain.DocumentRecord
	saveErr error
	findErr error
	calls   atomic.Int32
	clock   time.Time
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		records: map[string][]domain.DocumentRecord{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockRecordStore) put(fileName, text string) {
	_ = m.Save(context.Background(), &domain.DocumentRecord{
		FileName:       fileName,
		SourceLocation: "contracts/" + fileName,
		Text:           text,
	})
	m.calls.Store(0)
}

func (m *MockRecordStore) Save(ctx context.Context, record *domain.DocumentRecord) error {
	m.calls.Add(1)
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := record.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	rec := *record
	rec.ID = fmt.Sprintf("%d", len(m.records[rec.FileName])+1)
	rec.CreatedAt = m.clock
	m.records[rec.FileName] = append(m.records[rec.FileName], rec)
	return nil
}

func (m *MockRecordStore) FindLatestByFileName(ctx context.Context, fileName string) (*domain.DocumentRecord, error) {
	m.calls.Add(1)
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.records[fileName]
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, fileName)
	}
	rec := versions[len(versions)-1]
	return &rec, nil
}

// MockExtractor returns canned text for every input.
type MockExtractor struct {
	text  string
	err   error
	calls int
}

func (m *MockExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	m.calls++
	return m.text, m.err
}

// MockBackend records the messages of every completion request.
type MockBackend struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests [][]domain.ChatMessage
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, messages)
	return m.reply, m.err
}

func (m *MockBackend) lastUserMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	msgs := m.requests[len(m.requests)-1]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
