//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"

	"github.com/stretchr/testify/mock"
)

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, title, format, content string) (*documents.DocumentMeta, error) {
	args := m.Called(ctx, title, format, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.DocumentMeta), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, query *documents.DocumentMetaQuery) ([]*documents.DocumentMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*documents.DocumentMeta), args.Error(1)
}

func (m *MockDocumentService) GetByID(ctx context.Context, documentID string) (*documents.DocumentMeta, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.DocumentMeta), args.Error(1)
}

func (m *MockDocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) UpdateContent(ctx context.Context, documentID, content string) (*documents.DocumentMeta, error) {
	args := m.Called(ctx, documentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.DocumentMeta), args.Error(1)
}

func (m *MockDocumentService) DeleteByID(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) Export(ctx context.Context, documentID, target string) ([]byte, string, error) {
	args := m.Called(ctx, documentID, target)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// MockSynthesizer is a mock implementation of Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, request *speech.SynthesisRequest) ([]byte, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSynthesizer) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockVoiceProvider is a mock implementation of VoiceProvider
type MockVoiceProvider struct {
	mock.Mock
}

func (m *MockVoiceProvider) Voices(ctx context.Context) ([]*speech.Voice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*speech.Voice), args.Error(1)
}

// MockExtractionService is a mock implementation of ExtractionService
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractPDF(ctx context.Context, request *vision.ExtractionRequest) (*asvx.Document, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asvx.Document), args.Error(1)
}

func (m *MockExtractionService) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// MockModelService is a mock implementation of ModelService
type MockModelService struct {
	mock.Mock
}

func (m *MockModelService) Catalog() []models.CatalogEntry {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.CatalogEntry)
}

func (m *MockModelService) Installed(ctx context.Context) ([]*models.InstalledModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InstalledModel), args.Error(1)
}

func (m *MockModelService) IsInstalled(ctx context.Context, engine, modelID string) (bool, error) {
	args := m.Called(ctx, engine, modelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModelService) Install(ctx context.Context, engine, name string, progress models.ProgressFunc) (*models.InstalledModel, error) {
	args := m.Called(ctx, engine, name, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InstalledModel), args.Error(1)
}

// MockDictationService is a mock implementation of DictationService
type MockDictationService struct {
	mock.Mock
}

func (m *MockDictationService) Start(ctx context.Context) (dictation.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dictation.Session), args.Error(1)
}

func (m *MockDictationService) ModelInstalled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
