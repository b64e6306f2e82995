package application

import (
	"context"

	"fortuna/internal/ai"
	"fortuna/internal/integration"
	"fortuna/internal/models"
	"fortuna/internal/repository"
)

type AIProvider interface {
	ListModels(ctx context.Context, apiKey string) []string
	Generate(ctx context.Context, apiKey, modelID, prompt string, images [][]byte, onRetry ai.RetryFunc) (string, error)
}

type SearchProvider interface {
	Gather(ctx context.Context, home, away string) string
}

type ImageOptimizer interface {
	OptimizeForAI(data []byte) ([]byte, error)
}

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type AnalyzerService interface {
	DiscoverModels(ctx context.Context, apiKey string) []string
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.Analysis, error)
	RecordOutcome(home, away, predicted, actual string) error
	LearningContext() string
	Accuracy() (total int, percent float64)
	GetExcelReport() ([]byte, error)
	SyncToSheet() (string, error)
}

type Service struct {
	Analyzer AnalyzerService
}

func NewService(repos *repository.Repository, aiProvider AIProvider, searcher SearchProvider, images ImageOptimizer, sheets *integration.SheetService, logger Logger) *Service {
	return &Service{
		Analyzer: NewAnalyzerServiceImpl(repos.Ledger, aiProvider, searcher, images, sheets, logger),
	}
}
