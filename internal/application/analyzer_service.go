package application

import (
	"context"
	"fmt"
	"time"

	"fortuna/internal/ai"
	"fortuna/internal/integration"
	"fortuna/internal/models"
	"fortuna/internal/repository"

	"github.com/xuri/excelize/v2"
)

// AnalyzeRequest carries everything one pipeline run needs. The credential
// lives only here and in the caller's session; it is never persisted.
type AnalyzeRequest struct {
	APIKey    string
	Model     string
	Home      string
	Away      string
	UseSearch bool
	Images    [][]byte
	OnRetry   ai.RetryFunc
}

type AnalyzerServiceImpl struct {
	ledger   repository.Ledger
	ai       AIProvider
	searcher SearchProvider
	images   ImageOptimizer
	sheets   *integration.SheetService
	logger   Logger
}

func NewAnalyzerServiceImpl(ledger repository.Ledger, aiProvider AIProvider, searcher SearchProvider, images ImageOptimizer, sheets *integration.SheetService, logger Logger) *AnalyzerServiceImpl {
	return &AnalyzerServiceImpl{
		ledger:   ledger,
		ai:       aiProvider,
		searcher: searcher,
		images:   images,
		sheets:   sheets,
		logger:   logger,
	}
}

// DiscoverModels passes through to the provider catalog. An empty result
// means discovery was unavailable, not that zero models exist.
func (s *AnalyzerServiceImpl) DiscoverModels(ctx context.Context, apiKey string) []string {
	return s.ai.ListModels(ctx, apiKey)
}

// Analyze runs one prediction pipeline start to finish: learning context,
// evidence, prompt, invocation, parse. Evidence gathering degrades to a
// sentinel string; only invocation and parse failures reach the caller.
// A failed run writes nothing to the ledger.
func (s *AnalyzerServiceImpl) Analyze(ctx context.Context, req AnalyzeRequest) (*models.Analysis, error) {
	learningCtx := s.LearningContext()

	evidence := searchDisabledEvidence
	if req.UseSearch {
		evidence = s.searcher.Gather(ctx, req.Home, req.Away)
	}

	var imgs [][]byte
	for i, raw := range req.Images {
		optimized, err := s.images.OptimizeForAI(raw)
		if err != nil {
			s.logger.Warn("skipping image %d: %v", i+1, err)
			continue
		}
		imgs = append(imgs, optimized)
	}

	prompt := ai.BuildMatchPrompt(req.Home, req.Away, evidence, learningCtx)

	rawReply, err := s.ai.Generate(ctx, req.APIKey, req.Model, prompt, imgs, req.OnRetry)
	if err != nil {
		return nil, err
	}

	prediction, err := ai.ParsePrediction(rawReply)
	if err != nil {
		return nil, err
	}

	return &models.Analysis{
		Fixture:         models.Fixture{Home: req.Home, Away: req.Away},
		Prediction:      prediction,
		Evidence:        evidence,
		LearningContext: learningCtx,
	}, nil
}

// RecordOutcome appends one immutable ledger entry. Correct is exact
// string equality between the model's pick and the reported result.
func (s *AnalyzerServiceImpl) RecordOutcome(home, away, predicted, actual string) error {
	entry := models.LedgerEntry{
		Date:    time.Now().Format(ledgerDateLayout),
		Home:    home,
		Away:    away,
		AIPick:  predicted,
		Result:  actual,
		Correct: predicted == actual,
	}
	if err := s.ledger.Append(entry); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	if s.sheets != nil {
		// Snapshot the rows on this goroutine: the mirror runs async and
		// must not read the ledger slice while a later append mutates it.
		rows := s.mirrorRows()
		go func() {
			if _, err := s.syncRows(rows); err != nil {
				s.logger.Error("ledger mirror sync failed: %v", err)
			}
		}()
	}
	return nil
}

func (s *AnalyzerServiceImpl) LearningContext() string {
	entries := s.ledger.All()
	if len(entries) == 0 {
		return noHistoryContext
	}
	_, percent := calculateAccuracy(entries)
	return fmt.Sprintf(learningContextFormat, len(entries), percent)
}

func (s *AnalyzerServiceImpl) Accuracy() (int, float64) {
	entries := s.ledger.All()
	_, percent := calculateAccuracy(entries)
	return len(entries), percent
}

func (s *AnalyzerServiceImpl) GetExcelReport() ([]byte, error) {
	entries := s.ledger.All()

	f := excelize.NewFile()
	f.NewSheet(excelSheetName)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Home", "Away", "AI_Pick", "Result", "Correct"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(excelSheetName, cell, h)
	}

	row := 2
	for _, e := range entries {
		f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", row), e.Date)
		f.SetCellValue(excelSheetName, fmt.Sprintf("B%d", row), e.Home)
		f.SetCellValue(excelSheetName, fmt.Sprintf("C%d", row), e.Away)
		f.SetCellValue(excelSheetName, fmt.Sprintf("D%d", row), e.AIPick)
		f.SetCellValue(excelSheetName, fmt.Sprintf("E%d", row), e.Result)
		f.SetCellValue(excelSheetName, fmt.Sprintf("F%d", row), e.Correct)
		row++
	}

	if len(entries) > 0 {
		correct, percent := calculateAccuracy(entries)
		f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", row+1),
			fmt.Sprintf("Accuracy: %d/%d (%.1f%%)", correct, len(entries), percent))
	}

	f.SetColWidth(excelSheetName, "A", "A", 12)
	f.SetColWidth(excelSheetName, "B", "E", 20)
	f.SetColWidth(excelSheetName, "F", "F", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SyncToSheet mirrors the full ledger plus an accuracy header to the
// configured Google Sheet and returns its URL.
func (s *AnalyzerServiceImpl) SyncToSheet() (string, error) {
	return s.syncRows(s.mirrorRows())
}

// mirrorRows renders the ledger into sheet rows. The result holds only
// copied values, so it stays valid after later appends.
func (s *AnalyzerServiceImpl) mirrorRows() [][]interface{} {
	entries := s.ledger.All()
	correct, percent := calculateAccuracy(entries)

	rows := [][]interface{}{
		{fmt.Sprintf("Accuracy: %d/%d (%.1f%%)", correct, len(entries), percent)},
		{"Date", "Home", "Away", "AI_Pick", "Result", "Correct"},
	}
	for _, e := range entries {
		rows = append(rows, []interface{}{e.Date, e.Home, e.Away, e.AIPick, e.Result, e.Correct})
	}
	return rows
}

func (s *AnalyzerServiceImpl) syncRows(rows [][]interface{}) (string, error) {
	if s.sheets == nil {
		return "", fmt.Errorf("google sheets mirror is not configured")
	}

	_, url, err := s.sheets.EnsureSheetExists(sheetMirrorTitle)
	if err != nil {
		return "", err
	}

	if err := s.sheets.UpdateLedger(rows); err != nil {
		return "", fmt.Errorf("failed to update ledger mirror: %w", err)
	}
	return url, nil
}
