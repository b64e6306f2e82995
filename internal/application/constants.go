package application

const (
	// Learning context sentinels fed into the prompt.
	noHistoryContext      = "no history yet (first analysis)"
	learningContextFormat = "analyzed: %d | accuracy: %.1f%%"

	// Evidence placeholder when the user turned web search off.
	searchDisabledEvidence = "search disabled."

	ledgerDateLayout = "2006-01-02"

	// Excel report configuration
	excelSheetName = "History"

	sheetMirrorTitle = "Fortuna match history"
)
