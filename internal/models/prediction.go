package models

// Fixture is the home/away pair being analyzed, exactly as the user typed it.
type Fixture struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Prediction is the decoded model reply. Field values are taken from the
// model verbatim; Winner is expected to be one of the two input names or
// the literal "Draw", but this is not enforced locally.
type Prediction struct {
	TeamsEN      string `json:"teams_en"`
	Winner       string `json:"winner"`
	Confidence   int    `json:"confidence"`
	Score        string `json:"score"`
	Reason       string `json:"reason"`
	LearningNote string `json:"learning_note"`
}

// Analysis bundles a prediction with the context it was produced from,
// so the delivery layer can show the raw reference data alongside it.
type Analysis struct {
	Fixture         Fixture     `json:"fixture"`
	Prediction      *Prediction `json:"prediction"`
	Evidence        string      `json:"evidence"`
	LearningContext string      `json:"learning_context"`
}

// LedgerEntry is one recorded prediction outcome. Entries are immutable
// once appended; Correct is computed at write time as AIPick == Result.
type LedgerEntry struct {
	Date    string `json:"date"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	AIPick  string `json:"ai_pick"`
	Result  string `json:"result"`
	Correct bool   `json:"correct"`
}
