package telegram

import "fortuna/internal/models"

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingKey
	stateAwaitingFixture
)

const defaultModel = "gemini-2.5-flash"

// session is the per-chat pipeline context: credential, chosen model,
// pending image batch and the last analysis awaiting an outcome report.
// It lives for the whole chat and is overwritten run by run; the API key
// exists only here, in memory.
type session struct {
	state     sessionState
	apiKey    string
	model     string
	models    []string
	useSearch bool
	images    [][]byte
	fixture   models.Fixture
	analysis  *models.Analysis
}

func newSession(defaultKey string) *session {
	return &session{
		state:     stateIdle,
		apiKey:    defaultKey,
		model:     defaultModel,
		useSearch: true,
	}
}
