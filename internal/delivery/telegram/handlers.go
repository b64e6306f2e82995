package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fortuna/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(chatID int64, text string) {
	sess := b.session(chatID)
	sess.state = stateIdle

	switch {
	case text == "/start":
		b.sendMessage(chatID, "AI football analyzer\n\n"+
			"/key - Set your Gemini API key for this session\n"+
			"/models - List models usable with your key\n"+
			"/model [name or number] - Pick a model\n"+
			"/search - Toggle web evidence (on by default)\n"+
			"/predict - Analyze a fixture\n"+
			"/evidence - Raw data behind the last prediction\n"+
			"/clear - Drop attached images\n"+
			"/stats - Prediction accuracy so far\n"+
			"/export - Ledger as xlsx\n"+
			"/sheet - Mirror the ledger to Google Sheets\n\n"+
			"Send photos (stats screenshots) any time; they are attached to the next /predict.")

	case text == "/key":
		sess.state = stateAwaitingKey
		b.sendMessage(chatID, "Send your Gemini API key as the next message. It is kept in memory for this session only.")

	case text == "/models":
		if sess.apiKey == "" {
			b.sendMessage(chatID, "Set an API key first with /key.")
			return
		}
		b.sendMessage(chatID, "Asking the provider for usable models...")
		found := b.service.DiscoverModels(context.Background(), sess.apiKey)
		if len(found) == 0 {
			b.sendMessage(chatID, "No usable models found. Check the API key permissions.")
			return
		}
		sess.models = found
		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d models:\n", len(found))
		for i, m := range found {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, m)
		}
		sb.WriteString("\nPick one with /model [name or number].")
		b.sendMessage(chatID, sb.String())

	case text == "/model" || strings.HasPrefix(text, "/model "):
		arg := modelArg(text, sess.models)
		if arg == "" {
			b.sendMessage(chatID, "Usage: /model [name or number from /models]")
			return
		}
		sess.model = arg
		b.sendMessage(chatID, "Model set to "+arg)

	case text == "/search":
		sess.useSearch = !sess.useSearch
		if sess.useSearch {
			b.sendMessage(chatID, "Web search enabled.")
		} else {
			b.sendMessage(chatID, "Web search disabled.")
		}

	case text == "/clear":
		sess.images = nil
		b.sendMessage(chatID, "Attached images dropped.")

	case text == "/predict":
		if sess.apiKey == "" {
			b.sendMessage(chatID, "Set an API key first with /key.")
			return
		}
		sess.state = stateAwaitingFixture
		b.sendMessage(chatID, "Send the fixture as: Home - Away")

	case text == "/evidence":
		if sess.analysis == nil {
			b.sendMessage(chatID, "No analysis yet. Run /predict first.")
			return
		}
		b.sendMessage(chatID, "Teams (EN): "+sess.analysis.Prediction.TeamsEN+
			"\n\nWeb info:\n"+sess.analysis.Evidence+
			"\nMemory: "+sess.analysis.LearningContext)

	case text == "/stats":
		total, percent := b.service.Accuracy()
		if total == 0 {
			b.sendMessage(chatID, b.service.LearningContext())
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("Predictions recorded: %d\nAccuracy: %.1f%%", total, percent))

	case text == "/export":
		data, err := b.service.GetExcelReport()
		if err != nil {
			b.sendMessage(chatID, "Export failed: "+err.Error())
			return
		}
		file := tgbotapi.FileBytes{Name: "match_history.xlsx", Bytes: data}
		if _, err := b.bot.Send(tgbotapi.NewDocument(chatID, file)); err != nil {
			b.logger.Error("failed to send export: %v", err)
		}

	case text == "/sheet":
		url, err := b.service.SyncToSheet()
		if err != nil {
			b.sendMessage(chatID, "Sheet sync failed: "+err.Error())
			return
		}
		b.sendMessage(chatID, "Ledger mirrored: "+url)

	default:
		b.sendMessage(chatID, "Unknown command. /start for the list.")
	}
}

func (b *Bot) handleText(chatID int64, text string) {
	sess := b.session(chatID)
	text = strings.TrimSpace(text)

	switch sess.state {
	case stateAwaitingKey:
		sess.apiKey = text
		sess.state = stateIdle
		b.sendMessage(chatID, "Key saved for this session.")

	case stateAwaitingFixture:
		home, away, ok := splitFixture(text)
		if !ok {
			b.sendMessage(chatID, "Could not read that. Send the fixture as: Home - Away")
			return
		}
		sess.fixture.Home = home
		sess.fixture.Away = away
		sess.state = stateIdle
		b.runAnalysis(chatID, sess)

	default:
		if b.handleOutcome(chatID, sess, text) {
			return
		}
		b.sendMessage(chatID, "I didn't get that. /start for commands.")
	}
}

func (b *Bot) runAnalysis(chatID int64, sess *session) {
	if sess.useSearch {
		b.sendMessage(chatID, "Searching the web for match info...")
	}
	b.sendMessage(chatID, fmt.Sprintf("Analyzing %s vs %s with %s...", sess.fixture.Home, sess.fixture.Away, sess.model))

	analysis, err := b.service.Analyze(context.Background(), application.AnalyzeRequest{
		APIKey:    sess.apiKey,
		Model:     sess.model,
		Home:      sess.fixture.Home,
		Away:      sess.fixture.Away,
		UseSearch: sess.useSearch,
		Images:    sess.images,
		OnRetry: func(attempt int, wait time.Duration) {
			b.sendMessage(chatID, fmt.Sprintf("Rate limit hit on attempt %d, waiting %s before retrying...", attempt, wait))
		},
	})
	if err != nil {
		// Drop any previous analysis too: its outcome keyboard must not
		// record against the fixture of this failed run.
		sess.analysis = nil
		b.logger.Warn("analysis failed for chat %d: %v", chatID, err)
		b.sendMessage(chatID, describeFailure(err))
		return
	}

	sess.analysis = analysis
	sess.images = nil

	b.sendAnalysis(chatID, analysis)
}

// handleOutcome matches the three reply-keyboard buttons and records the
// real result against the last prediction. Matching and recording both use
// the fixture the analysis was made for, not whatever fixture the session
// was asked about last.
func (b *Bot) handleOutcome(chatID int64, sess *session, text string) bool {
	actual, ok := matchOutcome(sess.analysis, text)
	if !ok {
		return false
	}

	fix := sess.analysis.Fixture
	err := b.service.RecordOutcome(fix.Home, fix.Away, sess.analysis.Prediction.Winner, actual)
	if err != nil {
		b.sendMessage(chatID, "Failed to save the result: "+err.Error())
		return true
	}

	sess.analysis = nil

	msg := tgbotapi.NewMessage(chatID, "Result saved.\n"+b.service.LearningContext())
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("failed to send message: %v", err)
	}
	return true
}

func (b *Bot) handlePhoto(chatID int64, msg *tgbotapi.Message) {
	sess := b.session(chatID)

	photo := msg.Photo[len(msg.Photo)-1]
	url, err := b.bot.GetFileDirectURL(photo.FileID)
	if err != nil {
		b.sendMessage(chatID, "Could not fetch that photo: "+err.Error())
		return
	}

	data, err := downloadFile(url)
	if err != nil {
		b.sendMessage(chatID, "Could not download that photo: "+err.Error())
		return
	}

	sess.images = append(sess.images, data)
	b.sendMessage(chatID, fmt.Sprintf("Image attached (%d pending). They go with the next /predict.", len(sess.images)))
}
