package telegram

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fortuna/internal/ai"
	"fortuna/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxPhotoSize = 10 * 1024 * 1024

var fixtureSeparators = []string{" - ", " vs ", " VS ", "-"}

func (b *Bot) sendMessage(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send message: %v", err)
	}
}

func (b *Bot) sendAnalysis(chatID int64, a *models.Analysis) {
	p := a.Prediction
	text := fmt.Sprintf("Prediction: %s\nConfidence: %d%% | Score: %s\n\nAnalysis: %s\n\nLearning note: %s\n\nReport the real result below, it feeds future predictions.",
		p.Winner, p.Confidence, p.Score, p.Reason, p.LearningNote)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(a.Fixture.Home+" wins"),
			tgbotapi.NewKeyboardButton("Draw"),
			tgbotapi.NewKeyboardButton(a.Fixture.Away+" wins"),
		),
	)
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("failed to send analysis: %v", err)
	}
}

// matchOutcome resolves a reply-keyboard button press to the actual
// outcome string, using the fixture the analysis was produced for.
func matchOutcome(a *models.Analysis, text string) (string, bool) {
	if a == nil {
		return "", false
	}
	switch text {
	case a.Fixture.Home + " wins":
		return a.Fixture.Home, true
	case "Draw":
		return "Draw", true
	case a.Fixture.Away + " wins":
		return a.Fixture.Away, true
	}
	return "", false
}

// modelArg resolves the /model argument: a number picks from the last
// discovered list, anything else is taken as a literal identifier.
func modelArg(text string, list []string) string {
	arg := strings.TrimSpace(strings.TrimPrefix(text, "/model"))
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(list) {
		return list[n-1]
	}
	return arg
}

func splitFixture(text string) (home, away string, ok bool) {
	for _, sep := range fixtureSeparators {
		parts := strings.SplitN(text, sep, 2)
		if len(parts) != 2 {
			continue
		}
		home = strings.TrimSpace(parts[0])
		away = strings.TrimSpace(parts[1])
		if home != "" && away != "" {
			return home, away, true
		}
	}
	return "", "", false
}

func describeFailure(err error) string {
	var unknownModel *ai.UnknownModelError
	var parseErr *ai.ParseError
	switch {
	case errors.Is(err, ai.ErrRetriesExhausted):
		return "The model is rate limited and retries are exhausted. Try again later or pick a different model."
	case errors.As(err, &unknownModel):
		return fmt.Sprintf("Model %q is not available for this key. Run /models and pick another.", unknownModel.Model)
	case errors.As(err, &parseErr):
		return "Could not parse the model reply.\n\nRaw reply:\n" + truncate(parseErr.Raw, 800)
	default:
		return "Analysis failed: " + err.Error()
	}
}

func downloadFile(url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
