package telegram

import (
	"fmt"
	"strings"

	"fortuna/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot        *tgbotapi.BotAPI
	service    application.AnalyzerService
	logger     application.Logger
	defaultKey string
	sessions   map[int64]*session
}

func NewBot(token, defaultKey string, service application.AnalyzerService, logger application.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot authorized on account %s", bot.Self.UserName)

	return &Bot{
		bot:        bot,
		service:    service,
		logger:     logger,
		defaultKey: defaultKey,
		sessions:   make(map[int64]*session),
	}, nil
}

// Start consumes updates until Stop. One analysis runs start to finish on
// this loop; there are no background workers.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		msg := update.Message
		chatID := msg.Chat.ID

		if len(msg.Photo) > 0 {
			b.handlePhoto(chatID, msg)
			continue
		}

		if strings.HasPrefix(msg.Text, "/") {
			b.handleCommand(chatID, msg.Text)
			continue
		}

		b.handleText(chatID, msg.Text)
	}
}

func (b *Bot) Stop() {
	b.bot.StopReceivingUpdates()
}

func (b *Bot) session(chatID int64) *session {
	sess, ok := b.sessions[chatID]
	if !ok {
		sess = newSession(b.defaultKey)
		b.sessions[chatID] = sess
	}
	return sess
}
