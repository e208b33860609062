package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"cookwise/internal/config"
	"cookwise/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const handleTimeout = 2 * time.Minute

// Bot wraps the Telegram API around a Dispatcher.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.Config
	dispatcher   *Dispatcher
	metricsStore *metrics.Store
	logger       *slog.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, dispatcher *Dispatcher, metricsStore *metrics.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger := slog.Default().With("component", "telegram")
	logger.Info("authorized on account", "username", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", "description", resp.Description)

	return &Bot{
		api:          api,
		cfg:          cfg,
		dispatcher:   dispatcher,
		metricsStore: metricsStore,
		logger:       logger,
	}, nil
}

// RegisterHandlers registers the webhook and health endpoints on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", "error", err)
		return
	}

	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if !b.allowed(q.From) {
			return
		}
		b.api.Request(tgbotapi.NewCallback(q.ID, ""))
		if q.Message == nil {
			return
		}
		go b.process(q.From.ID, q.Message.Chat.ID, q.Data)
	case update.Message != nil:
		msg := update.Message
		if !b.allowed(msg.From) {
			return
		}
		go b.process(msg.From.ID, msg.Chat.ID, msg.Text)
	}
}

func (b *Bot) allowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if from.ID == b.cfg.AdminTelegramID || slices.Contains(b.cfg.TelegramAllowedUserIDs, from.ID) {
		return true
	}
	b.logger.Warn("unauthorized access attempt", "user_id", from.ID, "username", from.UserName)
	return false
}

func (b *Bot) process(userID, chatID int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if cmd, _ := parseCommand(text); cmd == "/metrics" {
		b.handleMetrics(ctx, userID, chatID)
		return
	}

	b.api.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	for _, reply := range b.dispatcher.Handle(ctx, userID, text) {
		b.send(chatID, reply)
	}
}

func (b *Bot) handleMetrics(ctx context.Context, userID, chatID int64) {
	if userID != b.cfg.AdminTelegramID {
		b.send(chatID, Reply{Text: "⛔ *Access Denied*: Admin only."})
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", "error", err)
		b.send(chatID, Reply{Text: "❌ Error fetching metrics."})
		return
	}
	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.send(chatID, Reply{Text: formatMetrics(usage, health)})
}

// send delivers reply as Markdown, falling back to plain text when Telegram
// rejects the formatting.
func (b *Bot) send(chatID int64, reply Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if len(reply.Actions) > 0 {
		msg.ReplyMarkup = keyboard(reply.Actions)
	}
	if _, err := b.api.Send(msg); err == nil {
		return
	}

	msg.ParseMode = ""
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func keyboard(actions []Action) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, len(actions))
	for i, a := range actions {
		rows[i] = tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Command))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
