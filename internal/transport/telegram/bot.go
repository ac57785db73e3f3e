package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/services"
)

// Bot is the Telegram transport: it translates bot API updates into engine
// calls and renders engine deliveries back into bot API sends.
type Bot struct {
	api      *tgbotapi.BotAPI
	engine   *chat.Engine
	profiles *services.ProfileService
	cfg      *config.Config
	log      *slog.Logger
}

func New(cfg *config.Config, engine *chat.Engine, profiles *services.ProfileService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return &Bot{
		api:      api,
		engine:   engine,
		profiles: profiles,
		cfg:      cfg,
		log:      slog.With("component", "telegram"),
	}, nil
}

// Username returns the bot's own username, used in referral deep links.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run consumes the long-poll update stream until ctx is done. Each update is
// handled behind a recover so one malformed event can never take down the
// process that owns the shared chat state.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("telegram bot started", "username", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			b.log.Error("panic while handling update", "error", fmt.Sprint(r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	if m.From == nil || !m.Chat.IsPrivate() {
		return
	}
	userID := m.From.ID

	if m.IsCommand() {
		b.handleCommand(userID, m)
		return
	}

	if item, ok := extractMedia(m); ok {
		granted, err := b.engine.Media(userID, item)
		if err != nil {
			b.reply(userID, replyFor(err))
			return
		}
		if granted {
			b.reply(userID, msgMediaDelivered)
		} else {
			b.reply(userID, msgMediaOffered)
		}
		return
	}

	if m.Text == "" {
		return
	}
	if err := b.engine.Text(userID, m.Text); err != nil {
		b.reply(userID, replyFor(err))
	}
}

// Deliver implements chat.Transport.
func (b *Bot) Deliver(userID int64, out chat.Outgoing) error {
	switch out.Kind {
	case chat.OutText:
		return b.send(tgbotapi.NewMessage(userID, out.Text))
	case chat.OutMedia:
		if out.Media == nil {
			return nil
		}
		return b.send(mediaMessage(userID, *out.Media))
	case chat.OutConsentPrompt:
		msg := tgbotapi.NewMessage(userID, consentPromptText(out.MediaKind))
		msg.ReplyMarkup = consentKeyboard(out.Token)
		return b.send(msg)
	case chat.OutFeedbackPrompt:
		msg := tgbotapi.NewMessage(userID, msgFeedbackPrompt)
		msg.ReplyMarkup = feedbackKeyboard(out.PeerID)
		return b.send(msg)
	default:
		return fmt.Errorf("unknown outgoing kind %q", out.Kind)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	_, err := b.api.Send(c)
	return err
}

// reply is a best-effort send to the initiating user. Failures are logged
// only: the engine already handles unreachable users through Deliver errors.
func (b *Bot) reply(userID int64, text string) {
	if text == "" {
		return
	}
	if err := b.send(tgbotapi.NewMessage(userID, text)); err != nil {
		b.log.Warn("reply failed", "user_id", userID, "error", err)
	}
}

// mediaSenders maps each media kind to its bot API constructor: the single
// dispatch point for content-type branching.
var mediaSenders = map[chat.MediaKind]func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable{
	chat.MediaPhoto: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewPhoto(chatID, file)
		m.Caption = caption
		return m
	},
	chat.MediaDocument: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewDocument(chatID, file)
		m.Caption = caption
		return m
	},
	chat.MediaVideo: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewVideo(chatID, file)
		m.Caption = caption
		return m
	},
	chat.MediaAnimation: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewAnimation(chatID, file)
		m.Caption = caption
		return m
	},
	chat.MediaSticker: func(chatID int64, file tgbotapi.FileID, _ string) tgbotapi.Chattable {
		return tgbotapi.NewSticker(chatID, file)
	},
	chat.MediaAudio: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewAudio(chatID, file)
		m.Caption = caption
		return m
	},
	chat.MediaVoice: func(chatID int64, file tgbotapi.FileID, caption string) tgbotapi.Chattable {
		m := tgbotapi.NewVoice(chatID, file)
		m.Caption = caption
		return m
	},
}

func mediaMessage(chatID int64, item chat.MediaItem) tgbotapi.Chattable {
	if build, ok := mediaSenders[item.Kind]; ok {
		return build(chatID, tgbotapi.FileID(item.FileID), item.Caption)
	}
	return tgbotapi.NewMessage(chatID, "Unsupported media.")
}

func extractMedia(m *tgbotapi.Message) (chat.MediaItem, bool) {
	switch {
	case len(m.Photo) > 0:
		return chat.MediaItem{Kind: chat.MediaPhoto, FileID: m.Photo[len(m.Photo)-1].FileID, Caption: m.Caption}, true
	// Animations arrive with Document set as well, so check them first.
	case m.Animation != nil:
		return chat.MediaItem{Kind: chat.MediaAnimation, FileID: m.Animation.FileID, Caption: m.Caption}, true
	case m.Document != nil:
		return chat.MediaItem{Kind: chat.MediaDocument, FileID: m.Document.FileID, Caption: m.Caption}, true
	case m.Video != nil:
		return chat.MediaItem{Kind: chat.MediaVideo, FileID: m.Video.FileID, Caption: m.Caption}, true
	case m.Sticker != nil:
		return chat.MediaItem{Kind: chat.MediaSticker, FileID: m.Sticker.FileID}, true
	case m.Audio != nil:
		return chat.MediaItem{Kind: chat.MediaAudio, FileID: m.Audio.FileID, Caption: m.Caption}, true
	case m.Voice != nil:
		return chat.MediaItem{Kind: chat.MediaVoice, FileID: m.Voice.FileID, Caption: m.Caption}, true
	}
	return chat.MediaItem{}, false
}
