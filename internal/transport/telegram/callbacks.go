package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/veilchat/veilchat/internal/models"
)

// Callback data formats:
//
//	media:ok:<token>   accept a pending media transfer
//	media:no:<token>   reject it
//	fb:rep:<peer>      open the report category picker for a former partner
//	fb:sup:<peer>      support (thank) a former partner
//	rep:<cat>:<peer>   file a report with the chosen category
//	gender:<value>     set own gender
func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	userID := cq.From.ID
	parts := strings.Split(cq.Data, ":")

	ack := ""
	switch {
	case len(parts) == 3 && parts[0] == "media":
		ack = b.onConsentDecision(userID, parts[1], parts[2])
	case len(parts) == 3 && parts[0] == "fb" && parts[1] == "rep":
		b.onFeedbackReport(userID, parts[2])
	case len(parts) == 3 && parts[0] == "fb" && parts[1] == "sup":
		ack = b.onSupport(userID, parts[2])
	case len(parts) == 3 && parts[0] == "rep":
		ack = b.onReport(userID, parts[1], parts[2])
	case len(parts) == 2 && parts[0] == "gender":
		ack = b.onGender(userID, parts[1])
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, ack)); err != nil {
		b.log.Warn("callback ack failed", "user_id", userID, "error", err)
	}
	// Buttons are one-shot: drop the keyboard once a decision arrived.
	if cq.Message != nil && ack != "" {
		edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		_, _ = b.api.Request(edit)
	}
}

func (b *Bot) onConsentDecision(userID int64, verdict, token string) string {
	var err error
	if verdict == "ok" {
		err = b.engine.AcceptMedia(userID, token)
	} else {
		err = b.engine.RejectMedia(userID, token)
	}
	if err != nil {
		return replyFor(err)
	}
	if verdict == "ok" {
		return "Media accepted."
	}
	return "Media declined."
}

func (b *Bot) onFeedbackReport(userID int64, peerField string) {
	peer, err := strconv.ParseInt(peerField, 10, 64)
	if err != nil {
		return
	}
	msg := tgbotapi.NewMessage(userID, "What was the problem?")
	msg.ReplyMarkup = reportCategoryKeyboard(peer)
	_ = b.send(msg)
}

func (b *Bot) onSupport(userID int64, peerField string) string {
	peer, err := strconv.ParseInt(peerField, 10, 64)
	if err != nil {
		return ""
	}
	if err := b.engine.Support(userID, peer); err != nil {
		return replyFor(err)
	}
	return "Thanks, your feedback was recorded."
}

func (b *Bot) onReport(userID int64, category, peerField string) string {
	peer, err := strconv.ParseInt(peerField, 10, 64)
	if err != nil {
		return ""
	}
	if !validReportCategory(category) {
		return ""
	}
	if err := b.engine.Report(userID, peer, category, ""); err != nil {
		return replyFor(err)
	}
	return "Report submitted. Our moderators will review it."
}

func (b *Bot) onGender(userID int64, value string) string {
	if err := b.profiles.SetGender(userID, value); err != nil {
		return replyFor(err)
	}
	return "Gender saved. Send /search to find a partner."
}

func validReportCategory(category string) bool {
	switch category {
	case models.ReportCategoryAdvertising, models.ReportCategoryAbuse,
		models.ReportCategoryExplicit, models.ReportCategoryScam, models.ReportCategoryOther:
		return true
	}
	return false
}

func consentKeyboard(token string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Accept", "media:ok:"+token),
			tgbotapi.NewInlineKeyboardButtonData("Decline", "media:no:"+token),
		),
	)
}

func feedbackKeyboard(peer int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(peer, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍 Thank partner", "fb:sup:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🚩 Report partner", "fb:rep:"+id),
		),
	)
}

func reportCategoryKeyboard(peer int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(peer, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Advertising", "rep:"+models.ReportCategoryAdvertising+":"+id),
			tgbotapi.NewInlineKeyboardButtonData("Abuse", "rep:"+models.ReportCategoryAbuse+":"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Explicit content", "rep:"+models.ReportCategoryExplicit+":"+id),
			tgbotapi.NewInlineKeyboardButtonData("Scam", "rep:"+models.ReportCategoryScam+":"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Other", "rep:"+models.ReportCategoryOther+":"+id),
		),
	)
}

func genderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Male", "gender:"+models.GenderMale),
			tgbotapi.NewInlineKeyboardButtonData("Female", "gender:"+models.GenderFemale),
		),
	)
}
