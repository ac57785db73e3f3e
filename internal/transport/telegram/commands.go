package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/veilchat/veilchat/internal/chat"
)

func (b *Bot) handleCommand(userID int64, m *tgbotapi.Message) {
	args := strings.TrimSpace(m.CommandArguments())

	switch m.Command() {
	case "start":
		b.cmdStart(userID, args)
	case "search":
		b.cmdSearch(userID, chat.GenderUnset)
	case "find":
		b.cmdFind(userID, args)
	case "next":
		if err := b.engine.Next(userID); err != nil {
			b.reply(userID, replyFor(err))
			return
		}
		b.reply(userID, msgSearching)
	case "stop":
		b.cmdStop(userID)
	case "gender":
		msg := tgbotapi.NewMessage(userID, "Select your gender:")
		msg.ReplyMarkup = genderKeyboard()
		if err := b.send(msg); err != nil {
			b.log.Warn("reply failed", "user_id", userID, "error", err)
		}
	case "age":
		b.cmdAge(userID, args)
	case "country":
		b.cmdCountry(userID, args)
	case "profile":
		b.cmdProfile(userID)
	case "report":
		b.cmdReport(userID)
	case "link":
		b.cmdLink(userID)
	case "help":
		b.reply(userID, msgHelp)
	case "ban":
		b.cmdBan(userID, args)
	case "unban":
		b.cmdUnban(userID, args)
	case "stats":
		b.cmdStats(userID)
	default:
		b.reply(userID, msgUnknownCommand)
	}
}

func (b *Bot) cmdStart(userID int64, payload string) {
	user, err := b.profiles.Register(userID, payload)
	if err != nil {
		b.log.Error("registration failed", "user_id", userID, "error", err)
		b.reply(userID, msgInternalError)
		return
	}
	b.reply(userID, msgWelcome)
	if user.Gender == "" {
		msg := tgbotapi.NewMessage(userID, "First, select your gender:")
		msg.ReplyMarkup = genderKeyboard()
		_ = b.send(msg)
	}
}

func (b *Bot) cmdSearch(userID int64, want chat.Gender) {
	if err := b.engine.Search(userID, want); err != nil {
		b.reply(userID, replyFor(err))
		return
	}
	if _, paired := b.engine.PartnerOf(userID); !paired {
		b.reply(userID, msgSearching)
	}
}

func (b *Bot) cmdFind(userID int64, args string) {
	switch strings.ToLower(args) {
	case "male", "m":
		b.cmdSearch(userID, chat.GenderMale)
	case "female", "f":
		b.cmdSearch(userID, chat.GenderFemale)
	default:
		b.reply(userID, "Usage: /find male  or  /find female")
	}
}

func (b *Bot) cmdStop(userID int64) {
	outcome, err := b.engine.Stop(userID)
	if err != nil {
		b.reply(userID, replyFor(err))
		return
	}
	switch outcome {
	case chat.StoppedSearch:
		b.reply(userID, "Search stopped.")
	case chat.StoppedChat:
		b.reply(userID, "Conversation ended.")
	default:
		b.reply(userID, "Nothing to stop. Send /search to find a partner.")
	}
}

func (b *Bot) cmdAge(userID int64, args string) {
	age, err := strconv.Atoi(args)
	if err != nil {
		b.reply(userID, "Usage: /age 25")
		return
	}
	if err := b.profiles.SetAge(userID, age); err != nil {
		b.reply(userID, replyFor(err))
		return
	}
	b.reply(userID, "Age saved.")
}

func (b *Bot) cmdCountry(userID int64, args string) {
	if args == "" {
		b.reply(userID, "Usage: /country Germany")
		return
	}
	if err := b.profiles.SetCountry(userID, args); err != nil {
		b.reply(userID, replyFor(err))
		return
	}
	b.reply(userID, "Country saved.")
}

func (b *Bot) cmdProfile(userID int64) {
	user, err := b.profiles.Get(userID)
	if err != nil {
		b.reply(userID, msgNotRegistered)
		return
	}
	var sb strings.Builder
	sb.WriteString("Your profile:\n")
	fmt.Fprintf(&sb, "Gender: %s\n", orDash(user.Gender))
	if user.Age > 0 {
		fmt.Fprintf(&sb, "Age: %d\n", user.Age)
	} else {
		sb.WriteString("Age: —\n")
	}
	fmt.Fprintf(&sb, "Country: %s\n", orDash(user.Country))
	fmt.Fprintf(&sb, "Messages sent: %d\n", user.MessagesSent)
	fmt.Fprintf(&sb, "Media accepted/declined: %d/%d\n", user.MediaApproved, user.MediaRejected)
	fmt.Fprintf(&sb, "Referrals: %d\n", user.ReferralCount)
	if user.PremiumUntil != nil && user.PremiumUntil.After(time.Now()) {
		fmt.Fprintf(&sb, "Premium until: %s\n", user.PremiumUntil.UTC().Format("2006-01-02"))
	} else {
		sb.WriteString("Premium: no (see /link)\n")
	}
	b.reply(userID, sb.String())
}

func (b *Bot) cmdReport(userID int64) {
	target, ok := b.engine.PartnerOf(userID)
	if !ok {
		target, ok = b.engine.LastPartnerOf(userID)
	}
	if !ok {
		b.reply(userID, "No partner to report yet.")
		return
	}
	msg := tgbotapi.NewMessage(userID, "What is the problem?")
	msg.ReplyMarkup = reportCategoryKeyboard(target)
	if err := b.send(msg); err != nil {
		b.log.Warn("reply failed", "user_id", userID, "error", err)
	}
}

func (b *Bot) cmdLink(userID int64) {
	user, err := b.profiles.Get(userID)
	if err != nil {
		b.reply(userID, msgNotRegistered)
		return
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", b.Username(), user.ReferralCode)
	b.reply(userID, fmt.Sprintf(
		"Invite friends and earn premium:\n%s\n\nEvery %d new users who join with your link give you %d days of premium.",
		link, b.cfg.ReferralPremiumCount, b.cfg.PremiumDays))
}

func (b *Bot) cmdBan(userID int64, args string) {
	if userID != b.cfg.OwnerID {
		b.log.Warn("admin command denied", "user_id", userID, "command", "ban")
		b.reply(userID, msgNotAuthorized)
		return
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.reply(userID, "Usage: /ban <user_id> [hours|perm] [reason]")
		return
	}
	target, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.reply(userID, "Invalid user ID.")
		return
	}

	duration := time.Duration(b.cfg.TempBanHours) * time.Hour
	permanent := false
	reasonFrom := 1
	if len(fields) > 1 {
		switch {
		case fields[1] == "perm" || fields[1] == "permanent":
			permanent = true
			reasonFrom = 2
		default:
			if hours, err := strconv.Atoi(fields[1]); err == nil && hours > 0 {
				duration = time.Duration(hours) * time.Hour
				reasonFrom = 2
			}
		}
	}
	reason := "admin decision"
	if len(fields) > reasonFrom {
		reason = strings.Join(fields[reasonFrom:], " ")
	}

	if err := b.engine.Ban(target, duration, permanent, reason); err != nil {
		b.reply(userID, msgInternalError)
		return
	}
	b.reply(userID, fmt.Sprintf("User %d banned.", target))
}

func (b *Bot) cmdUnban(userID int64, args string) {
	if userID != b.cfg.OwnerID {
		b.log.Warn("admin command denied", "user_id", userID, "command", "unban")
		b.reply(userID, msgNotAuthorized)
		return
	}
	target, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		b.reply(userID, "Usage: /unban <user_id>")
		return
	}
	if b.engine.Unban(target) {
		b.reply(userID, fmt.Sprintf("User %d unbanned.", target))
	} else {
		b.reply(userID, fmt.Sprintf("User %d has no active ban.", target))
	}
}

func (b *Bot) cmdStats(userID int64) {
	if userID != b.cfg.OwnerID {
		b.log.Warn("admin command denied", "user_id", userID, "command", "stats")
		b.reply(userID, msgNotAuthorized)
		return
	}
	s := b.engine.Stats()
	b.reply(userID, fmt.Sprintf(
		"Waiting (random): %d\nWaiting (seeking): %d\nActive pairs: %d\nActive bans: %d\nPending transfers: %d",
		s.WaitingRandom, s.WaitingSeeking, s.ActivePairs, s.ActiveBans, s.PendingTransfers))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
