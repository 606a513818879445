package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"numinfo-bot/database"
)

const welcomeText = "👋 Hello %s!\n\n" +
	"📞 Welcome to the number info bot.\n\n" +
	"Here you can:\n" +
	"• 🔍 Look up number details\n" +
	"• 🎁 Earn credits through referrals\n" +
	"• 💳 Check your credit balance\n" +
	"• 📜 Review your lookup history\n\n" +
	"⚠️ Use for legal & ethical purposes only.\n\n" +
	"Choose an option below 👇"

// Start handles /start, including referral deep links of the form
// t.me/<bot>?start=<referrer id>.
func (h *Handler) Start(c telebot.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	var referrer *int64
	if msg := c.Message(); msg != nil {
		if payload := strings.TrimSpace(msg.Payload); payload != "" {
			if id, err := strconv.ParseInt(payload, 10, 64); err == nil && id != sender.ID {
				referrer = &id
			}
		}
	}

	_, created, err := h.ledger.GetOrCreate(ctx, sender.ID, sender.Username, referrer, h.cfg.StartCredits)
	if err != nil {
		return h.internalError(c, err)
	}

	// Bonus only on actual creation, so a referral pays out at most
	// once per referred user.
	if created && referrer != nil {
		err := h.ledger.AdjustCredits(ctx, *referrer, h.cfg.ReferralBonus)
		if err != nil && !errors.Is(err, database.ErrUserNotFound) {
			h.log.Warn("referral bonus failed", zap.Int64("referrer", *referrer), zap.Error(err))
		}
	}

	banned, err := h.ledger.IsBanned(ctx, sender.ID)
	if err != nil {
		return h.internalError(c, err)
	}
	if banned && !h.cfg.IsAdmin(sender.ID) {
		return c.Send(msgBanned)
	}

	return c.Send(
		fmt.Sprintf(welcomeText, sender.FirstName),
		h.mainMenu(h.cfg.IsAdmin(sender.ID)),
	)
}

// CheckSub re-evaluates membership after the user claims to have
// joined. It is the only callback the gate lets through.
func (h *Handler) CheckSub(c telebot.Context) error {
	_ = c.Respond(&telebot.CallbackResponse{})

	sender := c.Sender()
	if !h.gate.IsMember(sender.ID) {
		return h.gate.Prompt(c)
	}

	if err := h.ensureUser(context.Background(), sender); err != nil {
		return h.internalError(c, err)
	}
	return c.Send(
		"✅ Subscription verified. You can use the bot now.",
		h.mainMenu(h.cfg.IsAdmin(sender.ID)),
	)
}
