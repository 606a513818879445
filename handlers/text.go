package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"numinfo-bot/database"
	"numinfo-bot/lookup"
	"numinfo-bot/models"
)

// OnText routes plain text by the sender's current mode.
func (h *Handler) OnText(c telebot.Context) error {
	sender := c.Sender()
	mode := h.modes.Get(sender.ID)

	switch {
	case mode == models.ModeAwaitingNumber:
		return h.handleNumberMessage(c)
	case mode.IsAdmin():
		if !h.cfg.IsAdmin(sender.ID) {
			h.modes.Clear(sender.ID)
			return h.fallback(c)
		}
		return h.handleAdminText(c, mode)
	default:
		return h.fallback(c)
	}
}

func (h *Handler) handleNumberMessage(c telebot.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if err := h.ensureUser(ctx, sender); err != nil {
		return h.internalError(c, err)
	}

	banned, err := h.ledger.IsBanned(ctx, sender.ID)
	if err != nil {
		return h.internalError(c, err)
	}
	if banned && !h.cfg.IsAdmin(sender.ID) {
		return c.Send("🚫 You are banned.")
	}

	number := lookup.Normalize(c.Text())

	credits, err := h.ledger.Credits(ctx, sender.ID)
	if err != nil {
		return h.internalError(c, err)
	}
	if credits < h.cfg.LookupCost {
		h.modes.Clear(sender.ID)
		return c.Send("❌ You don't have enough credits. Please add credits first.")
	}

	_ = c.Send("⌛ Lookup in progress, please wait…")

	result := h.lookup.Lookup(ctx, number)

	// The call happened, so the credit is spent whatever came back.
	if err := h.ledger.AdjustCredits(ctx, sender.ID, -h.cfg.LookupCost); err != nil {
		h.log.Warn("debit failed", zap.Int64("user_id", sender.ID), zap.Error(err))
	}
	if err := h.ledger.AppendHistory(ctx, sender.ID, number, result); err != nil {
		h.log.Warn("history append failed", zap.Int64("user_id", sender.ID), zap.Error(err))
	}

	text := fmt.Sprintf(
		"✅ Lookup Complete\n━━━━━━━━━━━━━━\n📱 Number: %s\n\n📂 Extracted Data:\n%s",
		number, result,
	)
	if err := c.Send(text); err != nil {
		return err
	}

	remaining, err := h.ledger.Credits(ctx, sender.ID)
	if err == nil {
		_ = c.Send(fmt.Sprintf("💳 Remaining credits: %d", remaining))
	}

	h.modes.Clear(sender.ID)
	return nil
}

func (h *Handler) handleAdminText(c telebot.Context, mode models.Mode) error {
	ctx := context.Background()
	sender := c.Sender()
	text := strings.TrimSpace(c.Text())

	switch mode {
	case models.ModeAdminAddCredit, models.ModeAdminRemoveCredit:
		parts := strings.Fields(text)
		if len(parts) != 2 {
			return c.Send("Format is wrong. Example: 123456789 10")
		}
		uid, err1 := strconv.ParseInt(parts[0], 10, 64)
		amount, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil || amount <= 0 {
			return c.Send("Format is wrong. Example: 123456789 10")
		}

		delta := amount
		if mode == models.ModeAdminRemoveCredit {
			delta = -amount
		}
		if err := h.ledger.AdjustCredits(ctx, uid, delta); err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				return c.Send(fmt.Sprintf("User %d is not registered.", uid))
			}
			return h.internalError(c, err)
		}

		h.modes.Clear(sender.ID)
		if mode == models.ModeAdminAddCredit {
			return c.Send(fmt.Sprintf("✅ Added %d credits to user %d.", amount, uid))
		}
		return c.Send(fmt.Sprintf("✅ Removed %d credits from user %d.", amount, uid))

	case models.ModeAdminBan, models.ModeAdminUnban:
		uid, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return c.Send("Send the user ID as a number.")
		}

		banned := mode == models.ModeAdminBan
		if err := h.ledger.SetBanned(ctx, uid, banned); err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				return c.Send(fmt.Sprintf("User %d is not registered.", uid))
			}
			return h.internalError(c, err)
		}

		h.modes.Clear(sender.ID)
		if banned {
			return c.Send(fmt.Sprintf("🚫 User %d has been banned.", uid))
		}
		return c.Send(fmt.Sprintf("✅ User %d has been unbanned.", uid))

	case models.ModeAdminBroadcast:
		h.modes.Clear(sender.ID)
		go h.runBroadcast(sender, text)
		return c.Send("📢 Broadcast started. You will be notified when it is done.")
	}

	h.modes.Clear(sender.ID)
	return h.fallback(c)
}

// deliverBroadcast pushes the message to every registered user and
// returns how many deliveries succeeded.
func (h *Handler) deliverBroadcast(ctx context.Context, body string) int {
	users, err := h.ledger.ListUsers(ctx)
	if err != nil {
		h.log.Warn("broadcast roster fetch failed", zap.Error(err))
		return 0
	}

	text := "📢 Broadcast:\n\n" + body
	sent := 0
	for _, u := range users {
		if _, err := h.api.Send(&telebot.User{ID: u.UserID}, text); err != nil {
			h.log.Debug("broadcast delivery failed",
				zap.Int64("user_id", u.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

func (h *Handler) runBroadcast(admin *telebot.User, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	sent := h.deliverBroadcast(ctx, body)
	if _, err := h.api.Send(admin, fmt.Sprintf("Broadcast complete. Sent to %d users.", sent)); err != nil {
		h.log.Warn("broadcast summary failed", zap.Error(err))
	}
}

func (h *Handler) fallback(c telebot.Context) error {
	if err := h.ensureUser(context.Background(), c.Sender()); err != nil {
		return h.internalError(c, err)
	}
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return c.Send("Command not understood. Use /start.")
	}
	return c.Send("🙂 Type /start to use the bot.")
}
