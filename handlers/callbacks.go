package handlers

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/telebot.v3"

	"numinfo-bot/models"
	"numinfo-bot/utils"
)

// preflight ensures the sender has a ledger row and is not banned.
// Returns false when the event must not proceed.
func (h *Handler) preflight(ctx context.Context, c telebot.Context) (bool, error) {
	sender := c.Sender()
	if err := h.ensureUser(ctx, sender); err != nil {
		return false, err
	}

	banned, err := h.ledger.IsBanned(ctx, sender.ID)
	if err != nil {
		return false, err
	}
	if banned && !h.cfg.IsAdmin(sender.ID) {
		_ = c.Respond(&telebot.CallbackResponse{Text: "You are banned."})
		return false, nil
	}
	return true, nil
}

// NumberInfo arms the lookup mode: the next plain text from this user
// is treated as the number to look up.
func (h *Handler) NumberInfo(c telebot.Context) error {
	ctx := context.Background()
	ok, err := h.preflight(ctx, c)
	if err != nil {
		return h.internalError(c, err)
	}
	if !ok {
		return nil
	}

	h.modes.Set(c.Sender().ID, models.ModeAwaitingNumber)
	_ = c.Respond(&telebot.CallbackResponse{})
	return c.Send(fmt.Sprintf(
		"📞 Send the mobile number (digits only, e.g. 6200303551).\nEach lookup costs %d credit.",
		h.cfg.LookupCost,
	))
}

func (h *Handler) Referral(c telebot.Context) error {
	ctx := context.Background()
	ok, err := h.preflight(ctx, c)
	if err != nil {
		return h.internalError(c, err)
	}
	if !ok {
		return nil
	}

	_ = c.Respond(&telebot.CallbackResponse{})
	link := fmt.Sprintf("https://t.me/%s?start=%d", h.botName, c.Sender().ID)
	return c.Send(fmt.Sprintf(
		"🎁 Referral Program\n\n"+
			"Share this link with your friends. When they start the bot "+
			"they get free credits and you get +%d credits.\n\n%s",
		h.cfg.ReferralBonus, link,
	))
}

func (h *Handler) MyCredits(c telebot.Context) error {
	ctx := context.Background()
	ok, err := h.preflight(ctx, c)
	if err != nil {
		return h.internalError(c, err)
	}
	if !ok {
		return nil
	}

	_ = c.Respond(&telebot.CallbackResponse{})
	credits, err := h.ledger.Credits(ctx, c.Sender().ID)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.Send(fmt.Sprintf("💳 You currently have %d credits.", credits))
}

func (h *Handler) MyHistory(c telebot.Context) error {
	ctx := context.Background()
	ok, err := h.preflight(ctx, c)
	if err != nil {
		return h.internalError(c, err)
	}
	if !ok {
		return nil
	}

	_ = c.Respond(&telebot.CallbackResponse{})
	entries, err := h.ledger.History(ctx, c.Sender().ID, 10)
	if err != nil {
		return h.internalError(c, err)
	}
	if len(entries) == 0 {
		return c.Send("📜 No history yet.")
	}

	text := "📜 Last 10 lookups:"
	for _, e := range entries {
		text += fmt.Sprintf("\n- %s @ %s", e.Query, e.CreatedAt.UTC().Format(time.RFC3339))
	}
	return c.Send(text)
}

func (h *Handler) AdminPanel(c telebot.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: msgAdminOnly})
	}
	_ = c.Respond(&telebot.CallbackResponse{})
	return c.Edit("🛠 Admin Panel", h.adminMenu())
}

// BackMain swaps the current message back to the main menu. No
// permission check needed: it only narrows what is visible.
func (h *Handler) BackMain(c telebot.Context) error {
	_ = c.Respond(&telebot.CallbackResponse{})
	return c.Edit("🏠 Main Menu", h.mainMenu(h.cfg.IsAdmin(c.Sender().ID)))
}

// adminPrompt returns a handler that arms an admin input mode and asks
// for the expected format.
func (h *Handler) adminPrompt(mode models.Mode, prompt string) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if !h.cfg.IsAdmin(sender.ID) {
			return c.Respond(&telebot.CallbackResponse{Text: msgAdminOnly})
		}
		_ = c.Respond(&telebot.CallbackResponse{})
		h.modes.Set(sender.ID, mode)
		return c.Send(prompt)
	}
}

// AdminAllUsers sends the whole roster, chunked to stay under the
// outbound message size limit.
func (h *Handler) AdminAllUsers(c telebot.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: msgAdminOnly})
	}
	_ = c.Respond(&telebot.CallbackResponse{})

	users, err := h.ledger.ListUsers(context.Background())
	if err != nil {
		return h.internalError(c, err)
	}
	if len(users) == 0 {
		return c.Send("👥 No users registered yet.")
	}

	header := "👥 All Users List:\n(user_id | username | credits)\n\n"
	lines := make([]string, 0, len(users))
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "-"
		}
		lines = append(lines, fmt.Sprintf("%d | @%s | %d cr\n", u.UserID, name, u.Credits))
	}

	for _, chunk := range utils.ChunkLines(header, lines, chunkBudget) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}
