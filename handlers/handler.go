// Package handlers wires every bot route: commands, inline-button
// callbacks and the mode-driven text dispatch. It is the conversation
// state machine of the bot; storage stays in database, transport in
// telebot.
package handlers

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"numinfo-bot/config"
	"numinfo-bot/database"
	"numinfo-bot/lookup"
	"numinfo-bot/middleware"
	"numinfo-bot/models"
)

// chunkBudget bounds one outbound message; Telegram caps at 4096.
const chunkBudget = 3900

const (
	msgInternal  = "⚠️ Something went wrong, please try again later."
	msgBanned    = "🚫 You are banned from this bot. Contact the admin."
	msgAdminOnly = "Admin only."
)

// API is the send-capable slice of the bot the handlers need outside a
// handler context (broadcast fan-out, completion notices).
// *telebot.Bot satisfies it.
type API interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

type Handler struct {
	api     API
	ledger  database.Ledger
	lookup  *lookup.Client
	gate    *middleware.Gate
	modes   *ModeTracker
	cfg     *config.Config
	botName string
	log     *zap.Logger
}

func New(api API, ledger database.Ledger, client *lookup.Client, gate *middleware.Gate, modes *ModeTracker, cfg *config.Config, botName string, log *zap.Logger) *Handler {
	return &Handler{
		api:     api,
		ledger:  ledger,
		lookup:  client,
		gate:    gate,
		modes:   modes,
		cfg:     cfg,
		botName: botName,
		log:     log,
	}
}

// Register attaches every route to the bot.
func (h *Handler) Register(bot *telebot.Bot) {
	bot.Handle("/start", h.Start)
	bot.Handle(telebot.OnText, h.OnText)

	bot.Handle(&telebot.Btn{Unique: middleware.CheckUnique}, h.CheckSub)
	bot.Handle(&telebot.Btn{Unique: "number_info"}, h.NumberInfo)
	bot.Handle(&telebot.Btn{Unique: "referral"}, h.Referral)
	bot.Handle(&telebot.Btn{Unique: "my_credits"}, h.MyCredits)
	bot.Handle(&telebot.Btn{Unique: "my_history"}, h.MyHistory)
	bot.Handle(&telebot.Btn{Unique: "admin_panel"}, h.AdminPanel)
	bot.Handle(&telebot.Btn{Unique: "back_main"}, h.BackMain)
	bot.Handle(&telebot.Btn{Unique: "admin_all_users"}, h.AdminAllUsers)

	bot.Handle(&telebot.Btn{Unique: "admin_add_credit"},
		h.adminPrompt(models.ModeAdminAddCredit, "➕ Send the user ID and credits (format: user_id credits)."))
	bot.Handle(&telebot.Btn{Unique: "admin_remove_credit"},
		h.adminPrompt(models.ModeAdminRemoveCredit, "➖ Send the user ID and credits (format: user_id credits)."))
	bot.Handle(&telebot.Btn{Unique: "admin_ban"},
		h.adminPrompt(models.ModeAdminBan, "🔒 Send the user ID to ban."))
	bot.Handle(&telebot.Btn{Unique: "admin_unban"},
		h.adminPrompt(models.ModeAdminUnban, "🔓 Send the user ID to unban."))
	bot.Handle(&telebot.Btn{Unique: "admin_broadcast"},
		h.adminPrompt(models.ModeAdminBroadcast, "📢 Send the broadcast message (plain text)."))
}

func (h *Handler) mainMenu(isAdmin bool) *telebot.ReplyMarkup {
	kb := &telebot.ReplyMarkup{}
	rows := []telebot.Row{
		kb.Row(kb.Data("🔍 Number to Info", "number_info")),
		kb.Row(kb.Data("🎁 Referral", "referral"), kb.Data("💳 My Credits", "my_credits")),
		kb.Row(kb.Data("📜 My History", "my_history")),
	}
	if isAdmin {
		rows = append(rows, kb.Row(kb.Data("🛠 Admin Panel", "admin_panel")))
	}
	kb.Inline(rows...)
	return kb
}

func (h *Handler) adminMenu() *telebot.ReplyMarkup {
	kb := &telebot.ReplyMarkup{}
	kb.Inline(
		kb.Row(kb.Data("➕ Add Credit", "admin_add_credit"), kb.Data("➖ Remove Credit", "admin_remove_credit")),
		kb.Row(kb.Data("📢 Broadcast", "admin_broadcast")),
		kb.Row(kb.Data("👥 All Users", "admin_all_users")),
		kb.Row(kb.Data("🔒 Ban User", "admin_ban"), kb.Data("🔓 Unban User", "admin_unban")),
		kb.Row(kb.Data("⬅️ Back", "back_main")),
	)
	return kb
}

// ensureUser makes sure the sender has a ledger row. Callbacks and
// plain texts can arrive from users who never ran /start after the
// database was reset.
func (h *Handler) ensureUser(ctx context.Context, sender *telebot.User) error {
	_, _, err := h.ledger.GetOrCreate(ctx, sender.ID, sender.Username, nil, h.cfg.StartCredits)
	return err
}

// internalError logs the failure and answers with a canned message;
// no error detail reaches the chat.
func (h *Handler) internalError(c telebot.Context, err error) error {
	h.log.Error("handler failed", zap.Error(err))
	return c.Send(msgInternal)
}
