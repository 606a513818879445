// Package middleware holds the telebot middleware chain: the
// subscription gate, the command throttle, the panic guard and the
// direct-message filter.
package middleware

import (
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

// CheckUnique is the callback that re-evaluates membership after the
// user joined. It is the only event allowed through the gate.
const CheckUnique = "check_sub"

// MembershipAPI is the slice of the bot API the gate needs.
// *telebot.Bot satisfies it.
type MembershipAPI interface {
	ChatMemberOf(chat, user telebot.Recipient) (*telebot.ChatMember, error)
}

// ModeResetter clears a user's conversation mode. The gate resets the
// mode whenever it blocks someone, so a stale awaiting-number or admin
// mode cannot survive a channel leave.
type ModeResetter interface {
	Clear(userID int64)
}

// Gate enforces the mandatory channel subscription. It is evaluated on
// every inbound event and never caches: a user who leaves the channel
// is blocked on their next action.
type Gate struct {
	api     MembershipAPI
	channel *telebot.Chat
	link    string
	modes   ModeResetter
	log     *zap.Logger
}

func NewGate(api MembershipAPI, channelID int64, link string, modes ModeResetter, log *zap.Logger) *Gate {
	return &Gate{
		api:     api,
		channel: &telebot.Chat{ID: channelID},
		link:    link,
		modes:   modes,
		log:     log,
	}
}

// IsMember reports whether the user currently belongs to the required
// channel. Fail-closed: a transport error means "not a member" — a
// false negative only re-prompts the join screen, a false positive
// would bypass the gate.
func (g *Gate) IsMember(userID int64) bool {
	member, err := g.api.ChatMemberOf(g.channel, &telebot.User{ID: userID})
	if err != nil {
		g.log.Warn("membership check failed", zap.Int64("user", userID), zap.Error(err))
		return false
	}
	switch member.Role {
	case telebot.Creator, telebot.Administrator, telebot.Member:
		return true
	}
	return false
}

// Prompt shows the join screen. Safe to show repeatedly.
func (g *Gate) Prompt(c telebot.Context) error {
	kb := &telebot.ReplyMarkup{}
	kb.Inline(
		kb.Row(kb.URL("🔔 Join Channel", g.link)),
		kb.Row(kb.Data("✅ Joined, Check Again", CheckUnique)),
	)
	return c.Send(
		"📢 Please join our official channel to use this bot.\n\n"+
			"After joining, tap ‘Joined, Check Again’.",
		kb,
	)
}

// Middleware blocks every event from non-members, except the re-check
// callback itself.
func (g *Gate) Middleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if cb := c.Callback(); cb != nil && cb.Unique == CheckUnique {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if g.IsMember(sender.ID) {
			return next(c)
		}

		g.modes.Clear(sender.ID)
		if c.Callback() != nil {
			_ = c.Respond(&telebot.CallbackResponse{})
		}
		return g.Prompt(c)
	}
}
