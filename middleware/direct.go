package middleware

import "gopkg.in/telebot.v3"

// DirectOnly drops every event that does not come from a private chat.
// The bot has no business in groups or channels.
func DirectOnly() telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if chat := c.Chat(); chat != nil && chat.Type != telebot.ChatPrivate {
				return nil
			}
			return next(c)
		}
	}
}
