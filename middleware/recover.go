package middleware

import (
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

const panicReply = "⚠️ Something went wrong, please try again later."

// Recover is the top-level guard around every handler: a panic is
// logged with its stack and the user gets a generic reply instead of
// silence.
func Recover(log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler panicked",
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
					err = c.Send(panicReply)
				}
			}()
			return next(c)
		}
	}
}
