package middleware

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// stubContext implements the handful of telebot.Context methods the
// middleware touches. Everything else panics via the embedded nil
// interface, which is exactly what a test wants.
type stubContext struct {
	telebot.Context

	sender   *telebot.User
	chat     *telebot.Chat
	message  *telebot.Message
	callback *telebot.Callback

	sent      []string
	responded bool
}

func (s *stubContext) Sender() *telebot.User       { return s.sender }
func (s *stubContext) Chat() *telebot.Chat         { return s.chat }
func (s *stubContext) Message() *telebot.Message   { return s.message }
func (s *stubContext) Callback() *telebot.Callback { return s.callback }

func (s *stubContext) Respond(resp ...*telebot.CallbackResponse) error {
	s.responded = true
	return nil
}

func (s *stubContext) Send(what interface{}, opts ...interface{}) error {
	s.sent = append(s.sent, fmt.Sprint(what))
	return nil
}
