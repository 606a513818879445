package handlers

import (
	"fmt"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"numinfo-bot/config"
	"numinfo-bot/database"
	"numinfo-bot/lookup"
	"numinfo-bot/middleware"
)

const adminID int64 = 9000

// stubContext implements the telebot.Context methods the handlers
// touch. Anything else panics via the embedded nil interface.
type stubContext struct {
	telebot.Context

	sender   *telebot.User
	message  *telebot.Message
	callback *telebot.Callback

	sent      []string
	edited    []string
	responses []string
	responded bool
}

func userCtx(id int64) *stubContext {
	return &stubContext{sender: &telebot.User{ID: id}}
}

func textCtx(id int64, text string) *stubContext {
	return &stubContext{
		sender:  &telebot.User{ID: id},
		message: &telebot.Message{Text: text},
	}
}

func (s *stubContext) Sender() *telebot.User       { return s.sender }
func (s *stubContext) Message() *telebot.Message   { return s.message }
func (s *stubContext) Callback() *telebot.Callback { return s.callback }

func (s *stubContext) Text() string {
	if s.message == nil {
		return ""
	}
	return s.message.Text
}

func (s *stubContext) Respond(resp ...*telebot.CallbackResponse) error {
	s.responded = true
	for _, r := range resp {
		if r.Text != "" {
			s.responses = append(s.responses, r.Text)
		}
	}
	return nil
}

func (s *stubContext) Send(what interface{}, opts ...interface{}) error {
	s.sent = append(s.sent, fmt.Sprint(what))
	return nil
}

func (s *stubContext) Edit(what interface{}, opts ...interface{}) error {
	s.edited = append(s.edited, fmt.Sprint(what))
	return nil
}

// fakeAPI records direct sends, used by the broadcast paths.
type fakeAPI struct {
	mu   sync.Mutex
	sent map[int64][]string
	fail map[int64]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sent: make(map[int64][]string), fail: make(map[int64]bool)}
}

func (f *fakeAPI) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, err := strconv.ParseInt(to.Recipient(), 10, 64)
	if err != nil {
		return nil, err
	}
	if f.fail[id] {
		return nil, fmt.Errorf("blocked by user %d", id)
	}
	f.sent[id] = append(f.sent[id], fmt.Sprint(what))
	return &telebot.Message{}, nil
}

// memberAPI answers the gate's membership check with a fixed role.
type memberAPI struct {
	role telebot.MemberStatus
	err  error
}

func (m *memberAPI) ChatMemberOf(chat, user telebot.Recipient) (*telebot.ChatMember, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &telebot.ChatMember{Role: m.role}, nil
}

type fixture struct {
	h      *Handler
	api    *fakeAPI
	ledger *database.MemoryLedger
	modes  *ModeTracker
	cfg    *config.Config
}

func newFixture(t *testing.T, lookupURL string) *fixture {
	t.Helper()

	cfg := &config.Config{
		AdminIDs:      []int64{adminID},
		ChannelLink:   "https://t.me/example",
		StartCredits:  10,
		LookupCost:    1,
		ReferralBonus: 2,
	}
	log := zap.NewNop()
	api := newFakeAPI()
	ledger := database.NewMemoryLedger()
	modes := NewModeTracker()
	gate := middleware.NewGate(&memberAPI{role: telebot.Member}, -100, cfg.ChannelLink, modes, log)
	client := lookup.NewClient(lookupURL, "test-key", log)

	return &fixture{
		h:      New(api, ledger, client, gate, modes, cfg, "numinfo_bot", log),
		api:    api,
		ledger: ledger,
		modes:  modes,
		cfg:    cfg,
	}
}
