package middleware

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/telebot.v3"
)

const (
	maxWarnings   = 5
	blockDuration = 5 * time.Minute
)

// Throttle enforces a minimum delay between commands per user.
// Repeat offenders collect warnings and are blocked for a few minutes.
// Plain text (button replies, lookup numbers) is never throttled.
type Throttle struct {
	mu           sync.Mutex
	lastCommand  map[int64]time.Time
	warnings     map[int64]int
	blockedUntil map[int64]time.Time

	delay  time.Duration
	exempt map[int64]struct{}
	now    func() time.Time
}

func NewThrottle(delay time.Duration, exempt []int64) *Throttle {
	t := &Throttle{
		lastCommand:  make(map[int64]time.Time),
		warnings:     make(map[int64]int),
		blockedUntil: make(map[int64]time.Time),
		delay:        delay,
		exempt:       make(map[int64]struct{}, len(exempt)),
		now:          time.Now,
	}
	for _, id := range exempt {
		t.exempt[id] = struct{}{}
	}
	return t
}

// Middleware applies the throttle to command messages.
func (t *Throttle) Middleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return next(c)
		}
		if _, ok := t.exempt[sender.ID]; ok {
			return next(c)
		}

		if blocked, until := t.isBlocked(sender.ID); blocked {
			return c.Send(fmt.Sprintf(
				"🚫 You are blocked for spamming. Try again in %d seconds.",
				int(until.Sub(t.now()).Seconds())+1,
			))
		}

		msg := c.Message()
		if msg == nil || !isCommand(msg.Text) {
			return next(c)
		}

		allowed, wait := t.allow(sender.ID)
		if !allowed {
			warnings := t.warn(sender.ID)
			if warnings >= maxWarnings {
				t.block(sender.ID, blockDuration)
				return c.Send("🚫 Too much spam. You are blocked for 5 minutes.")
			}
			return c.Send(fmt.Sprintf(
				"⏰ Slow down! Wait %d seconds between commands. Warning %d/%d.",
				int(wait.Seconds())+1, warnings, maxWarnings,
			))
		}

		t.reset(sender.ID)
		t.record(sender.ID)
		return next(c)
	}
}

func isCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}

func (t *Throttle) allow(userID int64) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastCommand[userID]
	if !ok {
		return true, 0
	}
	elapsed := t.now().Sub(last)
	if elapsed < t.delay {
		return false, t.delay - elapsed
	}
	return true, 0
}

func (t *Throttle) record(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastCommand[userID] = t.now()
}

func (t *Throttle) warn(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnings[userID]++
	return t.warnings[userID]
}

func (t *Throttle) reset(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.warnings, userID)
}

func (t *Throttle) block(userID int64, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blockedUntil[userID] = t.now().Add(d)
	delete(t.warnings, userID)
}

func (t *Throttle) isBlocked(userID int64) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.blockedUntil[userID]
	if !ok {
		return false, time.Time{}
	}
	if t.now().After(until) {
		delete(t.blockedUntil, userID)
		return false, time.Time{}
	}
	return true, until
}
