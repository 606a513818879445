package handlers

import (
	"sync"

	"numinfo-bot/models"
)

// ModeTracker is the process-wide map of conversation modes, one per
// user. It is deliberately not persisted: after a restart users simply
// pick their action again. Access is atomic per call; entering a new
// mode overwrites the previous one.
type ModeTracker struct {
	mu    sync.RWMutex
	modes map[int64]models.Mode
}

func NewModeTracker() *ModeTracker {
	return &ModeTracker{modes: make(map[int64]models.Mode)}
}

func (t *ModeTracker) Get(userID int64) models.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes[userID]
}

func (t *ModeTracker) Set(userID int64, mode models.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modes[userID] = mode
}

func (t *ModeTracker) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.modes, userID)
}
