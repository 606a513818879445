package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"numinfo-bot/models"
	"numinfo-bot/utils"
)

// MemoryLedger keeps the ledger in process memory behind one mutex.
// It mirrors MongoLedger's semantics exactly and backs the test suite
// and throwaway local runs.
type MemoryLedger struct {
	mu      sync.Mutex
	users   map[int64]*models.User
	history []models.HistoryEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{users: make(map[int64]*models.User)}
}

func (l *MemoryLedger) GetOrCreate(_ context.Context, userID int64, username string, referredBy *int64, startCredits int64) (*models.User, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if u, ok := l.users[userID]; ok {
		if username != "" {
			u.Username = username
		}
		cp := *u
		return &cp, false, nil
	}

	u := &models.User{
		UserID:     userID,
		Username:   username,
		Credits:    startCredits,
		ReferredBy: referredBy,
		CreatedAt:  time.Now().UTC(),
	}
	l.users[userID] = u
	cp := *u
	return &cp, true, nil
}

func (l *MemoryLedger) AdjustCredits(_ context.Context, userID int64, delta int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Credits += delta
	if u.Credits < 0 {
		u.Credits = 0
	}
	return nil
}

func (l *MemoryLedger) Credits(_ context.Context, userID int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if u, ok := l.users[userID]; ok {
		return u.Credits, nil
	}
	return 0, nil
}

func (l *MemoryLedger) SetBanned(_ context.Context, userID int64, banned bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (l *MemoryLedger) IsBanned(_ context.Context, userID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if u, ok := l.users[userID]; ok {
		return u.IsBanned, nil
	}
	return false, nil
}

func (l *MemoryLedger) AppendHistory(_ context.Context, userID int64, query, result string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.history = append(l.history, models.HistoryEntry{
		UserID:    userID,
		Query:     query,
		Result:    utils.Truncate(result, resultCap),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (l *MemoryLedger) History(_ context.Context, userID int64, limit int64) ([]models.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []models.HistoryEntry
	for i := len(l.history) - 1; i >= 0 && int64(len(entries)) < limit; i-- {
		if l.history[i].UserID == userID {
			entries = append(entries, l.history[i])
		}
	}
	return entries, nil
}

func (l *MemoryLedger) ListUsers(_ context.Context) ([]models.UserSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users := make([]models.UserSummary, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, models.UserSummary{UserID: u.UserID, Username: u.Username, Credits: u.Credits})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}
