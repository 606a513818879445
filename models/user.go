package models

import "time"

// User is one row of the credit ledger. UserID is the Telegram user id
// and never changes; the username is refreshed opportunistically on
// each contact. ReferredBy is written once, at creation, and never
// overwritten.
type User struct {
	UserID     int64     `bson:"user_id"`
	Username   string    `bson:"username"`
	Credits    int64     `bson:"credits"`
	ReferredBy *int64    `bson:"referred_by,omitempty"`
	IsBanned   bool      `bson:"is_banned"`
	CreatedAt  time.Time `bson:"created_at"`
}

// HistoryEntry records one completed lookup. Entries are append-only.
type HistoryEntry struct {
	UserID    int64     `bson:"user_id"`
	Query     string    `bson:"query"`
	Result    string    `bson:"result"`
	CreatedAt time.Time `bson:"created_at"`
}

// UserSummary is the projection used by the admin roster and broadcast.
type UserSummary struct {
	UserID   int64  `bson:"user_id"`
	Username string `bson:"username"`
	Credits  int64  `bson:"credits"`
}
