package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"numinfo-bot/models"
	"numinfo-bot/utils"
)

// ErrUserNotFound is returned by mutations targeting a user id that
// was never created.
var ErrUserNotFound = errors.New("user not found")

// resultCap bounds the stored copy of a lookup result.
const resultCap = 1000

// Ledger is the persisted record of users, balances and lookup
// history. Implementations hold no business policy: callers decide
// when to charge, ban or record.
type Ledger interface {
	// GetOrCreate returns the user record, inserting it with the given
	// starting credits when it does not exist. The returned bool
	// reports whether a new record was created. The username is
	// refreshed on existing records; the referrer id is only written
	// at creation and ignored afterwards.
	GetOrCreate(ctx context.Context, userID int64, username string, referredBy *int64, startCredits int64) (*models.User, bool, error)

	// AdjustCredits applies a signed delta, clamping the balance at 0.
	// Unknown user ids return ErrUserNotFound.
	AdjustCredits(ctx context.Context, userID int64, delta int64) error

	// Credits returns the balance, or 0 for unknown users.
	Credits(ctx context.Context, userID int64) (int64, error)

	SetBanned(ctx context.Context, userID int64, banned bool) error

	// IsBanned returns false for unknown users.
	IsBanned(ctx context.Context, userID int64) (bool, error)

	// AppendHistory records one completed lookup attempt. The result
	// text is truncated to 1000 characters before storage.
	AppendHistory(ctx context.Context, userID int64, query, result string) error

	// History lists up to limit entries, newest first.
	History(ctx context.Context, userID int64, limit int64) ([]models.HistoryEntry, error)

	// ListUsers returns the full roster ordered by user id ascending.
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

// MongoLedger implements Ledger on two collections, users and history.
// All mutations are single-document atomic updates, so concurrent
// events for the same user cannot lose writes.
type MongoLedger struct {
	users   *mongo.Collection
	history *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{
		users:   db.Collection("users"),
		history: db.Collection("history"),
	}
}

func (l *MongoLedger) GetOrCreate(ctx context.Context, userID int64, username string, referredBy *int64, startCredits int64) (*models.User, bool, error) {
	filter := bson.M{"user_id": userID}

	onInsert := bson.M{
		"user_id":    userID,
		"credits":    startCredits,
		"is_banned":  false,
		"created_at": time.Now().UTC(),
	}
	if referredBy != nil {
		onInsert["referred_by"] = *referredBy
	}

	update := bson.M{"$setOnInsert": onInsert}
	if username != "" {
		update["$set"] = bson.M{"username": username}
	} else {
		onInsert["username"] = ""
	}

	res, err := l.users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	created := res.UpsertedCount == 1

	var user models.User
	if err := l.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, false, fmt.Errorf("load user: %w", err)
	}
	return &user, created, nil
}

func (l *MongoLedger) AdjustCredits(ctx context.Context, userID int64, delta int64) error {
	// Pipeline update so the clamp is atomic on the server, matching
	// MAX(COALESCE(credits,0)+delta, 0).
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "credits", Value: bson.D{
			{Key: "$max", Value: bson.A{
				int64(0),
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$credits", int64(0)}}},
					delta,
				}}},
			}},
		}}}}},
	}

	res, err := l.users.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("adjust credits: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (l *MongoLedger) Credits(ctx context.Context, userID int64) (int64, error) {
	var user models.User
	err := l.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load credits: %w", err)
	}
	return user.Credits, nil
}

func (l *MongoLedger) SetBanned(ctx context.Context, userID int64, banned bool) error {
	res, err := l.users.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_banned": banned}},
	)
	if err != nil {
		return fmt.Errorf("set ban flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (l *MongoLedger) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var user models.User
	err := l.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load ban flag: %w", err)
	}
	return user.IsBanned, nil
}

func (l *MongoLedger) AppendHistory(ctx context.Context, userID int64, query, result string) error {
	entry := models.HistoryEntry{
		UserID:    userID,
		Query:     query,
		Result:    utils.Truncate(result, resultCap),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := l.history.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (l *MongoLedger) History(ctx context.Context, userID int64, limit int64) ([]models.HistoryEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := l.history.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.HistoryEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (l *MongoLedger) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "user_id", Value: 1}}).
		SetProjection(bson.M{"user_id": 1, "username": 1, "credits": 1})

	cur, err := l.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.UserSummary
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
