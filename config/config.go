// Package config collects the runtime settings of the bot from the
// process environment. main loads a .env file first, so both direct
// env vars and .env entries work.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the bot needs to start.
type Config struct {
	Token    string
	AdminIDs []int64

	ChannelID   int64
	ChannelLink string

	MongoURI  string
	MongoName string

	LookupURL string
	LookupKey string

	StartCredits  int64
	LookupCost    int64
	ReferralBonus int64
}

// Load reads the environment. BOT_TOKEN is the only hard requirement;
// everything else has a default or may be empty.
func Load() (*Config, error) {
	cfg := &Config{
		Token:         os.Getenv("BOT_TOKEN"),
		ChannelLink:   os.Getenv("CHANNEL_LINK"),
		MongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoName:     envOr("MONGO_DB", "numinfo"),
		LookupURL:     os.Getenv("LOOKUP_API_URL"),
		LookupKey:     os.Getenv("LOOKUP_API_KEY"),
		StartCredits:  10,
		LookupCost:    1,
		ReferralBonus: 2,
	}

	if cfg.Token == "" {
		return nil, errors.New("BOT_TOKEN is not set")
	}

	if raw := os.Getenv("CHANNEL_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHANNEL_ID %q: %w", raw, err)
		}
		cfg.ChannelID = id
	}

	ids, err := parseIDList(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}
	cfg.AdminIDs = ids

	for _, v := range []struct {
		name string
		dst  *int64
	}{
		{"START_CREDITS", &cfg.StartCredits},
		{"LOOKUP_COST", &cfg.LookupCost},
		{"REFERRAL_BONUS", &cfg.ReferralBonus},
	} {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", v.name, raw, err)
		}
		*v.dst = n
	}

	return cfg, nil
}

// IsAdmin is the single authorization predicate for admin-tagged
// actions.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
