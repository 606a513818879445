package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "")
	t.Setenv("CHANNEL_ID", "")
	t.Setenv("START_CREDITS", "")
	t.Setenv("LOOKUP_COST", "")
	t.Setenv("REFERRAL_BONUS", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.StartCredits)
	assert.Equal(t, int64(1), cfg.LookupCost)
	assert.Equal(t, int64(2), cfg.ReferralBonus)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Empty(t, cfg.AdminIDs)
}

func TestLoad_AdminList(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "7354121862, 42 ,")
	t.Setenv("CHANNEL_ID", "-1002163522585")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{7354121862, 42}, cfg.AdminIDs)
	assert.Equal(t, int64(-1002163522585), cfg.ChannelID)

	assert.True(t, cfg.IsAdmin(42))
	assert.False(t, cfg.IsAdmin(43))
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	t.Setenv("ADMIN_IDS", "not-a-number")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ADMIN_IDS", "")
	t.Setenv("CHANNEL_ID", "oops")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("CHANNEL_ID", "")
	t.Setenv("LOOKUP_COST", "one")
	_, err = Load()
	require.Error(t, err)
}
