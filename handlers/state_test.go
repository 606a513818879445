package handlers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"numinfo-bot/models"
)

func TestModeTrackerOverwrite(t *testing.T) {
	tracker := NewModeTracker()

	assert.Equal(t, models.ModeNone, tracker.Get(1))

	tracker.Set(1, models.ModeAwaitingNumber)
	assert.Equal(t, models.ModeAwaitingNumber, tracker.Get(1))

	// Entering a new mode replaces the old one outright.
	tracker.Set(1, models.ModeAdminBroadcast)
	assert.Equal(t, models.ModeAdminBroadcast, tracker.Get(1))

	tracker.Clear(1)
	assert.Equal(t, models.ModeNone, tracker.Get(1))
}

func TestModeTrackerIsolatedPerUser(t *testing.T) {
	tracker := NewModeTracker()

	tracker.Set(1, models.ModeAwaitingNumber)
	tracker.Set(2, models.ModeAdminBan)

	assert.Equal(t, models.ModeAwaitingNumber, tracker.Get(1))
	assert.Equal(t, models.ModeAdminBan, tracker.Get(2))

	tracker.Clear(1)
	assert.Equal(t, models.ModeNone, tracker.Get(1))
	assert.Equal(t, models.ModeAdminBan, tracker.Get(2))
}

func TestModeTrackerConcurrent(t *testing.T) {
	tracker := NewModeTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			tracker.Set(id, models.ModeAwaitingNumber)
			tracker.Get(id)
			tracker.Clear(id)
		}(int64(i))
	}
	wg.Wait()
}
