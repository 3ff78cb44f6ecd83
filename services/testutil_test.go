package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yaqoubhassan/express-chat-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	models.Migrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      name + "@example.com",
		Password:   "irrelevant",
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// waitForEvent drains a client's send channel until the wanted event arrives.
func waitForEvent(t *testing.T, c *Client, event string) json.RawMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw, ok := <-c.Send:
			require.True(t, ok, "send channel closed while waiting for %s", event)
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			if env.Event == event {
				return env.Data
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", event)
			return nil
		}
	}
}

// waitUntil polls cond until it holds or the timeout elapses.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
