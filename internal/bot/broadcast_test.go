package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
)

func TestDoBroadcastTextToAllUsers(t *testing.T) {
	deps, messenger, _ := newTestDeps(t)
	for _, id := range []int64{1, 2, 3} {
		_, err := storage.EnsureUser(deps.DB, id, "user")
		require.NoError(t, err)
	}

	report := DoBroadcast(textMessage(testAdminID, 500, "service maintenance tonight"), deps)

	assert.Equal(t, BroadcastReport{Delivered: 3, Failed: 0}, report)

	var recipients []int64
	for _, c := range messenger.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.Text == "service maintenance tonight" {
			recipients = append(recipients, m.ChatID)
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, recipients)

	// Report goes back to the admin chat.
	last := messenger.sent[len(messenger.sent)-1].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(500), last.ChatID)
	assert.Contains(t, last.Text, "Successfully delivered: 3")
}

func TestDoBroadcastIsolatesFailures(t *testing.T) {
	deps, messenger, _ := newTestDeps(t)
	for _, id := range []int64{1, 2, 3, 4} {
		_, err := storage.EnsureUser(deps.DB, id, "user")
		require.NoError(t, err)
	}
	messenger.failChats[2] = true

	report := DoBroadcast(textMessage(testAdminID, 500, "hello"), deps)

	assert.Equal(t, BroadcastReport{Delivered: 3, Failed: 1}, report)

	last := messenger.sent[len(messenger.sent)-1].(tgbotapi.MessageConfig)
	assert.Contains(t, last.Text, "Successfully delivered: 3")
	assert.Contains(t, last.Text, "Undelivered: 1")
}

func TestDoBroadcastPhotoUsesLargestRendition(t *testing.T) {
	deps, messenger, _ := newTestDeps(t)
	for _, id := range []int64{1, 2} {
		_, err := storage.EnsureUser(deps.DB, id, "user")
		require.NoError(t, err)
	}

	msg := textMessage(testAdminID, 500, "")
	msg.Caption = "fresh release"
	msg.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "medium", Width: 320},
		{FileID: "large", Width: 1280},
	}

	report := DoBroadcast(msg, deps)
	assert.Equal(t, BroadcastReport{Delivered: 2, Failed: 0}, report)

	var photos int
	for _, c := range messenger.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			photos++
			assert.Equal(t, "fresh release", p.Caption)
			file, ok := p.File.(tgbotapi.FileID)
			require.True(t, ok)
			assert.Equal(t, tgbotapi.FileID("large"), file)
		}
	}
	assert.Equal(t, 2, photos)
}

func TestDoBroadcastRejectsNonAdmin(t *testing.T) {
	deps, messenger, _ := newTestDeps(t)
	for _, id := range []int64{1, 2} {
		_, err := storage.EnsureUser(deps.DB, id, "user")
		require.NoError(t, err)
	}

	report := DoBroadcast(textMessage(1, 100, "pretend announcement"), deps)

	assert.Equal(t, BroadcastReport{}, report)
	require.Len(t, messenger.sent, 1, "only the denial is sent")
	denial := messenger.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(100), denial.ChatID)
	assert.Contains(t, denial.Text, "administrators only")
}

func TestDoBroadcastWithNoUsers(t *testing.T) {
	deps, messenger, _ := newTestDeps(t)

	report := DoBroadcast(textMessage(testAdminID, 500, "anyone there?"), deps)

	assert.Equal(t, BroadcastReport{}, report)
	// Only the report itself is sent.
	require.Len(t, messenger.sent, 1)
}
