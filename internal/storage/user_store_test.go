package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitSchema(path))
	db, err := OpenDB(path)
	require.NoError(t, err)
	return db
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitSchema(path))
	require.NoError(t, InitSchema(path))
}

func TestGetUserNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := GetUser(db, 12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEnsureUserCreatesWithDefaults(t *testing.T) {
	db := openTestDB(t)

	user, err := EnsureUser(db, 1, "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.UserID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Prompt)
	assert.Equal(t, DefaultNegativePrompt, user.NegativePrompt)
	assert.Equal(t, DefaultStyle, user.Style)
	assert.Equal(t, DefaultDimension, user.Width)
	assert.Equal(t, DefaultDimension, user.Height)
	assert.Equal(t, DefaultGuidanceScale, user.GuidanceScale)
	assert.Equal(t, int64(RandomSeed), user.Seed)

	assert.False(t, user.Complete(), "a fresh user has no prompt yet")
}

func TestEnsureUserKeepsExistingRecord(t *testing.T) {
	db := openTestDB(t)

	_, err := EnsureUser(db, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, UpdateUserField(db, 1, "prompt", "sunset over dunes"))

	user, err := EnsureUser(db, 1, "alice-renamed")
	require.NoError(t, err)
	assert.Equal(t, "sunset over dunes", user.Prompt)
	assert.Equal(t, "alice", user.Username, "existing rows are left untouched")
}

func TestUpdateUserFieldRejectsUnknownColumn(t *testing.T) {
	db := openTestDB(t)
	_, err := EnsureUser(db, 1, "alice")
	require.NoError(t, err)

	err = UpdateUserField(db, 1, "id", int64(999))
	assert.Error(t, err, "the primary key is not updatable")

	err = UpdateUserField(db, 1, "prompt; DROP TABLE users", "x")
	assert.Error(t, err)
}

func TestUpdateUserFieldLastWriteWins(t *testing.T) {
	db := openTestDB(t)
	_, err := EnsureUser(db, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, UpdateUserField(db, 1, "guidance_scale", 7.5))
	require.NoError(t, UpdateUserField(db, 1, "guidance_scale", 12.0))

	user, err := GetUser(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, user.GuidanceScale)
}

func TestListUserIDsOrdered(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []int64{30, 10, 20} {
		_, err := EnsureUser(db, id, "user")
		require.NoError(t, err)
	}

	ids, err := ListUserIDs(db)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, ids)
}

func TestCollectStats(t *testing.T) {
	db := openTestDB(t)

	// Three users: one fully active, one with just a seed, one untouched.
	_, err := EnsureUser(db, 1, "active")
	require.NoError(t, err)
	require.NoError(t, UpdateUserField(db, 1, "prompt", "a castle"))

	_, err = EnsureUser(db, 2, "seeded")
	require.NoError(t, err)
	require.NoError(t, UpdateUserField(db, 2, "seed", int64(99)))

	_, err = EnsureUser(db, 3, "fresh")
	require.NoError(t, err)

	stats, err := CollectStats(db)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.WithPrompt)
	assert.Equal(t, int64(3), stats.WithStyle, "style defaults at creation")
	assert.Equal(t, int64(3), stats.WithSize)
	assert.Equal(t, int64(3), stats.WithGuidance)
	assert.Equal(t, int64(1), stats.WithCustomSeed)
}

func TestCompleteRequiresEveryGenerationField(t *testing.T) {
	user := UserSettings{
		Prompt:        "a castle",
		Style:         "Anime",
		Width:         1024,
		Height:        1024,
		GuidanceScale: 7.5,
	}
	assert.True(t, user.Complete())

	for _, mutate := range []func(u *UserSettings){
		func(u *UserSettings) { u.Prompt = "" },
		func(u *UserSettings) { u.Style = "" },
		func(u *UserSettings) { u.Width = 0 },
		func(u *UserSettings) { u.Height = 0 },
		func(u *UserSettings) { u.GuidanceScale = 0 },
	} {
		broken := user
		mutate(&broken)
		assert.False(t, broken.Complete())
	}
}
