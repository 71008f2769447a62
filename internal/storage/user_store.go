package storage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updatableFields is the closed set of columns UpdateUserField accepts.
// Validation of the values themselves happens in the handlers; the store
// only guards the column names.
var updatableFields = map[string]struct{}{
	"username":        {},
	"prompt":          {},
	"negative_prompt": {},
	"style":           {},
	"width":           {},
	"height":          {},
	"guidance_scale":  {},
	"seed":            {},
}

// GetUser fetches the settings record for a user.
// Returns gorm.ErrRecordNotFound when the user has never been seen.
func GetUser(db *gorm.DB, userID int64) (*UserSettings, error) {
	var user UserSettings
	result := db.First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		zap.L().Error("Failed to get user settings from DB", zap.Error(result.Error), zap.Int64("userID", userID))
		return nil, result.Error
	}
	return &user, nil
}

// CreateUser inserts a record with full defaults. Idempotent: an existing
// record is left untouched.
func CreateUser(db *gorm.DB, userID int64, username string) error {
	user := UserSettings{
		UserID:         userID,
		Username:       username,
		NegativePrompt: DefaultNegativePrompt,
		Style:          DefaultStyle,
		Width:          DefaultDimension,
		Height:         DefaultDimension,
		GuidanceScale:  DefaultGuidanceScale,
		Seed:           RandomSeed,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&user)
	if result.Error != nil {
		zap.L().Error("Failed to create user settings in DB", zap.Error(result.Error), zap.Int64("userID", userID))
		return result.Error
	}
	return nil
}

// EnsureUser is the lazy get-or-create every handler performs first.
func EnsureUser(db *gorm.DB, userID int64, username string) (*UserSettings, error) {
	user, err := GetUser(db, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := CreateUser(db, userID, username); err != nil {
		return nil, err
	}
	return GetUser(db, userID)
}

// UpdateUserField writes a single column, last-write-wins.
func UpdateUserField(db *gorm.DB, userID int64, field string, value interface{}) error {
	if _, ok := updatableFields[field]; !ok {
		return fmt.Errorf("unknown settings field %q", field)
	}
	result := db.Model(&UserSettings{}).Where("id = ?", userID).Update(field, value)
	if result.Error != nil {
		zap.L().Error("Failed to update user settings field", zap.Error(result.Error), zap.Int64("userID", userID), zap.String("field", field))
		return result.Error
	}
	return nil
}

// ListUserIDs returns every known user id, for broadcast fan-out.
func ListUserIDs(db *gorm.DB) ([]int64, error) {
	var ids []int64
	result := db.Model(&UserSettings{}).Order("id").Pluck("id", &ids)
	if result.Error != nil {
		zap.L().Error("Failed to list user ids", zap.Error(result.Error))
		return nil, result.Error
	}
	return ids, nil
}

// UsageStats aggregates the /stats counters over the whole users table.
type UsageStats struct {
	Total          int64
	WithPrompt     int64
	WithStyle      int64
	WithSize       int64
	WithGuidance   int64
	WithCustomSeed int64
}

// CollectStats runs the full-table counts behind /stats.
func CollectStats(db *gorm.DB) (*UsageStats, error) {
	var stats UsageStats
	model := func() *gorm.DB { return db.Model(&UserSettings{}) }

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Total, model()},
		{&stats.WithPrompt, model().Where("prompt != ''")},
		{&stats.WithStyle, model().Where("style != ''")},
		{&stats.WithSize, model().Where("width > 0 AND height > 0")},
		{&stats.WithGuidance, model().Where("guidance_scale > 0")},
		{&stats.WithCustomSeed, model().Where("seed != ?", RandomSeed)},
	}
	for _, c := range counts {
		if result := c.query.Count(c.dest); result.Error != nil {
			zap.L().Error("Failed to collect usage stats", zap.Error(result.Error))
			return nil, result.Error
		}
	}
	return &stats, nil
}
