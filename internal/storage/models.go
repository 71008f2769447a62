package storage

// Generation parameter bounds and defaults. A user record is created with
// the full default set on first contact and is never deleted.
const (
	DefaultNegativePrompt = "(deformed, distorted, disfigured:1.3), poorly drawn, bad anatomy, wrong anatomy, extra limb, missing limb, floating limbs, (mutated hands and fingers:1.4), disconnected limbs, mutation, mutated, ugly, disgusting, blurry, amputation"

	DefaultStyle         = "3840 x 2160"
	DefaultDimension     = 2048
	DefaultGuidanceScale = 20.0

	// RandomSeed means "draw a fresh seed per generation".
	RandomSeed = -1

	MaxSeed      = 2147483647
	MaxDimension = 2048

	MinGuidanceScale = 1.0
	MaxGuidanceScale = 20.0
)

// UserSettings is the per-user configuration record, keyed by the Telegram
// user ID. Prompt stays empty until the first free-text message.
type UserSettings struct {
	UserID         int64   `gorm:"column:id;primaryKey"`
	Username       string  `gorm:"column:username"`
	Prompt         string  `gorm:"column:prompt"`
	NegativePrompt string  `gorm:"column:negative_prompt"`
	Style          string  `gorm:"column:style"`
	Width          int     `gorm:"column:width"`
	Height         int     `gorm:"column:height"`
	GuidanceScale  float64 `gorm:"column:guidance_scale"`
	Seed           int64   `gorm:"column:seed"`
}

func (UserSettings) TableName() string {
	return "users"
}

// Complete reports whether every field the generation request requires is
// present. Seed is always valid (-1 means random) and the negative prompt
// defaults at creation, so neither gates generation.
func (u *UserSettings) Complete() bool {
	return u.Prompt != "" && u.Style != "" && u.Width > 0 && u.Height > 0 && u.GuidanceScale > 0
}
