package bot

import (
	"errors"
	"math/rand"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
	"github.com/captriphead/telegram-dalle-bot/pkg/dalleapi"
)

// ErrIncompleteSettings is returned when a generation request cannot be
// built because the user has not finished configuring prompt, style,
// size and guidance scale. No upstream call is made in that case.
var ErrIncompleteSettings = errors.New("user settings incomplete for generation")

const transientErrorMarker = "GPU task aborted"

// BuildGenerationRequest assembles the upstream request from stored
// settings. A stored seed of RandomSeed picks a fresh seed per call and
// asks the service to randomize as well.
func BuildGenerationRequest(user *storage.UserSettings) (dalleapi.PredictRequest, error) {
	if !user.Complete() {
		return dalleapi.PredictRequest{}, ErrIncompleteSettings
	}

	seed := user.Seed
	randomize := seed == storage.RandomSeed
	if randomize {
		seed = rand.Int63n(storage.MaxSeed + 1)
	}

	return dalleapi.PredictRequest{
		Prompt:            user.Prompt,
		NegativePrompt:    user.NegativePrompt,
		UseNegativePrompt: true,
		Style:             user.Style,
		Seed:              seed,
		Width:             user.Width,
		Height:            user.Height,
		GuidanceScale:     user.GuidanceScale,
		RandomizeSeed:     randomize,
	}, nil
}

// GenerateImage runs one full generation round trip for the user and
// reports progress into the chat. Blocks until the service answers.
func GenerateImage(userID, chatID int64, deps BotDeps) {
	user, err := storage.EnsureUser(deps.DB, userID, "")
	if err != nil {
		deps.Logger.Error("Failed to load user for generation", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	req, err := BuildGenerationRequest(user)
	if err != nil {
		deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "generation_incomplete")))
		return
	}

	interim, err := deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "generating_processing")))
	if err != nil {
		deps.Logger.Error("Failed to send progress message", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}

	deps.Logger.Info("Starting generation",
		zap.Int64("user_id", userID),
		zap.String("style", req.Style),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Int64("seed", req.Seed))

	resp, err := deps.Dalle.Predict(req)
	if err != nil {
		deps.Logger.Error("Generation failed", zap.Error(err), zap.Int64("user_id", userID))
		var text string
		if strings.Contains(err.Error(), transientErrorMarker) {
			text = deps.I18n.T(nil, "generation_error_transient")
		} else {
			text = deps.I18n.T(nil, "generation_error_generic", "Error", err.Error())
		}
		edit := tgbotapi.NewEditMessageText(chatID, interim.MessageID, text)
		edit.ReplyMarkup = retryKeyboardPtr(deps)
		deps.Bot.Send(edit)
		return
	}

	deps.Bot.Send(tgbotapi.NewEditMessageText(chatID, interim.MessageID, deps.I18n.T(nil, "generating_ready")))

	caption := deps.I18n.T(nil, "generation_caption",
		"Prompt", req.Prompt,
		"NegativePrompt", req.NegativePrompt,
		"Style", req.Style,
		"Width", req.Width,
		"Height", req.Height,
		"Guidance", formatFloat(req.GuidanceScale),
		"Seed", resp.Seed,
	)
	deps.Bot.Send(tgbotapi.NewMessage(chatID, caption))

	// Photo first for the inline preview, then the document so the
	// original file survives Telegram's photo recompression.
	for _, artifact := range resp.Artifacts {
		deps.Bot.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(artifact.URL)))
		deps.Bot.Send(tgbotapi.NewDocument(chatID, tgbotapi.FileURL(artifact.URL)))
	}

	followup := tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "generation_followup"))
	followup.ReplyMarkup = mainMenuKeyboard(deps)
	deps.Bot.Send(followup)

	deps.Logger.Info("Generation delivered",
		zap.Int64("user_id", userID),
		zap.Int("artifacts", len(resp.Artifacts)),
		zap.Int64("seed", resp.Seed))
}

func retryKeyboardPtr(deps BotDeps) *tgbotapi.InlineKeyboardMarkup {
	kb := retryKeyboard(deps)
	return &kb
}
