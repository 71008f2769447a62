package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
)

// Callback data values. These are the wire strings carried by the inline
// keyboards; the set is closed.
const (
	cbDataCreateImage              = "create_image"
	cbDataSettings                 = "settings"
	cbDataHelp                     = "help"
	cbDataMainMenu                 = "main_menu"
	cbDataSetStyle                 = "set_style"
	cbDataSetSize                  = "set_size"
	cbDataSetGuidance              = "set_guidance"
	cbDataSetSeed                  = "set_seed"
	cbDataUseDefaultNegative       = "use_default_negative"
	cbDataAddCustomNegative        = "add_custom_negative"
	cbDataRandomPrompt             = "random_prompt"
	cbDataAnotherRandom            = "another_random"
	cbDataGenerateRandom           = "generate_random"
	cbDataUseDefaultNegativeRandom = "use_default_negative_random"
	cbDataAddCustomNegativeRandom  = "add_custom_negative_random"
	cbDataRetryGeneration          = "retry_generation"
	cbDataMySettings               = "my_settings"

	cbPrefixStyle = "style_"
)

// callbackIntent is the parsed form of a button press. The opaque payload
// is decoded once at the boundary and dispatched exhaustively.
type callbackIntent int

const (
	cbUnknown callbackIntent = iota
	cbCreateImage
	cbSettings
	cbHelp
	cbMainMenu
	cbSetStyle
	cbSetSize
	cbSetGuidance
	cbSetSeed
	cbChooseStyle
	cbUseDefaultNegative
	cbAddCustomNegative
	cbRandomPrompt
	cbAnotherRandom
	cbGenerateRandom
	cbUseDefaultNegativeRandom
	cbAddCustomNegativeRandom
	cbRetryGeneration
	cbMySettings
)

type callbackAction struct {
	intent callbackIntent
	style  string // set when intent == cbChooseStyle
}

func parseCallbackData(data string) callbackAction {
	switch data {
	case cbDataCreateImage:
		return callbackAction{intent: cbCreateImage}
	case cbDataSettings:
		return callbackAction{intent: cbSettings}
	case cbDataHelp:
		return callbackAction{intent: cbHelp}
	case cbDataMainMenu:
		return callbackAction{intent: cbMainMenu}
	case cbDataSetStyle:
		return callbackAction{intent: cbSetStyle}
	case cbDataSetSize:
		return callbackAction{intent: cbSetSize}
	case cbDataSetGuidance:
		return callbackAction{intent: cbSetGuidance}
	case cbDataSetSeed:
		return callbackAction{intent: cbSetSeed}
	case cbDataUseDefaultNegative:
		return callbackAction{intent: cbUseDefaultNegative}
	case cbDataAddCustomNegative:
		return callbackAction{intent: cbAddCustomNegative}
	case cbDataRandomPrompt:
		return callbackAction{intent: cbRandomPrompt}
	case cbDataAnotherRandom:
		return callbackAction{intent: cbAnotherRandom}
	case cbDataGenerateRandom:
		return callbackAction{intent: cbGenerateRandom}
	case cbDataUseDefaultNegativeRandom:
		return callbackAction{intent: cbUseDefaultNegativeRandom}
	case cbDataAddCustomNegativeRandom:
		return callbackAction{intent: cbAddCustomNegativeRandom}
	case cbDataRetryGeneration:
		return callbackAction{intent: cbRetryGeneration}
	case cbDataMySettings:
		return callbackAction{intent: cbMySettings}
	}
	if strings.HasPrefix(data, cbPrefixStyle) {
		return callbackAction{intent: cbChooseStyle, style: strings.TrimPrefix(data, cbPrefixStyle)}
	}
	return callbackAction{intent: cbUnknown}
}

func HandleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery, deps BotDeps) {
	userID := callbackQuery.From.ID

	// Unmatched patterns are silent, but the callback is always
	// acknowledged so the client's spinner clears.
	defer deps.Bot.Request(tgbotapi.NewCallback(callbackQuery.ID, ""))

	if callbackQuery.Message == nil {
		deps.Logger.Error("Callback query message is nil", zap.Int64("user_id", userID), zap.String("data", callbackQuery.Data))
		return
	}
	chatID := callbackQuery.Message.Chat.ID
	messageID := callbackQuery.Message.MessageID
	data := callbackQuery.Data

	deps.Logger.Info("Callback received", zap.Int64("user_id", userID), zap.String("data", data))

	if _, err := storage.EnsureUser(deps.DB, userID, callbackQuery.From.UserName); err != nil {
		deps.Logger.Error("Failed to ensure user for callback", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	action := parseCallbackData(data)
	switch action.intent {
	case cbCreateImage, cbRetryGeneration:
		GenerateImage(userID, chatID, deps)

	case cbSettings, cbMySettings:
		showUserSettings(userID, chatID, deps)

	case cbHelp:
		sendHelp(chatID, deps)

	case cbMainMenu:
		edit := tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "main_menu_next"))
		keyboard := mainMenuKeyboard(deps)
		edit.ReplyMarkup = &keyboard
		deps.Bot.Send(edit)

	case cbSetStyle:
		edit := tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "style_pick"))
		keyboard := styleKeyboard(deps)
		edit.ReplyMarkup = &keyboard
		deps.Bot.Send(edit)

	case cbSetSize:
		text := deps.I18n.T(nil, "size_instructions",
			"MaxWidth", storage.MaxDimension, "MaxHeight", storage.MaxDimension)
		deps.Bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
		deps.StateManager.Set(userID, PendingSize)

	case cbSetGuidance:
		deps.Bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "guidance_instructions")))
		deps.StateManager.Set(userID, PendingGuidance)

	case cbSetSeed:
		text := deps.I18n.T(nil, "seed_instructions", "MaxSeed", int64(storage.MaxSeed))
		deps.Bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
		deps.StateManager.Set(userID, PendingSeed)

	case cbChooseStyle:
		if err := storage.UpdateUserField(deps.DB, userID, "style", action.style); err != nil {
			deps.Logger.Error("Failed to update style", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		deps.Bot.Request(tgbotapi.NewCallback(callbackQuery.ID, deps.I18n.T(nil, "style_chosen_toast", "Style", action.style)))
		edit := tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "style_set_followup"))
		keyboard := settingsKeyboard(deps)
		edit.ReplyMarkup = &keyboard
		deps.Bot.Send(edit)

	case cbUseDefaultNegative, cbUseDefaultNegativeRandom:
		if err := storage.UpdateUserField(deps.DB, userID, "negative_prompt", storage.DefaultNegativePrompt); err != nil {
			deps.Logger.Error("Failed to update negative prompt", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		GenerateImage(userID, chatID, deps)

	case cbAddCustomNegative, cbAddCustomNegativeRandom:
		deps.Bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "custom_negative_ask")))
		deps.StateManager.Set(userID, PendingCustomNegative)

	case cbRandomPrompt, cbAnotherRandom:
		prompt := RandomPrompt()
		if err := storage.UpdateUserField(deps.DB, userID, "prompt", prompt); err != nil {
			deps.Logger.Error("Failed to store random prompt", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		edit := tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "random_prompt_refresh", "Prompt", prompt))
		edit.ParseMode = tgbotapi.ModeHTML
		keyboard := randomPromptKeyboard(deps)
		edit.ReplyMarkup = &keyboard
		deps.Bot.Send(edit)

	case cbGenerateRandom:
		edit := tgbotapi.NewEditMessageText(chatID, messageID, deps.I18n.T(nil, "random_negative_choice"))
		keyboard := negativeChoiceKeyboard(deps, true)
		edit.ReplyMarkup = &keyboard
		deps.Bot.Send(edit)

	case cbUnknown:
		// Intentionally silent; the deferred acknowledgment still runs.
		deps.Logger.Debug("Unmatched callback data", zap.String("data", data), zap.Int64("user_id", userID))
	}
}
