package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
)

func HandleUpdate(update tgbotapi.Update, deps BotDeps) {
	if update.Message != nil {
		HandleMessage(update.Message, deps)
	} else if update.CallbackQuery != nil {
		HandleCallbackQuery(update.CallbackQuery, deps)
	}
}

// HandleMessage routes one inbound message. Order matters: a pending
// continuation consumes the message first (command-looking text escapes
// back to command dispatch, continuation still consumed), then commands,
// then plain text becomes the new prompt.
func HandleMessage(message *tgbotapi.Message, deps BotDeps) {
	if message.From == nil {
		return
	}
	userID := message.From.ID

	if _, err := storage.EnsureUser(deps.DB, userID, message.From.UserName); err != nil {
		deps.Logger.Error("Failed to ensure user", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	if pending, ok := deps.StateManager.Take(userID); ok {
		if !strings.HasPrefix(message.Text, "/") {
			handlePendingInput(pending.Kind, message, deps)
			return
		}
		deps.Logger.Debug("Pending continuation dropped for command escape",
			zap.Int64("user_id", userID), zap.String("pending", pending.Kind.String()))
	}

	if strings.HasPrefix(message.Text, "/") {
		handleCommand(message, deps)
		return
	}

	if message.Text != "" {
		handleNewPrompt(message, deps)
		return
	}

	deps.Logger.Debug("Ignoring non-command, non-text message", zap.Int64("user_id", userID))
}

// commandName extracts "start" from "/start arg" or "/start@SomeBot".
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}
	return cmd
}

func handleCommand(message *tgbotapi.Message, deps BotDeps) {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch commandName(message.Text) {
	case "start":
		user, err := storage.GetUser(deps.DB, userID)
		if err != nil {
			deps.Logger.Error("Failed to load user for /start", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		var text string
		if user.Prompt != "" {
			text = deps.I18n.T(nil, "welcome_back", "Name", message.From.FirstName)
		} else {
			text = deps.I18n.T(nil, "welcome_instructions")
		}
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ReplyMarkup = mainMenuKeyboard(deps)
		deps.Bot.Send(reply)
		deps.Logger.Info("User started the bot", zap.Int64("user_id", userID), zap.String("username", message.From.UserName))

	case "help":
		sendHelp(chatID, deps)

	case "random":
		// Shown but deliberately not persisted; only the keyboard's
		// refresh path stores the prompt.
		prompt := RandomPrompt()
		reply := tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "random_prompt_offer", "Prompt", prompt))
		reply.ParseMode = tgbotapi.ModeHTML
		reply.ReplyMarkup = randomPromptKeyboard(deps)
		deps.Bot.Send(reply)

	case "generate":
		user, err := storage.GetUser(deps.DB, userID)
		if err != nil {
			deps.Logger.Error("Failed to load user for /generate", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		if user.Prompt == "" {
			deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "generate_no_prompt")))
			return
		}
		GenerateImage(userID, chatID, deps)

	case "settings":
		showUserSettings(userID, chatID, deps)

	case "stats":
		if !deps.Authorizer.IsAdmin(userID) {
			deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "stats_denied")))
			return
		}
		stats, err := storage.CollectStats(deps.DB)
		if err != nil {
			deps.Logger.Error("Failed to collect stats", zap.Error(err))
			return
		}
		deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "stats_text",
			"Total", stats.Total,
			"WithPrompt", stats.WithPrompt,
			"WithStyle", stats.WithStyle,
			"WithSize", stats.WithSize,
			"WithGuidance", stats.WithGuidance,
			"WithSeed", stats.WithCustomSeed,
		)))

	case "broadcast":
		if !deps.Authorizer.IsAdmin(userID) {
			deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "broadcast_denied")))
			return
		}
		deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "broadcast_prompt")))
		deps.StateManager.Set(userID, PendingBroadcast)

	default:
		deps.Bot.Send(tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "unknown_command")))
	}
}

// handleNewPrompt implements the default free-text path: the text becomes
// the user's prompt and the negative-prompt choice is offered.
func handleNewPrompt(message *tgbotapi.Message, deps BotDeps) {
	userID := message.From.ID
	chatID := message.Chat.ID

	if err := storage.UpdateUserField(deps.DB, userID, "prompt", message.Text); err != nil {
		deps.Logger.Error("Failed to store prompt", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	reply := tgbotapi.NewMessage(chatID, deps.I18n.T(nil, "prompt_saved_negative_choice"))
	reply.ReplyMarkup = negativeChoiceKeyboard(deps, false)
	deps.Bot.Send(reply)
}

// handlePendingInput dispatches a consumed continuation. On a parse
// failure the continuation is NOT re-registered: a second bad input falls
// through to new-prompt handling. Known rough edge, kept on purpose.
func handlePendingInput(kind PendingKind, message *tgbotapi.Message, deps BotDeps) {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch kind {
	case PendingCustomNegative:
		full := storage.DefaultNegativePrompt + ", " + message.Text
		if err := storage.UpdateUserField(deps.DB, userID, "negative_prompt", full); err != nil {
			deps.Logger.Error("Failed to store negative prompt", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		GenerateImage(userID, chatID, deps)

	case PendingSize:
		width, height, err := parseSizeInput(message.Text)
		if err != nil {
			replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "size_invalid"), deps)
			return
		}
		// Two independent writes, no cross-field transaction.
		if err := storage.UpdateUserField(deps.DB, userID, "width", width); err != nil {
			deps.Logger.Error("Failed to store width", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		if err := storage.UpdateUserField(deps.DB, userID, "height", height); err != nil {
			deps.Logger.Error("Failed to store height", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "size_confirm", "Width", width, "Height", height), deps)

	case PendingGuidance:
		guidance, err := parseGuidanceInput(message.Text)
		if err != nil {
			replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "guidance_invalid"), deps)
			return
		}
		if err := storage.UpdateUserField(deps.DB, userID, "guidance_scale", guidance); err != nil {
			deps.Logger.Error("Failed to store guidance scale", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		key := "guidance_confirm_precise"
		if guidance <= 5 {
			key = "guidance_confirm_creative"
		} else if guidance <= 10 {
			key = "guidance_confirm_balanced"
		}
		replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, key, "Guidance", formatFloat(guidance)), deps)

	case PendingSeed:
		seed, err := parseSeedInput(message.Text)
		if err != nil {
			replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "seed_invalid", "MaxSeed", int64(storage.MaxSeed)), deps)
			return
		}
		if err := storage.UpdateUserField(deps.DB, userID, "seed", seed); err != nil {
			deps.Logger.Error("Failed to store seed", zap.Error(err), zap.Int64("user_id", userID))
			return
		}
		if seed == storage.RandomSeed {
			replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "seed_confirm_random"), deps)
		} else {
			replyWithSettingsKeyboard(chatID, deps.I18n.T(nil, "seed_confirm", "Seed", seed), deps)
		}

	case PendingBroadcast:
		DoBroadcast(message, deps)
	}
}

func replyWithSettingsKeyboard(chatID int64, text string, deps BotDeps) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = settingsKeyboard(deps)
	deps.Bot.Send(reply)
}

func showUserSettings(userID, chatID int64, deps BotDeps) {
	user, err := storage.EnsureUser(deps.DB, userID, "")
	if err != nil {
		deps.Logger.Error("Failed to load user settings", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	prompt := user.Prompt
	if prompt == "" {
		prompt = deps.I18n.T(nil, "settings_prompt_unset")
	}
	negative := user.NegativePrompt
	if negative == "" {
		negative = deps.I18n.T(nil, "settings_negative_default")
	}
	style := user.Style
	if style == "" {
		style = deps.I18n.T(nil, "settings_style_unset")
	}
	seed := strconv.FormatInt(user.Seed, 10)
	if user.Seed == storage.RandomSeed {
		seed = deps.I18n.T(nil, "settings_seed_random")
	}

	text := deps.I18n.T(nil, "settings_text",
		"Prompt", prompt,
		"NegativePrompt", negative,
		"Style", style,
		"Width", user.Width,
		"Height", user.Height,
		"Guidance", formatFloat(user.GuidanceScale),
		"Seed", seed,
	)
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = settingsKeyboard(deps)
	deps.Bot.Send(reply)
}

func sendHelp(chatID int64, deps BotDeps) {
	text := deps.I18n.T(nil, "help_text",
		"MaxWidth", storage.MaxDimension,
		"MaxHeight", storage.MaxDimension,
		"MaxSeed", int64(storage.MaxSeed),
	)
	deps.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
