package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Styles is the fixed style set offered by the DALLE-4K space. The value
// rides in the callback data verbatim.
var Styles = []string{
	"3840 x 2160",
	"2560 x 1440",
	"Photo",
	"Cinematic",
	"Anime",
	"3D Model",
	"(No style)",
}

func mainMenuKeyboard(deps BotDeps) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_create_image"), cbDataCreateImage)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_settings"), cbDataSettings)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_help"), cbDataHelp)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_random_prompt"), cbDataRandomPrompt)),
	)
}

func settingsKeyboard(deps BotDeps) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_style"), cbDataSetStyle)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_size"), cbDataSetSize)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_guidance"), cbDataSetGuidance)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_seed"), cbDataSetSeed)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_back_main"), cbDataMainMenu)),
	)
}

func styleKeyboard(deps BotDeps) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, style := range Styles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(style, cbPrefixStyle+style),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_back"), cbDataSettings),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func randomPromptKeyboard(deps BotDeps) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_generate"), cbDataGenerateRandom)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_generation_settings"), cbDataSettings)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_another_prompt"), cbDataAnotherRandom)),
	)
}

// negativeChoiceKeyboard offers default vs custom negative prompt. The
// random variant uses distinct callback data so the intent set mirrors the
// two entry paths.
func negativeChoiceKeyboard(deps BotDeps, random bool) tgbotapi.InlineKeyboardMarkup {
	useDefault := cbDataUseDefaultNegative
	addCustom := cbDataAddCustomNegative
	if random {
		useDefault = cbDataUseDefaultNegativeRandom
		addCustom = cbDataAddCustomNegativeRandom
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_use_default"), useDefault)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_add_custom"), addCustom)),
	)
}

func retryKeyboard(deps BotDeps) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_try_again"), cbDataRetryGeneration)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(deps.I18n.T(nil, "btn_adjust_settings"), cbDataMySettings)),
	)
}
