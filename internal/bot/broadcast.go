package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
)

// BroadcastReport counts the outcome of one broadcast run.
type BroadcastReport struct {
	Delivered int
	Failed    int
}

// DoBroadcast fans the admin's message (text, or photo with caption) out
// to every known user. Per-recipient failures are counted and logged but
// never stop the run. The report is sent back to the admin's chat.
func DoBroadcast(message *tgbotapi.Message, deps BotDeps) BroadcastReport {
	var report BroadcastReport

	// Re-checked here, not just at the /broadcast command: no caller may
	// fan a message out on behalf of a non-admin.
	if message.From == nil || !deps.Authorizer.IsAdmin(message.From.ID) {
		deps.Logger.Warn("Broadcast attempt by non-admin", zap.Any("from", message.From))
		deps.Bot.Send(tgbotapi.NewMessage(message.Chat.ID, deps.I18n.T(nil, "broadcast_denied")))
		return report
	}

	ids, err := storage.ListUserIDs(deps.DB)
	if err != nil {
		deps.Logger.Error("Failed to list broadcast recipients", zap.Error(err))
		return report
	}

	for _, id := range ids {
		var out tgbotapi.Chattable
		switch {
		case len(message.Photo) > 0:
			// Largest rendition is last in the slice.
			photo := tgbotapi.NewPhoto(id, tgbotapi.FileID(message.Photo[len(message.Photo)-1].FileID))
			photo.Caption = message.Caption
			out = photo
		case message.Text != "":
			out = tgbotapi.NewMessage(id, message.Text)
		default:
			continue
		}

		if _, err := deps.Bot.Send(out); err != nil {
			report.Failed++
			deps.Logger.Warn("Broadcast delivery failed", zap.Error(err), zap.Int64("recipient", id))
			continue
		}
		report.Delivered++
	}

	deps.Logger.Info("Broadcast finished",
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed))

	deps.Bot.Send(tgbotapi.NewMessage(message.Chat.ID, deps.I18n.T(nil, "broadcast_report",
		"Delivered", report.Delivered,
		"Failed", report.Failed,
	)))

	return report
}
