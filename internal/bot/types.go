package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/captriphead/telegram-dalle-bot/internal/auth"
	cfg "github.com/captriphead/telegram-dalle-bot/internal/config"
	"github.com/captriphead/telegram-dalle-bot/internal/i18n"
	"github.com/captriphead/telegram-dalle-bot/pkg/dalleapi"
)

// Messenger is the slice of the Telegram API surface the handlers use.
// *tgbotapi.BotAPI satisfies it.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Predictor is the prediction-service boundary. *dalleapi.Client
// satisfies it.
type Predictor interface {
	Predict(req dalleapi.PredictRequest) (*dalleapi.PredictResponse, error)
}

// BotDeps holds the dependencies required by the bot handlers.
type BotDeps struct {
	Bot          Messenger
	Dalle        Predictor
	DB           *gorm.DB
	StateManager *StateManager
	Authorizer   *auth.Authorizer
	I18n         *i18n.Manager
	Logger       *zap.Logger
	Config       *cfg.Config
	Version      string
	BuildDate    string
}
