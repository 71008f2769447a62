package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/captriphead/telegram-dalle-bot/internal/auth"
	"github.com/captriphead/telegram-dalle-bot/internal/config"
	"github.com/captriphead/telegram-dalle-bot/internal/i18n"
	"github.com/captriphead/telegram-dalle-bot/internal/logger"
	"github.com/captriphead/telegram-dalle-bot/internal/storage"
	"github.com/captriphead/telegram-dalle-bot/pkg/dalleapi"
)

const restartBackoff = 30 * time.Second

// StartBot wires everything up and runs update sessions forever. A session
// crash is logged and a fresh session starts after a backoff; schema setup
// is idempotent so re-running it on restart is safe.
func StartBot(cfg *config.Config, version, buildDate string) error {
	log, err := logger.InitLogger(cfg.LogConfig.Level, cfg.LogConfig.Format, cfg.LogConfig.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, log.Named("i18n"))
	if err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}

	deps := BotDeps{
		Dalle:        dalleapi.NewClient(cfg.PredictEndpoint, log.Named("dalleapi")),
		StateManager: NewStateManager(),
		Authorizer:   auth.NewAuthorizer(cfg.AdminID),
		I18n:         i18nManager,
		Logger:       log.Named("bot"),
		Config:       cfg,
		Version:      version,
		BuildDate:    buildDate,
	}

	for {
		if err := runSession(&deps); err != nil {
			log.Error("Update session terminated, restarting", zap.Error(err), zap.Duration("backoff", restartBackoff))
			time.Sleep(restartBackoff)
		}
	}
}

// runSession owns one lifetime of the telegram connection. The BotAPI's
// shutdown channel can only close once, so the instance never outlives its
// session; the next session authorizes from scratch.
func runSession(deps *BotDeps) error {
	api, err := tgbotapi.NewBotAPI(deps.Config.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create bot api: %w", err)
	}
	defer api.StopReceivingUpdates()

	deps.Logger.Info("Authorized on telegram", zap.String("account", api.Self.UserName))

	if err := setBotCommands(api, deps.I18n); err != nil {
		deps.Logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	return runLoop(api, deps)
}

// runLoop opens the session's database handle and drains the update
// channel synchronously. A panic anywhere in dispatch surfaces here as the
// returned error; the handle is closed on the way out either way.
func runLoop(api *tgbotapi.BotAPI, deps *BotDeps) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update loop panicked: %v", r)
		}
	}()

	if err := storage.InitSchema(deps.Config.DBPath); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	db, err := storage.OpenDB(deps.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeDB(db, deps.Logger)
	deps.Bot = api
	deps.DB = db

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	deps.Logger.Info("Update loop started")

	// Updates are handled one at a time. Generation blocks the loop on
	// purpose: the upstream service is single-queue anyway.
	for update := range updates {
		HandleUpdate(update, *deps)
	}
	return nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("Failed to access sql.DB for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Failed to close database pool", zap.Error(err))
	}
}

func setBotCommands(api *tgbotapi.BotAPI, m *i18n.Manager) error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: m.T(nil, "command_desc_start")},
		{Command: "help", Description: m.T(nil, "command_desc_help")},
		{Command: "random", Description: m.T(nil, "command_desc_random")},
		{Command: "generate", Description: m.T(nil, "command_desc_generate")},
		{Command: "settings", Description: m.T(nil, "command_desc_settings")},
		{Command: "stats", Description: m.T(nil, "command_desc_stats")},
		{Command: "broadcast", Description: m.T(nil, "command_desc_broadcast")},
	}
	_, err := api.Request(tgbotapi.NewSetMyCommands(commands...))
	return err
}
