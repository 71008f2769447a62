package bot

import (
	"errors"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/captriphead/telegram-dalle-bot/internal/auth"
	"github.com/captriphead/telegram-dalle-bot/internal/config"
	"github.com/captriphead/telegram-dalle-bot/internal/i18n"
	"github.com/captriphead/telegram-dalle-bot/internal/storage"
	"github.com/captriphead/telegram-dalle-bot/pkg/dalleapi"
)

const testAdminID int64 = 42

// fakeMessenger records everything the handlers send. Chats listed in
// failChats reject sends, for broadcast failure tests.
type fakeMessenger struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	failChats map[int64]bool
	nextMsgID int
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if id, ok := chatIDOf(c); ok && f.failChats[id] {
		return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, c)
	f.nextMsgID++
	return tgbotapi.Message{MessageID: f.nextMsgID}, nil
}

func (f *fakeMessenger) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func chatIDOf(c tgbotapi.Chattable) (int64, bool) {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.ChatID, true
	case tgbotapi.PhotoConfig:
		return v.ChatID, true
	case tgbotapi.DocumentConfig:
		return v.ChatID, true
	case tgbotapi.EditMessageTextConfig:
		return v.ChatID, true
	}
	return 0, false
}

// sentTexts returns the plain-message texts in send order, ignoring
// photos, documents and edits.
func (f *fakeMessenger) sentTexts() []string {
	var texts []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (f *fakeMessenger) lastText(t *testing.T) string {
	t.Helper()
	texts := f.sentTexts()
	require.NotEmpty(t, texts, "expected at least one message to be sent")
	return texts[len(texts)-1]
}

type fakePredictor struct {
	calls   int
	lastReq dalleapi.PredictRequest
	resp    *dalleapi.PredictResponse
	err     error
}

func (f *fakePredictor) Predict(req dalleapi.PredictRequest) (*dalleapi.PredictResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestDeps(t *testing.T) (BotDeps, *fakeMessenger, *fakePredictor) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bot.db")
	require.NoError(t, storage.InitSchema(dbPath))
	db, err := storage.OpenDB(dbPath)
	require.NoError(t, err)

	translator, err := i18n.NewManager("en", zap.NewNop())
	require.NoError(t, err)

	messenger := &fakeMessenger{failChats: map[int64]bool{}}
	predictor := &fakePredictor{
		resp: &dalleapi.PredictResponse{
			Artifacts: []dalleapi.Artifact{{URL: "https://img.example/out-0.png"}},
			Seed:      1234,
		},
	}

	deps := BotDeps{
		Bot:          messenger,
		Dalle:        predictor,
		DB:           db,
		StateManager: NewStateManager(),
		Authorizer:   auth.NewAuthorizer(testAdminID),
		I18n:         translator,
		Logger:       zap.NewNop(),
		Config:       &config.Config{AdminID: testAdminID, DBPath: dbPath},
	}
	return deps, messenger, predictor
}

func textMessage(userID, chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "tester", FirstName: "Tess"},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}
}

func callbackFrom(userID, chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cbq-1",
		From: &tgbotapi.User{ID: userID, UserName: "tester"},
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
		Data: data,
	}
}

// seedPrompt stores a prompt so the user's settings become complete
// (every other field defaults at creation).
func seedPrompt(t *testing.T, deps BotDeps, userID int64, prompt string) {
	t.Helper()
	_, err := storage.EnsureUser(deps.DB, userID, "tester")
	require.NoError(t, err)
	require.NoError(t, storage.UpdateUserField(deps.DB, userID, "prompt", prompt))
}
