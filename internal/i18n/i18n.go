package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed all:locales
var localeFS embed.FS

// Manager owns the message bundle and a localizer per loaded language.
type Manager struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *zap.Logger
	localizers      map[string]*i18n.Localizer
}

// NewManager loads every locales/*.toml message file from the embedded FS.
func NewManager(defaultLang string, logger *zap.Logger) (*Manager, error) {
	defaultTag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language tag %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	m := &Manager{
		bundle:          bundle,
		defaultLanguage: defaultTag,
		logger:          logger.Named("i18n"),
		localizers:      make(map[string]*i18n.Localizer),
	}

	if err := m.loadTranslations(); err != nil {
		return nil, err
	}

	if _, ok := m.localizers[defaultTag.String()]; !ok {
		m.localizers[defaultTag.String()] = i18n.NewLocalizer(m.bundle, defaultTag.String())
	}

	m.logger.Info("i18n manager initialized",
		zap.String("default_language", defaultLang),
		zap.Int("loaded_languages", len(m.localizers)),
	)
	return m, nil
}

func (m *Manager) loadTranslations() error {
	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales directory: %w", err)
	}

	loaded := 0
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || filepath.Ext(name) != ".toml" {
			continue
		}
		if _, err := m.bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			m.logger.Warn("failed to load translation file", zap.String("file", name), zap.Error(err))
			continue
		}
		// filenames look like active.en.toml; the language code is the
		// second-to-last dot segment
		base := name[:len(name)-len(".toml")]
		langCode := base
		if ext := filepath.Ext(base); ext != "" {
			langCode = ext[1:]
		}
		m.localizers[langCode] = i18n.NewLocalizer(m.bundle, langCode)
		loaded++
	}

	if loaded == 0 {
		return errors.New("no valid translation files loaded")
	}
	return nil
}

// T translates the message identified by key. Args are alternating
// template key/value pairs, e.g. T(nil, "welcome_back", "Name", name).
// A nil or unknown lang falls back to the default language.
func (m *Manager) T(lang *string, key string, args ...interface{}) string {
	langCode := m.defaultLanguage.String()
	if lang != nil && *lang != "" {
		langCode = *lang
	}

	localizer, ok := m.localizers[langCode]
	if !ok {
		localizer = m.localizers[m.defaultLanguage.String()]
		if localizer == nil {
			return key
		}
	}

	templateData := make(map[string]interface{})
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			m.logger.Warn("non-string template key in T", zap.String("key", key))
			continue
		}
		templateData[k] = args[i+1]
	}

	cfg := &i18n.LocalizeConfig{MessageID: key}
	if len(templateData) > 0 {
		cfg.TemplateData = templateData
	}

	localized, err := localizer.Localize(cfg)
	if err != nil {
		m.logger.Warn("failed to localize message", zap.String("key", key), zap.String("lang", langCode), zap.Error(err))
		return key
	}
	return localized
}
