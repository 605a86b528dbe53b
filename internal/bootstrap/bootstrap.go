package bootstrap

import (
	"fmt"
	"path/filepath"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/auth"
	"github.com/aaa474/ai-fitness-coach/internal/chat"
	"github.com/aaa474/ai-fitness-coach/internal/config"
	"github.com/aaa474/ai-fitness-coach/internal/i18n"
	"github.com/aaa474/ai-fitness-coach/internal/plan"
	"github.com/aaa474/ai-fitness-coach/internal/progress"
	"github.com/aaa474/ai-fitness-coach/internal/session"
	"github.com/aaa474/ai-fitness-coach/internal/storage"
)

// BuildResult 与 UI 无关的构建结果，供 main 构造 TUI 或 REPL
// BuildResult is UI-agnostic; main uses it to construct the TUI or REPL.
type BuildResult struct {
	Store     storage.Store
	Provider  auth.Provider
	Monitor   *session.Monitor
	API       *api.Client
	Chat      *chat.Session
	Progress  *progress.Store
	Generator *plan.Generator
	Daily     *plan.Daily
	Theme     string
	Language  string
	DataDir   string
}

// Build 按依赖顺序初始化；调用方负责 defer result.Store.Close() 和
// result.Monitor.Stop()。
// Build wires components in dependency order. The caller must defer
// result.Store.Close() and result.Monitor.Stop().
func Build(cfg config.Config, router session.Router) (*BuildResult, error) {
	dbPath := filepath.Join(cfg.Storage.BaseDir, "coach.db")
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// 本地偏好覆盖配置缺省
	prefs, prefErr := store.LoadPreferences()
	if prefErr != nil {
		prefs = storage.Preferences{Theme: cfg.UI.Theme, Language: cfg.UI.Language}
	}
	theme, language := cfg.UI.Theme, cfg.UI.Language
	if prefs.Theme != "" {
		theme = prefs.Theme
	}
	if prefs.Language != "" {
		language = prefs.Language
	}
	i18n.Init(i18n.DetectLocale())

	provider := auth.NewHTTPProvider(cfg.Auth)
	monitor := session.NewMonitor(provider, router)

	client := api.NewClient(cfg.API)
	chatSession := chat.NewSession(client, monitor, store, language)
	if prefs.LastEmail != "" {
		if rows, loadErr := store.LoadTranscript(prefs.LastEmail); loadErr == nil {
			chatSession.Restore(transcriptMessages(rows))
		}
	}

	// 登出或换号时清空内存中的对话，避免上一账号的转录泄露给下一账号。
	// 启动时 Subscribe 会立即送达一次 nil，此时不应清掉刚恢复的转录。
	// Sign-out and account switches wipe the in-memory conversation so one
	// account's transcript is never shown to the next. The initial nil the
	// provider delivers at startup must not wipe the restored transcript.
	signedIn := false
	monitor.OnSession(func(s *session.Session) {
		if s == nil {
			if signedIn {
				chatSession.Invalidate()
			}
			signedIn = false
			return
		}
		if prefs.LastEmail != "" && prefs.LastEmail != s.Email {
			chatSession.Invalidate()
		}
		signedIn = true
		prefs.LastEmail = s.Email
		_ = store.SavePreferences(prefs)
	})
	progressStore := progress.NewStore(client, monitor)
	generator := plan.NewGenerator(client, monitor)
	daily := plan.NewDaily(client)

	return &BuildResult{
		Store:     store,
		Provider:  provider,
		Monitor:   monitor,
		API:       client,
		Chat:      chatSession,
		Progress:  progressStore,
		Generator: generator,
		Daily:     daily,
		Theme:     theme,
		Language:  language,
		DataDir:   cfg.Storage.BaseDir,
	}, nil
}

func transcriptMessages(rows []storage.TranscriptRow) []chat.Message {
	msgs := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, chat.Message{Sender: chat.Sender(row.Sender), Text: row.Body})
	}
	return msgs
}
