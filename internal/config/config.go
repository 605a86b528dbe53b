package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// APIConfig 教练后端 HTTP 配置
// APIConfig configures the coaching backend HTTP client.
type APIConfig struct {
	BaseURL   string `json:"base_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// AuthConfig 身份提供商配置
// AuthConfig configures the identity provider adapter.
type AuthConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	// GoogleIDToken 联合登录使用的预取 Google ID token（终端无浏览器弹窗）
	// GoogleIDToken is a pre-obtained Google ID token for federated sign-in
	// (a terminal has no popup flow).
	GoogleIDToken string `json:"google_id_token"`
}

// UIConfig 界面默认项；主题偏好持久化在本地存储，这里只是初始值
// UIConfig holds UI defaults. The theme preference persists in local storage;
// this is only the initial value before any preference is saved.
type UIConfig struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
}

type Config struct {
	API     APIConfig     `json:"api"`
	Auth    AuthConfig    `json:"auth"`
	UI      UIConfig      `json:"ui"`
	Storage StorageConfig `json:"storage"`
}

type fileConfig struct {
	API     *APIConfig     `json:"api"`
	Auth    *AuthConfig    `json:"auth"`
	UI      *UIConfig      `json:"ui"`
	Storage *StorageConfig `json:"storage"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000",
			TimeoutMS: 60000,
		},
		Auth: AuthConfig{
			BaseURL: "https://identitytoolkit.googleapis.com",
		},
		UI: UIConfig{
			Theme:    "dark",
			Language: "English",
		},
		Storage: StorageConfig{
			BaseDir: "~/.coach",
		},
	}
}

// Load 加载配置：默认值 → 全局文件 → 项目文件 → 环境变量
// Load layers config: defaults, then global file, then project file, then env.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("COACH_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".coach", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"coach.config.json",
		".coach/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.API != nil {
		cfg.API = mergeAPI(cfg.API, *fc.API)
	}
	if fc.Auth != nil {
		cfg.Auth = mergeAuth(cfg.Auth, *fc.Auth)
	}
	if fc.UI != nil {
		cfg.UI = mergeUI(cfg.UI, *fc.UI)
	}
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
}

func mergeAPI(base, override APIConfig) APIConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func mergeAuth(base, override AuthConfig) AuthConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if strings.TrimSpace(override.GoogleIDToken) != "" {
		base.GoogleIDToken = override.GoogleIDToken
	}
	return base
}

func mergeUI(base, override UIConfig) UIConfig {
	if strings.TrimSpace(override.Theme) != "" {
		base.Theme = override.Theme
	}
	if strings.TrimSpace(override.Language) != "" {
		base.Language = override.Language
	}
	return base
}

func mergeStorage(base, override StorageConfig) StorageConfig {
	if strings.TrimSpace(override.BaseDir) != "" {
		base.BaseDir = override.BaseDir
	}
	return base
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = Default().API.BaseURL
	}
	if cfg.API.TimeoutMS <= 0 {
		cfg.API.TimeoutMS = Default().API.TimeoutMS
	}
	if strings.TrimSpace(cfg.Auth.BaseURL) == "" {
		cfg.Auth.BaseURL = Default().Auth.BaseURL
	}
	switch strings.ToLower(strings.TrimSpace(cfg.UI.Theme)) {
	case "light":
		cfg.UI.Theme = "light"
	default:
		cfg.UI.Theme = "dark"
	}
	if strings.TrimSpace(cfg.UI.Language) == "" {
		cfg.UI.Language = Default().UI.Language
	}

	storageDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if storageDir == "" {
		storageDir, err = expandPath(Default().Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = storageDir
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("COACH_API_BASE")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("COACH_API_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid COACH_API_TIMEOUT_MS: %q", v)
		}
		cfg.API.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("COACH_AUTH_BASE")); v != "" {
		cfg.Auth.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("COACH_AUTH_KEY")); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("COACH_LANG")); v != "" {
		cfg.UI.Language = v
	}
	if v := strings.TrimSpace(os.Getenv("COACH_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}

	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
