package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aaa474/ai-fitness-coach/internal/config"
)

// HTTPProvider 针对 Identity Toolkit 风格 REST 接口的适配器
// HTTPProvider adapts the Provider capability to an Identity Toolkit style
// REST surface. Provider rejections come back as *AuthError carrying the
// provider's message text unmodified.
type HTTPProvider struct {
	baseURL       string
	apiKey        string
	googleIDToken string
	httpClient    *http.Client

	notifier *notifier

	mu      sync.Mutex
	current *Principal
	idToken string
}

// NewHTTPProvider 创建身份提供商适配器
// NewHTTPProvider creates the identity provider adapter.
func NewHTTPProvider(cfg config.AuthConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		googleIDToken: cfg.GoogleIDToken,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		notifier:      newNotifier(),
	}
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) error {
	principal, token, err := p.credentialCall(ctx, "/v1/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return err
	}
	p.setCurrent(principal, token)
	return nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) error {
	// 本地前置检查沿用提供商之外的固定文案
	// Local pre-checks happen before any provider call.
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return &AuthError{Message: "Please enter a valid email."}
	}
	if len(password) < 6 {
		return &AuthError{Message: "Password must be at least 6 characters."}
	}

	principal, token, err := p.credentialCall(ctx, "/v1/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return err
	}
	p.setCurrent(principal, token)
	return nil
}

func (p *HTTPProvider) SignInWithGoogle(ctx context.Context) error {
	if strings.TrimSpace(p.googleIDToken) == "" {
		return &AuthError{Message: "Google sign-in requires auth.google_id_token in config."}
	}
	principal, token, err := p.credentialCall(ctx, "/v1/accounts:signInWithIdp", map[string]any{
		"postBody":            "id_token=" + p.googleIDToken + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
	if err != nil {
		return err
	}
	p.setCurrent(principal, token)
	return nil
}

// SignOut 清除本地令牌并广播无主体；没有服务端调用可失败
// SignOut clears the local token and broadcasts absence. Token revocation is
// client-local for this provider, so there is no remote call to fail.
func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.setCurrent(nil, "")
	return nil
}

func (p *HTTPProvider) Subscribe(h Handler) func() {
	unsubscribe := p.notifier.subscribe(h)
	// 立即投递当前状态，订阅者无需等待下一次变更
	// Deliver the current state immediately so subscribers need not wait for
	// the next change.
	h(p.Current())
	return unsubscribe
}

// Current 返回当前主体快照，未登录为 nil
// Current returns a snapshot of the current principal, nil when signed out.
func (p *HTTPProvider) Current() *Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

func (p *HTTPProvider) setCurrent(principal *Principal, token string) {
	p.mu.Lock()
	p.current = principal
	p.idToken = token
	p.mu.Unlock()
	p.notifier.emit(principal)
}

func (p *HTTPProvider) credentialCall(ctx context.Context, path string, body map[string]any) (*Principal, string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal auth request: %w", err)
	}

	url := p.baseURL + path
	if p.apiKey != "" {
		url += "?key=" + p.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read auth response: %w", err)
	}

	var out struct {
		Email   string `json:"email"`
		IDToken string `json:"idToken"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, "", fmt.Errorf("parse auth response: status=%d: %w", resp.StatusCode, err)
	}
	if out.Error.Message != "" {
		return nil, "", &AuthError{Message: out.Error.Message}
	}
	if out.Email == "" {
		return nil, "", fmt.Errorf("auth response missing email: status=%d", resp.StatusCode)
	}
	return &Principal{Email: out.Email}, out.IDToken, nil
}
