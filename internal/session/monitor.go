package session

import (
	"context"
	"sync"

	"github.com/aaa474/ai-fitness-coach/internal/auth"
)

// Route 客户端内部导航位置
// Route is an in-client navigation location.
type Route string

const (
	RouteLanding   Route = "/"
	RouteAuth      Route = "/auth"
	RouteDashboard Route = "/dashboard"
	RoutePlanForm  Route = "/plan"
	RouteDaily     Route = "/daily"
	RouteProgress  Route = "/progress"
	RoutePlans     Route = "/plans"
	RouteTimeline  Route = "/timeline"
)

// Router 导航能力面；策略在事件发生时读取当前路由
// Router is the navigation surface. The gating policy reads Current at the
// moment a session event arrives.
type Router interface {
	Current() Route
	Navigate(r Route)
}

// Session 当前已认证主体的本地表示
// Session is the locally held representation of the authenticated principal.
type Session struct {
	Email string
}

// Source 会话只读来源；Monitor 之外的组件通过它取会话快照
// Source is the read-only session view handed to every other component.
type Source interface {
	// Session 返回当前会话快照；未登录返回 nil
	// Session returns a snapshot of the current session, nil when absent.
	Session() *Session
}

// Monitor 根编排器：订阅身份提供商的会话流并执行路由门禁策略
// Monitor is the root orchestrator. It owns the single process-wide Session,
// subscribes once to the provider's session-change stream, and enforces the
// route-gating policy. All other components read session state through it.
type Monitor struct {
	provider auth.Provider
	router   Router

	mu          sync.Mutex
	session     *Session
	unsubscribe func()
	onSession   func(*Session)
}

func NewMonitor(provider auth.Provider, router Router) *Monitor {
	return &Monitor{provider: provider, router: router}
}

// OnSession 注册会话变更的附加观察者，在 Start 之前调用。
// 登出时以 nil 调用。
// OnSession registers an extra observer for session changes. Set it before
// Start. The observer receives nil on sign-out.
func (m *Monitor) OnSession(fn func(*Session)) {
	m.mu.Lock()
	m.onSession = fn
	m.mu.Unlock()
}

// Start 建立唯一订阅；重复调用无效果
// Start establishes the single provider subscription. Calling it again while
// started has no effect.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.unsubscribe != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	unsubscribe := m.provider.Subscribe(m.handleChange)
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

// Stop 注销订阅，应在进程收尾时调用
// Stop releases the subscription; call on application teardown.
func (m *Monitor) Stop() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Session 当前会话快照；其他组件在发起请求时取一次快照，不重复读取
// Session returns a snapshot of the current session. Callers take the
// snapshot once per request and never re-read it after resumption.
func (m *Monitor) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

// SignIn 透传给身份提供商；会话变更经订阅回调到达
// SignIn delegates to the provider. The session change arrives through the
// subscription, never synchronously here.
func (m *Monitor) SignIn(ctx context.Context, email, password string) error {
	return m.provider.SignIn(ctx, email, password)
}

// SignUp 透传给身份提供商
func (m *Monitor) SignUp(ctx context.Context, email, password string) error {
	return m.provider.SignUp(ctx, email, password)
}

// SignInWithGoogle 透传给身份提供商
func (m *Monitor) SignInWithGoogle(ctx context.Context) error {
	return m.provider.SignInWithGoogle(ctx)
}

// SignOut 显式登出：调用提供商、清除本地会话、导航到认证页
// SignOut invokes the provider sign-out, clears the local session, and
// navigates to the auth route. A provider failure is returned untouched.
func (m *Monitor) SignOut(ctx context.Context) error {
	err := m.provider.SignOut(ctx)

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	m.router.Navigate(RouteAuth)
	return err
}

// 策略：有主体且在认证页 → 进入仪表盘；无主体且不在落地页/认证页 → 回认证页
// Policy: principal present and sitting on the auth route -> dashboard;
// principal absent and outside landing/auth -> auth. No other transition is
// forced.
func (m *Monitor) handleChange(p *auth.Principal) {
	m.mu.Lock()
	if p != nil {
		m.session = &Session{Email: p.Email}
	} else {
		m.session = nil
	}
	observer := m.onSession
	m.mu.Unlock()

	if observer != nil {
		observer(m.Session())
	}

	current := m.router.Current()
	switch {
	case p != nil && current == RouteAuth:
		m.router.Navigate(RouteDashboard)
	case p == nil && current != RouteLanding && current != RouteAuth:
		m.router.Navigate(RouteAuth)
	}
}
