package tui

import (
	"sync"

	"github.com/aaa474/ai-fitness-coach/internal/session"
)

// NavigateMsg 路由跳转事件，投递进 Bubble Tea 事件循环
// NavigateMsg is a route change delivered into the Bubble Tea loop.
type NavigateMsg struct {
	To session.Route
}

// Router 把会话监控器的导航决策桥接到 TUI 程序
// Router bridges the session monitor's navigation decisions into the running
// program. Current reflects the route the policy should judge against even
// before the program processes the queued NavigateMsg.
type Router struct {
	mu      sync.Mutex
	current session.Route
	send    func(msg any)
}

func NewRouter() *Router {
	return &Router{current: session.RouteLanding}
}

// Attach 绑定运行中的程序；之后的跳转会被投递为消息
// Attach binds the running program. Later navigations are posted as messages.
func (r *Router) Attach(send func(msg any)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

func (r *Router) Current() session.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(to session.Route) {
	r.mu.Lock()
	r.current = to
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(NavigateMsg{To: to})
	}
}
