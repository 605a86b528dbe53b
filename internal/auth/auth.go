package auth

import "context"

// Principal 身份提供商报告的已认证主体
// Principal is the authenticated identity reported by the provider.
type Principal struct {
	Email string
}

// Handler 会话变更回调；principal 为 nil 表示无认证主体
// Handler receives session-change events; a nil principal means signed out.
type Handler func(p *Principal)

// Provider 身份提供商能力面：登录、注册、联合登录、登出、会话变更订阅
// Provider is the identity capability surface the rest of the client
// consumes. Implementations must deliver the current principal (or its
// absence) to every subscribed handler on each state change.
type Provider interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignInWithGoogle(ctx context.Context) error
	SignOut(ctx context.Context) error
	// Subscribe 注册回调并返回确定性的注销函数
	// Subscribe registers a handler and returns a deterministic unsubscribe.
	Subscribe(h Handler) (unsubscribe func())
}

// AuthError 身份提供商拒绝操作；Message 为提供商原文，原样展示
// AuthError is a provider rejection. Message carries the provider's own
// wording and is surfaced unmodified.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
