package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/links"
	"github.com/aaa474/ai-fitness-coach/internal/session"
)

// Sender 消息方
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message 对话转录中的一条消息
// Message is one entry in the conversation transcript.
type Message struct {
	Sender Sender
	Text   string
}

// Replier AI 对话调用面
type Replier interface {
	Chat(ctx context.Context, message, userEmail, language string) (string, error)
}

// Transcript 转录持久化；写入失败不影响对话
// Transcript persists messages. Failures are swallowed: persistence is
// best-effort and never surfaces in the conversation.
type Transcript interface {
	AppendMessage(account string, sender, body string) error
	ClearTranscript(account string) error
}

// Session 单次对话：乐观追加用户消息，回复到达后追加 AI 消息。
// 通过代次计数丢弃重置之前发出的迟到回复。
// Session holds one conversation. The user message is appended optimistically
// before the network call; a generation counter discards replies that resolve
// after a Reset.
type Session struct {
	replier  Replier
	sessions session.Source
	store    Transcript
	language string

	mu         sync.Mutex
	messages   []Message
	generation uint64
}

func NewSession(replier Replier, sessions session.Source, store Transcript, language string) *Session {
	return &Session{replier: replier, sessions: sessions, store: store, language: language}
}

// Messages 转录快照，按发生顺序
// Messages returns a snapshot of the transcript in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send 发送一条消息。空白输入不产生任何动作。
// 用户消息先行追加；邮箱在调用时取一次快照，之后不再读取。
// Send submits one message. Blank input is a no-op. The user message is
// appended before the request goes out, and the account email is snapshotted
// exactly once at call time.
func (s *Session) Send(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	email := api.AnonymousUser
	if sess := s.sessions.Session(); sess != nil {
		email = sess.Email
	}

	s.mu.Lock()
	gen := s.generation
	s.messages = append(s.messages, Message{Sender: SenderUser, Text: trimmed})
	s.mu.Unlock()
	s.persist(email, SenderUser, trimmed)

	reply, err := s.replier.Chat(ctx, trimmed, email, s.language)
	if err != nil {
		reply = replyForError(err)
	}

	s.mu.Lock()
	if s.generation != gen {
		// Conversation was reset while the request was in flight.
		s.mu.Unlock()
		return err
	}
	s.messages = append(s.messages, Message{Sender: SenderAI, Text: reply})
	s.mu.Unlock()
	s.persist(email, SenderAI, reply)
	return err
}

// Restore 恢复先前保存的转录；仅在当前转录为空时生效
// Restore seeds the transcript from prior persisted messages. It only applies
// while the current transcript is empty.
func (s *Session) Restore(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) > 0 {
		return
	}
	s.messages = append(s.messages, msgs...)
}

// Invalidate 清空内存转录并使在途回复失效；持久化副本保留。
// 用于登出或换号，使上一账号的对话不再出现在界面上。
// Invalidate clears the in-memory transcript and invalidates in-flight
// replies without touching the persisted copy. Used on sign-out and account
// switches so one account's conversation never bleeds into the next.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.messages = nil
	s.generation++
	s.mu.Unlock()
}

// Reset 清空转录并使在途回复失效；持久化副本一并清除
// Reset clears the transcript, invalidates in-flight replies, and drops the
// persisted copy for the current account.
func (s *Session) Reset() {
	email := api.AnonymousUser
	if sess := s.sessions.Session(); sess != nil {
		email = sess.Email
	}

	s.Invalidate()

	if s.store != nil {
		_ = s.store.ClearTranscript(email)
	}
}

// Links 提取最近一条 AI 消息中的链接；没有 AI 消息时返回 nil
// Links extracts links from the most recent AI message only.
func (s *Session) Links() []links.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == SenderAI {
			return links.Extract(s.messages[i].Text)
		}
	}
	return nil
}

func (s *Session) persist(account string, sender Sender, body string) {
	if s.store == nil {
		return
	}
	_ = s.store.AppendMessage(account, string(sender), body)
}

// 错误落入转录的文案：服务端消息原样呈现，传输失败用固定文案
func replyForError(err error) string {
	var serr *api.ServerError
	if errors.As(err, &serr) {
		return serr.Message
	}
	return "Failed to reach AI."
}
