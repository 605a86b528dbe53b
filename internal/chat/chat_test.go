package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/session"
)

type fakeReplier struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	gotMsg  string
	gotUser string
	gotLang string
	started chan struct{}
	block   chan struct{}
}

func (f *fakeReplier) Chat(ctx context.Context, message, userEmail, language string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.gotMsg = message
	f.gotUser = userEmail
	f.gotLang = language
	started, block := f.started, f.block
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return f.reply, f.err
}

type fakeSource struct {
	session *session.Session
}

func (f *fakeSource) Session() *session.Session { return f.session }

type recordingTranscript struct {
	accounts []string
	senders  []string
	bodies   []string
	cleared  []string
	err      error
}

func (r *recordingTranscript) AppendMessage(account, sender, body string) error {
	r.accounts = append(r.accounts, account)
	r.senders = append(r.senders, sender)
	r.bodies = append(r.bodies, body)
	return r.err
}

func (r *recordingTranscript) ClearTranscript(account string) error {
	r.cleared = append(r.cleared, account)
	return r.err
}

func TestSend_AppendsUserThenReply(t *testing.T) {
	replier := &fakeReplier{reply: "Eat more protein."}
	s := NewSession(replier, &fakeSource{session: &session.Session{Email: "a@b.com"}}, nil, "English")

	if err := s.Send(context.Background(), "  what should I eat?  "); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[0].Text != "what should I eat?" {
		t.Fatalf("user message = %+v", msgs[0])
	}
	if msgs[1].Sender != SenderAI || msgs[1].Text != "Eat more protein." {
		t.Fatalf("ai message = %+v", msgs[1])
	}
	if replier.gotUser != "a@b.com" || replier.gotLang != "English" {
		t.Fatalf("call = (%q, %q)", replier.gotUser, replier.gotLang)
	}
}

func TestSend_BlankIsNoOp(t *testing.T) {
	replier := &fakeReplier{}
	s := NewSession(replier, &fakeSource{}, nil, "English")

	if err := s.Send(context.Background(), "   \t "); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if replier.calls != 0 {
		t.Fatalf("calls = %d, want 0", replier.calls)
	}
	if len(s.Messages()) != 0 {
		t.Fatal("transcript should stay empty")
	}
}

func TestSend_AnonymousWithoutSession(t *testing.T) {
	replier := &fakeReplier{reply: "hi"}
	s := NewSession(replier, &fakeSource{}, nil, "English")

	_ = s.Send(context.Background(), "hello")
	if replier.gotUser != api.AnonymousUser {
		t.Fatalf("user = %q, want %q", replier.gotUser, api.AnonymousUser)
	}
}

func TestSend_ServerErrorBecomesAIMessage(t *testing.T) {
	replier := &fakeReplier{err: &api.ServerError{Message: "Rate limit exceeded"}}
	s := NewSession(replier, &fakeSource{}, nil, "English")

	err := s.Send(context.Background(), "hello")
	var serr *api.ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *api.ServerError", err)
	}
	msgs := s.Messages()
	if msgs[1].Sender != SenderAI || msgs[1].Text != "Rate limit exceeded" {
		t.Fatalf("ai message = %+v, want server wording verbatim", msgs[1])
	}
}

func TestSend_TransportFailureFixedWording(t *testing.T) {
	replier := &fakeReplier{err: errors.New("dial tcp: connection refused")}
	s := NewSession(replier, &fakeSource{}, nil, "English")

	_ = s.Send(context.Background(), "hello")
	msgs := s.Messages()
	if msgs[1].Text != "Failed to reach AI." {
		t.Fatalf("ai message = %q, want fixed transport wording", msgs[1].Text)
	}
}

func TestReset_DiscardsInFlightReply(t *testing.T) {
	replier := &fakeReplier{
		reply:   "late reply",
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	s := NewSession(replier, &fakeSource{}, nil, "English")

	done := make(chan struct{})
	go func() {
		_ = s.Send(context.Background(), "hello")
		close(done)
	}()

	// Reset while the request is in flight; the late reply must be dropped.
	<-replier.started
	s.Reset()
	close(replier.block)
	<-done

	if got := s.Messages(); len(got) != 0 {
		t.Fatalf("transcript = %+v, want empty after reset", got)
	}
}

func TestInvalidate_DiscardsInFlightReplyKeepsStore(t *testing.T) {
	store := &recordingTranscript{}
	replier := &fakeReplier{
		reply:   "late reply",
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	s := NewSession(replier, &fakeSource{session: &session.Session{Email: "a@b.com"}}, store, "English")

	done := make(chan struct{})
	go func() {
		_ = s.Send(context.Background(), "hello")
		close(done)
	}()

	// Sign-out happens while the request is in flight; the stale reply must
	// never land and the persisted transcript stays intact.
	<-replier.started
	s.Invalidate()
	close(replier.block)
	<-done

	if got := s.Messages(); len(got) != 0 {
		t.Fatalf("transcript = %+v, want empty after invalidation", got)
	}
	if len(store.cleared) != 0 {
		t.Fatalf("cleared = %v, persisted transcript must survive invalidation", store.cleared)
	}
}

func TestLinks_LatestAIMessageOnly(t *testing.T) {
	replier := &fakeReplier{reply: "See [old](https://old.example)"}
	s := NewSession(replier, &fakeSource{}, nil, "English")
	_ = s.Send(context.Background(), "first")

	replier.reply = "Try [meal plan](https://new.example/plan)"
	_ = s.Send(context.Background(), "second")

	got := s.Links()
	if len(got) != 1 || got[0].URL != "https://new.example/plan" {
		t.Fatalf("links = %+v, want only the latest AI message's link", got)
	}
}

func TestLinks_NoAIMessages(t *testing.T) {
	s := NewSession(&fakeReplier{}, &fakeSource{}, nil, "English")
	if got := s.Links(); got != nil {
		t.Fatalf("links = %+v, want nil", got)
	}
}

func TestSend_PersistsBestEffort(t *testing.T) {
	store := &recordingTranscript{err: errors.New("disk full")}
	replier := &fakeReplier{reply: "ok"}
	s := NewSession(replier, &fakeSource{session: &session.Session{Email: "a@b.com"}}, store, "English")

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v, store failure must not surface", err)
	}
	if len(store.bodies) != 2 || store.senders[0] != "user" || store.senders[1] != "ai" {
		t.Fatalf("persisted = %v %v", store.senders, store.bodies)
	}
	if store.accounts[0] != "a@b.com" {
		t.Fatalf("account = %q", store.accounts[0])
	}
}

func TestRestore_SeedsEmptyTranscriptOnly(t *testing.T) {
	s := NewSession(&fakeReplier{reply: "ok"}, &fakeSource{}, nil, "English")
	s.Restore([]Message{
		{Sender: SenderUser, Text: "hi"},
		{Sender: SenderAI, Text: "hello"},
	})
	if got := s.Messages(); len(got) != 2 || got[1].Text != "hello" {
		t.Fatalf("transcript = %+v", got)
	}

	s.Restore([]Message{{Sender: SenderUser, Text: "late"}})
	if got := s.Messages(); len(got) != 2 {
		t.Fatalf("restore over a non-empty transcript must be a no-op, got %+v", got)
	}
}

func TestReset_ClearsPersistedTranscript(t *testing.T) {
	store := &recordingTranscript{}
	s := NewSession(&fakeReplier{reply: "ok"}, &fakeSource{session: &session.Session{Email: "a@b.com"}}, store, "English")
	_ = s.Send(context.Background(), "hello")

	s.Reset()
	if len(store.cleared) != 1 || store.cleared[0] != "a@b.com" {
		t.Fatalf("cleared = %v, want the signed-in account", store.cleared)
	}
}
