package auth

import "sync"

// notifier 管理会话变更订阅；订阅与注销都是确定性的
// notifier manages session-change subscriptions with deterministic
// unsubscribe semantics.
type notifier struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
}

func newNotifier() *notifier {
	return &notifier{handlers: make(map[int]Handler)}
}

func (n *notifier) subscribe(h Handler) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = h
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) emit(p *Principal) {
	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(p)
	}
}
