package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaa474/ai-fitness-coach/internal/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPProvider(config.AuthConfig{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestSignIn_NotifiesSubscribers(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@b.com","idToken":"tok"}`))
	})

	var events []*Principal
	unsubscribe := p.Subscribe(func(pr *Principal) { events = append(events, pr) })
	defer unsubscribe()

	if err := p.SignIn(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	// initial nil delivery + sign-in delivery
	if len(events) != 2 {
		t.Fatalf("events=%d", len(events))
	}
	if events[0] != nil {
		t.Fatalf("initial event should be nil, got %v", events[0])
	}
	if events[1] == nil || events[1].Email != "a@b.com" {
		t.Fatalf("sign-in event=%v", events[1])
	}
}

func TestSignIn_ProviderMessagePassedThrough(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
	})

	err := p.SignIn(context.Background(), "a@b.com", "wrong")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if authErr.Message != "INVALID_PASSWORD" {
		t.Fatalf("message=%q, must be provider wording unmodified", authErr.Message)
	}
}

func TestSignUp_LocalChecksBeforeNetwork(t *testing.T) {
	called := false
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	cases := []struct {
		email, pass, want string
	}{
		{"bademail", "longenough", "Please enter a valid email."},
		{"a@b.com", "short", "Password must be at least 6 characters."},
	}
	for _, c := range cases {
		err := p.SignUp(context.Background(), c.email, c.pass)
		var authErr *AuthError
		if !errors.As(err, &authErr) || authErr.Message != c.want {
			t.Errorf("SignUp(%q, %q) = %v, want %q", c.email, c.pass, err, c.want)
		}
	}
	if called {
		t.Fatal("local validation failures must not reach the network")
	}
}

func TestSignOut_DeliversAbsence(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@b.com","idToken":"tok"}`))
	})
	if err := p.SignIn(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	var last *Principal
	set := false
	unsubscribe := p.Subscribe(func(pr *Principal) { last, set = pr, true })
	defer unsubscribe()

	if !set || last == nil {
		t.Fatal("subscriber should see the signed-in principal immediately")
	}
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if last != nil {
		t.Fatalf("after sign-out last=%v", last)
	}
	if p.Current() != nil {
		t.Fatal("Current should be nil after sign-out")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@b.com","idToken":"tok"}`))
	})
	count := 0
	unsubscribe := p.Subscribe(func(pr *Principal) { count++ })
	unsubscribe()
	unsubscribe() // second call is a no-op

	if err := p.SignIn(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count=%d, only the initial delivery should have happened", count)
	}
}
