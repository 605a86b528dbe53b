package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaa474/ai-fitness-coach/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutMS: 2000})
}

func TestChat_Reply(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path=%q", r.URL.Path)
		}
		decodeBody(t, r, &gotBody)
		w.Write([]byte(`{"reply":"Eat more protein."}`))
	})

	reply, err := c.Chat(context.Background(), "hi", "a@b.com", "English")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Eat more protein." {
		t.Fatalf("reply=%q", reply)
	}
	if gotBody["userEmail"] != "a@b.com" || gotBody["language"] != "English" {
		t.Fatalf("body=%v", gotBody)
	}
}

func TestChat_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Chat failed"}`))
	})

	_, err := c.Chat(context.Background(), "hi", AnonymousUser, "English")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected *ServerError, got %v", err)
	}
	if serverErr.Message != "Chat failed" {
		t.Fatalf("message=%q", serverErr.Message)
	}
}

func TestChat_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutMS: 500})
	_, err := c.Chat(context.Background(), "hi", AnonymousUser, "English")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		t.Fatalf("transport failure must not be a ServerError: %v", err)
	}
}

func TestTrackProgress_MessageVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Progress saved!"}`))
	})
	msg, err := c.TrackProgress(context.Background(), "a@b.com", 70, "leg day")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Progress saved!" {
		t.Fatalf("message=%q", msg)
	}
}

func TestProgress_ParsesEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries":[
			{"timestamp":"2026-08-20T08:30:00.123456","weight":81.5,"note":"run"},
			{"timestamp":"2026-08-21T08:30:00","weight":81.1,"note":""},
			{"timestamp":"not a time","weight":80,"note":"dropped"}
		]}`))
	})
	entries, err := c.Progress(context.Background(), "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries=%d, unparseable rows should be skipped", len(entries))
	}
	if entries[0].Weight != 81.5 || entries[0].Note != "run" {
		t.Fatalf("entry=%+v", entries[0])
	}
}

func TestDailyHistory_HTTPDateTimestamps(t *testing.T) {
	// Plain jsonify serializes datetimes as HTTP dates.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"history":[{"timestamp":"Fri, 28 Aug 2026 07:00:00 GMT","plan":"rest day"}]}`))
	})
	records, err := c.DailyHistory(context.Background(), "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Plan != "rest day" {
		t.Fatalf("records=%v", records)
	}
	if records[0].Timestamp.Year() != 2026 || records[0].Timestamp.Month() != time.August {
		t.Fatalf("timestamp=%v", records[0].Timestamp)
	}
}

func TestXP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"xp":35,"badges":["First Log","3-Day Streak"]}`))
	})
	sum, err := c.XP(context.Background(), "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if sum.XP != 35 || len(sum.Badges) != 2 {
		t.Fatalf("summary=%+v", sum)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []string{
		"2026-08-30T12:00:00Z",
		"2026-08-30T12:00:00.999999",
		"2026-08-30T12:00:00",
		"Sun, 30 Aug 2026 12:00:00 GMT",
	}
	for _, c := range cases {
		if _, err := parseTimestamp(c); err != nil {
			t.Errorf("parseTimestamp(%q): %v", c, err)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for junk timestamp")
	}
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}
