package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, chatHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/botsecret/getMe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"username":"lookupbot"}}`))
	})
	mux.HandleFunc("/botsecret/getChat", chatHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenSession_ResolveTitle(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("chat_id"); got != "@leakchannel" {
			t.Errorf("chat_id = %q, want @leakchannel", got)
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":-1001234,"title":"Leak Channel"}}`))
	})

	c := NewClient(srv.Client(), srv.URL, "secret")
	session, err := c.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	defer session.Close()

	title, err := session.ResolveTitle(context.Background(), "https://t.me/leakchannel")
	if err != nil {
		t.Fatalf("ResolveTitle() error = %v", err)
	}
	if title != "Leak Channel" {
		t.Fatalf("title = %q, want Leak Channel", title)
	}
}

func TestResolveTitle_UnknownEntity(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	})

	c := NewClient(srv.Client(), srv.URL, "secret")
	session, err := c.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	defer session.Close()

	if _, err := session.ResolveTitle(context.Background(), "https://t.me/ghost"); err == nil {
		t.Fatalf("ResolveTitle() error = nil, want chat-not-found")
	}
}

func TestResolveTitle_RejectsNonChannelURL(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("getChat must not be called for a non-channel url")
	})

	c := NewClient(srv.Client(), srv.URL, "secret")
	session, err := c.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	defer session.Close()

	_, err = session.ResolveTitle(context.Background(), "https://example.com/leakchannel")
	if err == nil || !strings.Contains(err.Error(), "not a channel link") {
		t.Fatalf("ResolveTitle() error = %v, want not-a-channel-link", err)
	}
}

func TestOpenSession_MissingToken(t *testing.T) {
	c := NewClient(nil, "", "")
	if _, err := c.OpenSession(context.Background()); err == nil {
		t.Fatalf("OpenSession() error = nil, want missing token")
	}
}

func TestUsernameFromChannelURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://t.me/leakchannel", want: "leakchannel"},
		{in: "https://t.me/leakchannel/42", want: "leakchannel"},
		{in: "https://t.me/leakchannel?start=x", want: "leakchannel"},
		{in: "https://t.me/", wantErr: true},
		{in: "chat_id:200", wantErr: true},
	}
	for _, tc := range cases {
		got, err := usernameFromChannelURL(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("usernameFromChannelURL(%q) error = nil, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("usernameFromChannelURL(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("usernameFromChannelURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
