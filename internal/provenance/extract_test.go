package provenance

import (
	"errors"
	"testing"
)

func TestExtract_DirectChatForwardWithUsername(t *testing.T) {
	cand, err := Extract(Event{
		ForwardChat: &ForwardChat{ID: 100, Username: "newsroom", Title: "Newsroom"},
	})
	if err != nil {
		t.Fatalf("Extract() error = %v, want nil", err)
	}
	if cand.URL != "https://t.me/newsroom" {
		t.Fatalf("URL = %q, want https://t.me/newsroom", cand.URL)
	}
	if cand.Name != "Newsroom" {
		t.Fatalf("Name = %q, want Newsroom", cand.Name)
	}
	if cand.ID != ConfirmedID(100) {
		t.Fatalf("ID = %+v, want confirmed 100", cand.ID)
	}
	if !cand.NameResolved() {
		t.Fatalf("NameResolved() = false, want true")
	}
}

func TestExtract_DirectChatForwardWithoutUsername(t *testing.T) {
	cand, err := Extract(Event{
		ForwardChat: &ForwardChat{ID: 200, Title: "Private Feed"},
	})
	if err != nil {
		t.Fatalf("Extract() error = %v, want nil", err)
	}
	if cand.URL != "chat_id:200" {
		t.Fatalf("URL = %q, want chat_id:200", cand.URL)
	}
	if cand.Name != "Private Feed" {
		t.Fatalf("Name = %q, want Private Feed", cand.Name)
	}
}

func TestExtract_DirectForwardShortCircuitsEntityScan(t *testing.T) {
	// A forward chat wins even when a bot user and link entities are present.
	cand, err := Extract(Event{
		ForwardChat: &ForwardChat{ID: 1, Username: "primary", Title: "Primary"},
		ForwardUser: &ForwardUser{ID: 999, IsBot: true},
		Entities:    []Entity{{Type: "text_link", URL: "https://t.me/other"}},
	})
	if err != nil {
		t.Fatalf("Extract() error = %v, want nil", err)
	}
	if cand.URL != "https://t.me/primary" {
		t.Fatalf("URL = %q, want https://t.me/primary", cand.URL)
	}
	if !cand.ID.Confirmed {
		t.Fatalf("ID.Confirmed = false, want true")
	}
}

func TestExtract_BotRelayPicksFirstChannelLink(t *testing.T) {
	cand, err := Extract(Event{
		ForwardUser: &ForwardUser{ID: 999, IsBot: true},
		Entities: []Entity{
			{Type: "bold"},
			{Type: "text_link", URL: "https://example.com/not-telegram"},
			{Type: "text_link", URL: "https://t.me/leakchannel"},
			{Type: "text_link", URL: "https://t.me/second"},
		},
	})
	if err != nil {
		t.Fatalf("Extract() error = %v, want nil", err)
	}
	if cand.URL != "https://t.me/leakchannel" {
		t.Fatalf("URL = %q, want https://t.me/leakchannel", cand.URL)
	}
	if cand.ID != PlaceholderID(999) {
		t.Fatalf("ID = %+v, want placeholder 999", cand.ID)
	}
	if cand.NameResolved() {
		t.Fatalf("NameResolved() = true, want false (pending enrichment)")
	}
}

func TestExtract_Rejections(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want error
	}{
		{
			name: "no forward metadata",
			ev:   Event{},
			want: ErrNotForwarded,
		},
		{
			name: "forwarded from non-bot user",
			ev: Event{
				ForwardUser: &ForwardUser{ID: 42, Username: "alice"},
				Entities:    []Entity{{Type: "text_link", URL: "https://t.me/channel"}},
			},
			want: ErrNotBotRelay,
		},
		{
			name: "bot relay without entities",
			ev: Event{
				ForwardUser: &ForwardUser{ID: 999, IsBot: true},
			},
			want: ErrNoChannelLink,
		},
		{
			name: "bot relay with only foreign links",
			ev: Event{
				ForwardUser: &ForwardUser{ID: 999, IsBot: true},
				Entities: []Entity{
					{Type: "text_link", URL: "https://example.com/x"},
					{Type: "url"},
				},
			},
			want: ErrNoChannelLink,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.ev)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tc.want)
			}
		})
	}
}
