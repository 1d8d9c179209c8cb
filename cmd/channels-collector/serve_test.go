package main

import (
	"context"
	"testing"
)

func TestCommand(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/channels", want: "/channels"},
		{in: "/channels@collectorbot", want: "/channels"},
		{in: "/NAMES", want: "/names"},
		{in: "/start hello", want: "/start"},
		{in: "plain text", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := command(tc.in); got != tc.want {
			t.Fatalf("command(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProjectionReply(t *testing.T) {
	list := func(ctx context.Context) ([]string, error) {
		return []string{"https://t.me/a", "https://t.me/b"}, nil
	}
	got := projectionReply(context.Background(), list, replyChannelsHeader)
	want := "📋 Список каналов:\nhttps://t.me/a\nhttps://t.me/b"
	if got != want {
		t.Fatalf("projectionReply() = %q, want %q", got, want)
	}

	empty := func(ctx context.Context) ([]string, error) { return nil, nil }
	if got := projectionReply(context.Background(), empty, replyChannelsHeader); got != replyNoChannels {
		t.Fatalf("projectionReply(empty) = %q, want %q", got, replyNoChannels)
	}
}
