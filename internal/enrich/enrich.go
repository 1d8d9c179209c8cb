// Package enrich resolves a display name for a channel URL through a
// secondary lookup client. Provenance is already established by the time the
// enricher runs, so a failed lookup must never abort the pipeline: every
// failure degrades to the UnknownName sentinel.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UnknownName is stored when no title could be resolved.
const UnknownName = "Неизвестно"

const defaultTimeout = 10 * time.Second

// Session is one scoped lookup session. It is opened for exactly one
// ResolveTitle call and closed immediately after.
type Session interface {
	ResolveTitle(ctx context.Context, channelURL string) (string, error)
	Close() error
}

// SessionOpener hands out lookup sessions. The production implementation is
// internal/lookup; tests plug in fakes.
type SessionOpener interface {
	OpenSession(ctx context.Context) (Session, error)
}

type Enricher struct {
	opener  SessionOpener
	timeout time.Duration
	logger  *slog.Logger
}

func New(opener SessionOpener, timeout time.Duration, logger *slog.Logger) *Enricher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{opener: opener, timeout: timeout, logger: logger}
}

// ResolveName returns the channel title for channelURL, or UnknownName when
// the lookup fails for any reason. It never returns an error.
func (e *Enricher) ResolveName(ctx context.Context, channelURL string) string {
	name, err := e.resolve(ctx, channelURL)
	if err != nil {
		e.logger.Warn("name_lookup_failed", "channel_url", channelURL, "error", err.Error())
		return UnknownName
	}
	return name
}

func (e *Enricher) resolve(ctx context.Context, channelURL string) (string, error) {
	if e == nil || e.opener == nil {
		return "", fmt.Errorf("no lookup client configured")
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	session, err := e.opener.OpenSession(ctx)
	if err != nil {
		return "", fmt.Errorf("open lookup session: %w", err)
	}
	defer func() { _ = session.Close() }()

	title, err := session.ResolveTitle(ctx, channelURL)
	if err != nil {
		return "", err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("entity has no title")
	}
	return title, nil
}
