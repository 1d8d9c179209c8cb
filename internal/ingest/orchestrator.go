// Package ingest drives one inbound event through extraction, enrichment and
// persistence. The orchestrator holds no cross-event state: the host loop
// calls Process once per event and sends the resulting reply.
package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pcoptima/channels-collector/db/models"
	"github.com/pcoptima/channels-collector/internal/provenance"
)

// Reply texts. The three rejection texts map one-to-one onto the extractor's
// rejection errors and must stay distinguishable.
const (
	replySavedPrefix     = "✅ Канал сохранён: "
	replyStorageError    = "❌ Ошибка: "
	replyNotForwarded    = "ℹ️ Это сообщение не переслано из канала."
	replyNotBotRelay     = "ℹ️ Сообщение переслано от пользователя, а не через бота-ретранслятора."
	replyNoChannelLink   = "⚠️ В пересланном сообщении не найдена ссылка на канал."
	replyUnknownRejected = "ℹ️ Не удалось определить канал."
)

// State is the terminal state of one processed event.
type State string

const (
	StatePersisted State = "persisted"
	StateRejected  State = "rejected"
	StateFailed    State = "failed"
)

// Result is what the host loop needs to finish an event: the terminal state,
// the reply to send, and the stored record when one was written.
type Result struct {
	State  State
	Reply  string
	Record *models.Channel
}

// Store is the registry surface the orchestrator writes through.
type Store interface {
	Insert(ctx context.Context, rec *models.Channel) error
}

// NameResolver supplies a display name for candidates that lack one. It must
// not fail; unresolvable names come back as a sentinel value.
type NameResolver interface {
	ResolveName(ctx context.Context, channelURL string) string
}

type Orchestrator struct {
	store    Store
	resolver NameResolver
	logger   *slog.Logger
}

func New(store Store, resolver NameResolver, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{store: store, resolver: resolver, logger: logger}
}

// Process runs one event to its terminal state. It never returns an error:
// every failure mode terminates in a reply.
func (o *Orchestrator) Process(ctx context.Context, ev provenance.Event) Result {
	eventID := "evt_" + uuid.NewString()

	cand, err := provenance.Extract(ev)
	if err != nil {
		o.logger.Info("event_rejected", "event_id", eventID, "reason", err.Error())
		return Result{State: StateRejected, Reply: rejectionReply(err)}
	}

	name := cand.Name
	if !cand.NameResolved() {
		name = o.resolver.ResolveName(ctx, cand.URL)
	}

	rec := &models.Channel{
		ChannelID:   cand.ID.Value,
		ChannelURL:  cand.URL,
		ChannelName: name,
	}
	if err := o.store.Insert(ctx, rec); err != nil {
		o.logger.Error("channel_insert_failed",
			"event_id", eventID,
			"channel_url", cand.URL,
			"error", err.Error(),
		)
		return Result{State: StateFailed, Reply: replyStorageError + err.Error()}
	}

	o.logger.Info("channel_saved",
		"event_id", eventID,
		"channel_id", rec.ChannelID,
		"channel_url", rec.ChannelURL,
		"channel_name", rec.ChannelName,
		"id_confirmed", cand.ID.Confirmed,
	)
	return Result{State: StatePersisted, Reply: savedReply(rec), Record: rec}
}

func rejectionReply(err error) string {
	switch {
	case errors.Is(err, provenance.ErrNotForwarded):
		return replyNotForwarded
	case errors.Is(err, provenance.ErrNotBotRelay):
		return replyNotBotRelay
	case errors.Is(err, provenance.ErrNoChannelLink):
		return replyNoChannelLink
	default:
		return replyUnknownRejected
	}
}

func savedReply(rec *models.Channel) string {
	if rec.ChannelName == "" {
		return replySavedPrefix + rec.ChannelURL
	}
	return replySavedPrefix + rec.ChannelURL + " (" + rec.ChannelName + ")"
}
