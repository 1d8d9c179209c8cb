package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pcoptima/channels-collector/db"
	"github.com/pcoptima/channels-collector/internal/enrich"
	"github.com/pcoptima/channels-collector/internal/ingest"
	"github.com/pcoptima/channels-collector/internal/logutil"
	"github.com/pcoptima/channels-collector/internal/lookup"
	"github.com/pcoptima/channels-collector/internal/registry"
	"github.com/pcoptima/channels-collector/internal/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	replyChannelsHeader = "📋 Список каналов:\n"
	replyNamesHeader    = "📋 Список названий:\n"
	replyNoChannels     = "ℹ️ Нет сохранённых каналов."
	replyStorageError   = "❌ Ошибка: "
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot: poll for forwarded messages and record their origin channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(viper.GetString("telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			pollTimeout := viper.GetDuration("telegram.poll_timeout")
			if pollTimeout <= 0 {
				pollTimeout = 30 * time.Second
			}

			cfg := db.DefaultConfig()
			cfg.DSN = viper.GetString("db.dsn")
			gdb, err := db.Open(cfg)
			if err != nil {
				return err
			}
			reg := registry.New(gdb)
			if err := reg.EnsureSchema(); err != nil {
				return err
			}

			httpClient := &http.Client{Timeout: 60 * time.Second}
			api := telegram.NewAPI(httpClient, telegram.DefaultBaseURL, token)

			lookupToken := strings.TrimSpace(viper.GetString("lookup.bot_token"))
			var opener enrich.SessionOpener
			if lookupToken != "" {
				opener = lookup.NewClient(httpClient, telegram.DefaultBaseURL, lookupToken)
			} else {
				logger.Warn("lookup_token_missing", "detail", "channel names from relayed forwards will be recorded as "+enrich.UnknownName)
			}
			enricher := enrich.New(opener, viper.GetDuration("lookup.timeout"), logger)
			orch := ingest.New(reg, enricher, logger)

			me, err := api.GetMe(context.Background())
			if err != nil {
				return err
			}
			logger.Info("serve_start",
				"bot_username", me.Username,
				"bot_id", me.ID,
				"poll_timeout", pollTimeout.String(),
			)

			return runPollLoop(cmd.Context(), logger, api, reg, orch, pollTimeout)
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("lookup-bot-token", "", "Secondary token used to resolve channel titles.")
	cmd.Flags().Duration("telegram-poll-timeout", 30*time.Second, "Long-poll timeout for getUpdates.")
	cmd.Flags().Duration("lookup-timeout", 10*time.Second, "Timeout for one name lookup.")
	_ = viper.BindPFlag("telegram.bot_token", cmd.Flags().Lookup("telegram-bot-token"))
	_ = viper.BindPFlag("lookup.bot_token", cmd.Flags().Lookup("lookup-bot-token"))
	_ = viper.BindPFlag("telegram.poll_timeout", cmd.Flags().Lookup("telegram-poll-timeout"))
	_ = viper.BindPFlag("lookup.timeout", cmd.Flags().Lookup("lookup-timeout"))

	return cmd
}

func runPollLoop(ctx context.Context, logger *slog.Logger, api *telegram.API, reg *registry.Registry, orch *ingest.Orchestrator, pollTimeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		updates, nextOffset, err := api.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("telegram_get_updates_error", "error", err.Error())
			time.Sleep(1 * time.Second)
			continue
		}
		offset = nextOffset

		for _, u := range updates {
			msg := u.Message
			if msg == nil || msg.Chat == nil {
				continue
			}
			handleMessage(ctx, logger, api, reg, orch, msg)
		}
	}
}

// handleMessage processes one message to completion before returning, so
// replies within a conversation keep arrival order.
func handleMessage(ctx context.Context, logger *slog.Logger, api *telegram.API, reg *registry.Registry, orch *ingest.Orchestrator, msg *telegram.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(telegram.MessageText(msg))

	reply := ""
	switch command(text) {
	case "/start", "/help":
		reply = "Перешлите сообщение из канала — я сохраню его адрес.\n" +
			"Команды: /channels — список каналов, /names — список названий."
	case "/channels":
		reply = projectionReply(ctx, reg.DistinctURLs, replyChannelsHeader)
	case "/names":
		reply = projectionReply(ctx, reg.DistinctNames, replyNamesHeader)
	default:
		res := orch.Process(ctx, telegram.EventFromMessage(msg))
		reply = res.Reply
	}

	if err := api.SendReply(ctx, chatID, msg.MessageID, reply); err != nil {
		logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
	}
}

func projectionReply(ctx context.Context, list func(context.Context) ([]string, error), header string) string {
	values, err := list(ctx)
	if err != nil {
		return replyStorageError + err.Error()
	}
	if len(values) == 0 {
		return replyNoChannels
	}
	return header + strings.Join(values, "\n")
}

func command(text string) string {
	word := text
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	if !strings.HasPrefix(word, "/") {
		return ""
	}
	// Strip the @botname suffix used in group chats.
	if i := strings.Index(word, "@"); i >= 0 {
		word = word[:i]
	}
	return strings.ToLower(word)
}
