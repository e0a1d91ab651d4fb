// Package bot routes Telegram updates to the pool listing pipeline.
//
// Every update is handled on its own goroutine and carries everything it
// needs: the command selects the pool type, and button payloads carry the
// pool type and target page. The router keeps no per-chat state.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/raydium-pools-bot/pkg/format"
	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for update handling.
var (
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poolbot_updates_total",
		Help: "Total Telegram updates handled by kind",
	}, []string{"kind"})

	updateFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poolbot_update_failures_total",
		Help: "Total Telegram updates whose handling failed, by kind",
	}, []string{"kind"})
)

const (
	kindMessage  = "message"
	kindCallback = "callback_query"
	kindOther    = "other"
)

// Sender is the part of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// PageLoader fetches one page of pools. It must not fail; see pagination.Loader.
type PageLoader interface {
	Load(ctx context.Context, req pools.PageRequest) pools.Page
}

// Config holds router configuration.
type Config struct {
	// ParseMode used for rendered pages.
	ParseMode string
}

// DefaultConfig returns the router configuration matching the formatter output.
func DefaultConfig() Config {
	return Config{
		ParseMode: tgbotapi.ModeMarkdown,
	}
}

// Router dispatches commands and button presses.
type Router struct {
	sender Sender
	loader PageLoader
	config Config
	logger zerolog.Logger
}

// NewRouter creates a new router.
func NewRouter(sender Sender, loader PageLoader, cfg Config) *Router {
	return &Router{
		sender: sender,
		loader: loader,
		config: cfg,
		logger: log.With().Str("component", "bot").Logger(),
	}
}

// Run handles updates until ctx is done or the channel closes, then waits for
// in-flight handlers. Handlers run on a context that is not cancelled with
// ctx so a shutdown does not turn pending fetches into empty pages.
func (r *Router) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	var wg sync.WaitGroup
	defer wg.Wait()

	handlerCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Update loop stopping")
			return
		case update, ok := <-updates:
			if !ok {
				r.logger.Info().Msg("Update channel closed")
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.HandleUpdate(handlerCtx, update)
			}()
		}
	}
}

// HandleUpdate handles one update. Errors and panics are logged with the
// update and never reach the caller; the user gets no response in that case.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	kind := updateKind(update)
	updatesTotal.WithLabelValues(kind).Inc()

	defer func() {
		if rec := recover(); rec != nil {
			updateFailuresTotal.WithLabelValues(kind).Inc()
			r.logger.Error().
				Interface("update", update).
				Str("panic", fmt.Sprint(rec)).
				Msg("Update handler panicked")
		}
	}()

	if err := r.handle(ctx, update); err != nil {
		updateFailuresTotal.WithLabelValues(kind).Inc()
		r.logger.Error().
			Err(err).
			Interface("update", update).
			Msg("Update caused error")
	}
}

func (r *Router) handle(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return r.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return r.handleCallback(ctx, update.CallbackQuery)
	default:
		return nil
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() || msg.Chat == nil {
		return nil
	}

	command := msg.Command()
	if command == CommandStart {
		if _, err := r.sender.Send(tgbotapi.NewMessage(msg.Chat.ID, format.WelcomeText)); err != nil {
			return fmt.Errorf("send welcome: %w", err)
		}
		return nil
	}

	poolType, ok := commandPoolTypes[command]
	if !ok {
		r.logger.Debug().Str("command", command).Msg("Ignoring unknown command")
		return nil
	}

	text, nav := format.Format(r.loader.Load(ctx, pools.PageRequest{PoolType: poolType, Page: 1}))

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = r.config.ParseMode
	if nav != nil {
		reply.ReplyMarkup = keyboard(nav)
	}
	if _, err := r.sender.Send(reply); err != nil {
		return fmt.Errorf("send %s page: %w", poolType, err)
	}
	return nil
}

func (r *Router) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if _, err := r.sender.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		r.logger.Warn().Err(err).Str("callback_id", query.ID).Msg("Failed to answer callback query")
	}

	if query.Data == format.NoopPayload {
		return nil
	}

	req, err := format.DecodePayload(query.Data)
	if err != nil {
		r.logger.Warn().Err(err).Str("data", query.Data).Msg("Ignoring callback query")
		return nil
	}

	if query.Message == nil || query.Message.Chat == nil {
		return errors.New("callback query has no message to edit")
	}
	chatID := query.Message.Chat.ID

	if req.Page < 1 {
		notice := tgbotapi.NewMessage(chatID, format.FirstPageText)
		notice.ReplyToMessageID = query.Message.MessageID
		if _, err := r.sender.Send(notice); err != nil {
			return fmt.Errorf("send first page notice: %w", err)
		}
		return nil
	}

	text, nav := format.Format(r.loader.Load(ctx, req))

	var edit tgbotapi.EditMessageTextConfig
	if nav != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text, keyboard(nav))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, text)
	}
	edit.ParseMode = r.config.ParseMode

	if _, err := r.sender.Send(edit); err != nil {
		return fmt.Errorf("edit %s page %d: %w", req.PoolType, req.Page, err)
	}
	return nil
}

// keyboard converts navigation into a single-row inline keyboard.
func keyboard(nav *format.Navigation) tgbotapi.InlineKeyboardMarkup {
	buttons := nav.Buttons()
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Payload))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.Message != nil:
		return kindMessage
	case update.CallbackQuery != nil:
		return kindCallback
	default:
		return kindOther
	}
}
