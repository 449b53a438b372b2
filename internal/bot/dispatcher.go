// Package bot interprets inbound Telegram updates into actions against the
// link store, the user registry, and the broadcast engine.
package bot

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/broadcast"
	"github.com/Johndevils/Url-shorter-bot/internal/messaging"
	"github.com/Johndevils/Url-shorter-bot/internal/registry"
	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

// Config carries the identities and addresses the dispatcher needs. It is
// built once at startup and injected; the dispatcher never reads the
// environment.
type Config struct {
	// BaseURL composes short links: BaseURL + "/" + code.
	BaseURL string
	// AdminChatID is the only identity allowed to broadcast.
	AdminChatID int64
	// StartImageURL, when set, is sent as the welcome photo. Empty falls
	// back to a plain text welcome.
	StartImageURL string
}

// Dispatcher maps one inbound update to exactly one side-effecting action.
// Every branch — including unknown input, validation failures, and
// unexpected errors — terminates in exactly one reply or callback
// acknowledgement; nothing that reaches the dispatcher is silently dropped,
// and nothing it does propagates a fault to the webhook response.
type Dispatcher struct {
	cfg            Config
	shortener      *shortlink.Service
	registry       registry.Registry
	gateway        telegram.Gateway
	broadcasts     *broadcast.Engine
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	logger         *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(
	cfg Config,
	shortener *shortlink.Service,
	reg registry.Registry,
	gateway telegram.Gateway,
	broadcasts *broadcast.Engine,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:            cfg,
		shortener:      shortener,
		registry:       reg,
		gateway:        gateway,
		broadcasts:     broadcasts,
		publishCreated: publishCreated,
		logger:         logger,
	}
}

// HandleUpdate dispatches one webhook update. Updates carrying neither a
// callback nor message text are dropped without action — the webhook still
// answers 200. Panics on either branch are recovered here so they never
// reach the webhook handler.
func (d *Dispatcher) HandleUpdate(ctx context.Context, up *telegram.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			chatID := up.ChatID()
			d.logger.Error("panic in dispatcher",
				zap.Int64("chat_id", chatID),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)

			if chatID != 0 {
				d.reply(ctx, chatID, msgUnexpected, nil)
			}
		}
	}()

	switch {
	case up.Callback != nil:
		d.handleCallback(ctx, up.Callback)
	case up.Message != nil && strings.TrimSpace(up.Message.Text) != "":
		d.handleMessage(ctx, up.Message.Chat.ID, up.Message.Text)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, chatID int64, text string) {
	cmd := parseCommand(text)

	var err error

	switch cmd.kind {
	case cmdStart:
		err = d.handleStart(ctx, chatID)
	case cmdBroadcast:
		err = d.handleBroadcast(ctx, chatID, cmd.tail)
	default:
		err = d.handleShorten(ctx, chatID, cmd)
	}

	if err != nil {
		d.logger.Error("dispatch failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		d.reply(ctx, chatID, msgUnexpected, nil)
	}
}

// handleStart registers the sender (idempotent) and sends the welcome with a
// help button attached.
func (d *Dispatcher) handleStart(ctx context.Context, chatID int64) error {
	if err := d.registry.Add(ctx, chatID); err != nil {
		return err
	}

	if d.cfg.StartImageURL != "" {
		return d.gateway.SendPhoto(ctx, chatID, d.cfg.StartImageURL, msgWelcome, helpKeyboard())
	}

	return d.gateway.SendText(ctx, chatID, msgWelcome, helpKeyboard())
}

// handleBroadcast authorizes, validates, and launches the fan-out. The reply
// goes out as soon as the job is handed off; delivery continues detached.
func (d *Dispatcher) handleBroadcast(ctx context.Context, chatID int64, text string) error {
	if chatID != d.cfg.AdminChatID {
		d.reply(ctx, chatID, msgUnauthorized, nil)

		return nil
	}

	if text == "" {
		d.reply(ctx, chatID, msgBroadcastUsage, nil)

		return nil
	}

	if _, err := d.broadcasts.Launch(ctx, text, chatID); err != nil {
		return err
	}

	d.reply(ctx, chatID, msgBroadcastStarted, nil)

	return nil
}

func (d *Dispatcher) handleShorten(ctx context.Context, chatID int64, cmd command) error {
	var rawURL, customCode string

	if cmd.kind == cmdBare {
		rawURL = cmd.args[0]
	} else {
		if len(cmd.args) == 0 {
			d.reply(ctx, chatID, usageHint(cmd.token), nil)

			return nil
		}

		rawURL = cmd.args[0]
		if len(cmd.args) > 1 {
			customCode = cmd.args[1]
		}
	}

	link, err := d.shortener.Shorten(ctx, rawURL, customCode)

	switch {
	case errors.Is(err, shortlink.ErrInvalidURL):
		d.reply(ctx, chatID, msgInvalidURL, nil)

		return nil
	case errors.Is(err, shortlink.ErrInvalidCode):
		d.reply(ctx, chatID, msgInvalidCode, nil)

		return nil
	case errors.Is(err, shortlink.ErrCodeTaken):
		d.reply(ctx, chatID, codeTakenReply(customCode), nil)

		return nil
	case err != nil:
		return err
	}

	shortURL := d.cfg.BaseURL + "/" + link.Code

	d.reply(ctx, chatID, shortLinkReply(shortURL), copyKeyboard())

	if err := d.publishCreated(&analytics.LinkCreatedEvent{
		Code:      link.Code,
		TargetURL: link.TargetURL,
		ChatID:    chatID,
		Custom:    customCode != "",
		CreatedAt: link.CreatedAt,
	}); err != nil {
		d.logger.Error("failed to publish link created event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	return nil
}

// handleCallback acknowledges every button press, on every branch, so the
// client's pending spinner always clears.
func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.Callback) {
	switch parseCallback(cb.Data) {
	case actionShowHelp:
		d.ack(ctx, cb.ID, "", false)

		if chatID := cb.ChatID(); chatID != 0 {
			d.reply(ctx, chatID, helpText(d.cfg.BaseURL), nil)
		}
	case actionCopyInfo:
		d.ack(ctx, cb.ID, msgCopyToast, true)
	default:
		d.ack(ctx, cb.ID, "", false)
	}
}

// reply sends a message and logs delivery failures. There is no further
// fallback: a failed reply about a failed reply helps nobody.
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, kb *telegram.Keyboard) {
	if err := d.gateway.SendText(ctx, chatID, text, kb); err != nil {
		d.logger.Error("reply delivery failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) ack(ctx context.Context, callbackID, text string, alert bool) {
	if err := d.gateway.AnswerCallback(ctx, callbackID, text, alert); err != nil {
		d.logger.Error("callback ack failed",
			zap.String("callback_id", callbackID),
			zap.Error(err),
		)
	}
}
