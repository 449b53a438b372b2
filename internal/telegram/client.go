package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// Config configures the Bot API client.
type Config struct {
	// Token is the bot token issued by BotFather.
	Token string
	// APIURL overrides the Bot API endpoint (tests point this at a fake).
	APIURL string
	// Offline skips the startup getMe probe. Used by tests.
	Offline bool
}

// Client implements Gateway over telebot. telebot calls do not take a
// context, so each method checks ctx before the network hop; an in-flight
// call is bounded only by the underlying HTTP client's timeout.
type Client struct {
	bot    *tele.Bot
	logger *zap.Logger
}

// NewClient connects to the Bot API and validates the token.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" && !cfg.Offline {
		return nil, errors.New("telegram: bot token is empty")
	}

	pref := tele.Settings{
		Token:   cfg.Token,
		URL:     cfg.APIURL,
		Offline: cfg.Offline,
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	return &Client{bot: bot, logger: logger}, nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, kb *Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.bot.Send(&tele.Chat{ID: chatID}, text, sendOptions(kb))

	return err
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb *Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := &tele.Photo{
		File:    tele.FromURL(photoURL),
		Caption: caption,
	}

	_, err := c.bot.Send(&tele.Chat{ID: chatID}, photo, sendOptions(kb))

	return err
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{
		Text:      text,
		ShowAlert: showAlert,
	})
}

func sendOptions(kb *Keyboard) *tele.SendOptions {
	opts := &tele.SendOptions{
		ParseMode:             tele.ModeMarkdown,
		DisableWebPagePreview: true,
	}

	if kb != nil {
		markup := &tele.ReplyMarkup{}
		for _, row := range kb.Rows {
			buttons := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data})
			}

			markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
		}

		opts.ReplyMarkup = markup
	}

	return opts
}

// Compile-time check.
var _ Gateway = (*Client)(nil)
