package telegram

// Update is one inbound webhook event from the Bot API. Exactly one of
// Message and Callback is set for events we act on; anything else is
// acknowledged with an empty 200 and dropped.
type Update struct {
	ID       int       `json:"update_id"`
	Message  *Message  `json:"message,omitempty"`
	Callback *Callback `json:"callback_query,omitempty"`
}

// ChatID returns the chat the update originated from, or 0 when no chat can
// be determined.
func (u *Update) ChatID() int64 {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID
	case u.Callback != nil:
		return u.Callback.ChatID()
	default:
		return 0
	}
}

// Message is an inbound chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Callback is an inline-keyboard button press. Message points at the message
// the keyboard was attached to, which carries the originating chat.
type Callback struct {
	ID      string   `json:"id"`
	Data    string   `json:"data,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// ChatID returns the chat the callback originated from, or 0 when the source
// message is no longer available.
func (c *Callback) ChatID() int64 {
	if c.Message == nil {
		return 0
	}

	return c.Message.Chat.ID
}
