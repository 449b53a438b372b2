package telegram

import "context"

// Gateway is the outbound side of the Bot API: send a message or photo to
// one chat, or acknowledge a callback. Implementations report per-call
// success or failure and never retry on their own.
type Gateway interface {
	SendText(ctx context.Context, chatID int64, text string, kb *Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb *Keyboard) error

	// AnswerCallback clears the pending state of an inline-button press.
	// text, when non-empty, is shown to the user; showAlert promotes it
	// from a toast to a modal alert.
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
}

// Keyboard describes an inline keyboard attached to an outbound message.
type Keyboard struct {
	Rows [][]Button
}

// Button is one inline button. Data is the opaque callback payload echoed
// back when the button is pressed.
type Button struct {
	Text string
	Data string
}

// SingleButton is a convenience for the common one-button keyboard.
func SingleButton(text, data string) *Keyboard {
	return &Keyboard{Rows: [][]Button{{{Text: text, Data: data}}}}
}
