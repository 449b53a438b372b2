package bot

import (
	"fmt"

	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

const (
	msgWelcome = "Welcome to the URL Shortener Bot! 🚀\n\nJust send me a URL to get started."

	msgUnauthorized = "⛔ You are not authorized to use this command."

	msgBroadcastUsage = "Please provide a message. Usage: `/broadcast Hello everyone!`"

	msgBroadcastStarted = "📢 Broadcast started... You will receive a report when it's complete."

	msgInvalidURL = "Please provide a valid URL. It should start with http:// or https://"

	msgInvalidCode = "Custom codes can only contain letters, numbers, hyphens and underscores."

	msgUnexpected = "An unexpected error occurred."

	msgCopyToast = "Tap the link text above to copy it easily."
)

const helpTemplate = `Welcome to the URL Shortener Bot! 🚀

Send me any long URL, and I'll create a short link for you using **%s**.

**How to use:**
1️⃣ **Simple shorten:** Just send a URL.
   ` + "`https://my-very-long-url.com/with/path`" + `

2️⃣ **Custom shortcode:** Use the /shorten command.
   ` + "`/shorten https://... my-link`" + `

As the admin, you can also use:
` + "`/broadcast Your message here`"

func helpText(baseURL string) string {
	return fmt.Sprintf(helpTemplate, baseURL)
}

func usageHint(token string) string {
	return fmt.Sprintf("Please provide a URL after the command.\nExample: `%s https://example.com`", token)
}

func codeTakenReply(code string) string {
	return fmt.Sprintf("Sorry, the custom code %q is already taken.", code)
}

func shortLinkReply(shortURL string) string {
	return fmt.Sprintf("✅ Here's your short link:\n`%s`", shortURL)
}

func helpKeyboard() *telegram.Keyboard {
	return telegram.SingleButton("❓ How to Use", callbackShowHelp)
}

func copyKeyboard() *telegram.Keyboard {
	return telegram.SingleButton("📋 Copy Link", callbackCopyInfo)
}
