package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// Application services depend on this seam instead of the bot library, so
// sweeps and digests can be tested with a fake.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
