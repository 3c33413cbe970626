// Package delivery sends processed messages to a chat.
//
// Telegram talks to the Telegram Bot API. Dispatcher sends a list of
// messages in order through any Sender, numbering them when there is more
// than one and attaching the destroy confirmation keyboard to the last one.
// A failed message never stops the rest; every attempt yields a Result.
package delivery
