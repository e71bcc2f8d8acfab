// Package handlers contains the per-command Telegram handlers. Each
// handler parses its arguments, calls one engine operation and formats
// the reply; error replies come from the shared error handler.
package handlers

import (
	telebot "gopkg.in/telebot.v3"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler
