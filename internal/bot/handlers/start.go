package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/domain"
	"github.com/kartka-game/kartka-bot/internal/game"
)

const welcomeText = `👋 Привіт! Це гра в колекційні картки.

Команди:
/kartka — тягнути карту
/kolektsiia — твоя колекція
/raid — сьогоднішній рейд
/attack <card_id> — вдарити боса
/duel <@user|id> — викликати на дуель
/trader — крамниця дня
/travel_start <години> — піти у подорож
/me — твій персонаж

Спочатку обери свій шлях 👇`

// PathKeyboard builds the inline path-choice keyboard.
func PathKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	rows := make([]telebot.Row, 0, len(domain.Paths))
	for _, path := range domain.Paths {
		btn := markup.Data(string(path), "path", string(path))
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)

	return markup
}

// NewStartHandler greets the user and offers the path choice.
func NewStartHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		return c.Send(welcomeText, PathKeyboard())
	}
}

// NewPathCommandHandler handles /shliakh with an explicit argument, or
// re-shows the keyboard without one.
func NewPathCommandHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) == 0 {
			return c.Send("Обери свій шлях 👇", PathKeyboard())
		}

		return choosePath(c, svc, strings.Join(args, " "))
	}
}

// NewPathCallbackHandler handles the inline path buttons.
func NewPathCallbackHandler(svc *game.Service, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		data := callbackPayload(c, "path")
		if err := choosePath(c, svc, data); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}
}

func choosePath(c telebot.Context, svc *game.Service, raw string) error {
	path, err := svc.ChoosePath(context.Background(), c.Sender().ID, raw)
	if err != nil {
		return err
	}

	return c.Send(fmt.Sprintf("Твій шлях: %s ✨ Тепер тягни карту: /kartka", path))
}

// callbackPayload strips telebot's unique prefix from callback data.
func callbackPayload(c telebot.Context, unique string) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}

	data := strings.TrimPrefix(cb.Data, "\f")
	data = strings.TrimPrefix(data, unique)
	data = strings.TrimPrefix(data, "|")
	return strings.TrimSpace(data)
}
