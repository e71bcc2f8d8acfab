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

// NewDrawHandler handles /kartka: one gacha draw.
func NewDrawHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		card, err := svc.DrawCard(context.Background(), c.Sender().ID)
		if err != nil {
			return err
		}

		return sendCard(c, card, "🎴 Тобі випала карта!")
	}
}

// NewCollectionHandler handles /kolektsiia: the owned-card listing.
func NewCollectionHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		owned, err := svc.ListCollection(context.Background(), c.Sender().ID)
		if err != nil {
			return err
		}

		if len(owned) == 0 {
			return c.Send("Колекція порожня. Тягни першу карту: /kartka")
		}

		var b strings.Builder
		b.WriteString("🗂 Твоя колекція:\n")
		for _, oc := range owned {
			fmt.Fprintf(&b, "#%d %s (%s) ×%d\n", oc.Card.ID, oc.Card.Name, oc.Card.Rarity.Local(), oc.Count)
		}

		return c.Send(b.String())
	}
}

// NewExchangeHandler handles /obmin10 <card_id>: ten copies for a legendary.
func NewExchangeHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/obmin10 <card_id>")
		}

		cardID, err := parseID(args[0], "card_id")
		if err != nil {
			return err
		}

		reward, err := svc.ExchangeTen(context.Background(), c.Sender().ID, cardID)
		if err != nil {
			return err
		}

		return sendCard(c, reward, "♻️ Обмін вдався! Твоя нова карта:")
	}
}

func sendCard(c telebot.Context, card *domain.Card, header string) error {
	caption := fmt.Sprintf("%s\n#%d %s\nРідкість: %s", header, card.ID, card.Name, card.Rarity.Local())
	if card.Description != "" {
		caption += "\n" + card.Description
	}

	if card.ImageRef != "" {
		photo := &telebot.Photo{File: telebot.File{FileID: card.ImageRef}, Caption: caption}
		return c.Send(photo)
	}

	return c.Send(caption)
}
