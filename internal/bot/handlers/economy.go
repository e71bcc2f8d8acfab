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

// NewTraderHandler handles /trader: today's shop listing.
func NewTraderHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		listing, err := svc.DailyShop(context.Background())
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("🛒 Крамниця мандрівного торговця (" + listing.Day + ")\n")
		if listing.Discount {
			b.WriteString("🏷 Боса вбито — знижка 15%!\n")
		}
		b.WriteString("\n")
		for _, item := range listing.Items {
			fmt.Fprintf(&b, "• %s — %d монет\n  /buy %s\n", item.Name, item.Price, item.ID)
		}

		return c.Send(b.String())
	}
}

// NewBuyHandler handles /buy <item_id>.
func NewBuyHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/buy <item_id>")
		}

		result, err := svc.Buy(context.Background(), c.Sender().ID, args[0])
		if err != nil {
			return err
		}

		switch result.Item.Type {
		case domain.ShopPack:
			if len(result.Cards) == 0 {
				return c.Send("📦 Пак куплено, але база карт порожня. Звернись до адміна.")
			}
			var b strings.Builder
			b.WriteString("📦 Пак відкрито! Твої карти:\n")
			for _, card := range result.Cards {
				fmt.Fprintf(&b, "#%d %s (%s)\n", card.ID, card.Name, card.Rarity.Local())
			}
			return c.Send(b.String())
		case domain.ShopBoost:
			return c.Send("🔥 Буст активовано: +20% урону в рейді на 12 годин!")
		default:
			return c.Send(fmt.Sprintf(
				"🗡 Куплено: %s. Одягни: /equip %s", result.Item.Name, result.Item.ID,
			))
		}
	}
}

// NewSellHandler handles /sell <card_id> <qty>.
func NewSellHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 2 {
			return usageErr("/sell <card_id> <кількість>")
		}

		cardID, err := parseID(args[0], "card_id")
		if err != nil {
			return err
		}
		qty, err := parseCount(args[1])
		if err != nil {
			return err
		}

		payout, err := svc.Sell(context.Background(), c.Sender().ID, cardID, qty)
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("💰 Продано %d шт. карти #%d за %d монет.", qty, cardID, payout))
	}
}

// NewGiveHandler handles /give <@user|id> <card_id> <qty>.
func NewGiveHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 3 {
			return usageErr("/give <@user|id> <card_id> <кількість>")
		}

		cardID, err := parseID(args[1], "card_id")
		if err != nil {
			return err
		}
		qty, err := parseCount(args[2])
		if err != nil {
			return err
		}

		target, err := svc.Gift(context.Background(), c.Sender().ID, args[0], cardID, qty)
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("🎁 Подаровано %d шт. карти #%d користувачу %s!", qty, cardID, target.Label()))
	}
}
