package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/game"
)

// NewMeHandler handles /me: the character sheet.
func NewMeHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		summary, err := svc.Summary(context.Background(), c.Sender().ID)
		if err != nil {
			return err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "👤 %s\n", summary.User.Label())

		path := string(summary.User.Path)
		if path == "" {
			path = "не обрано (/shliakh)"
		}
		fmt.Fprintf(&b, "Шлях: %s\n", path)
		fmt.Fprintf(&b, "Монети: %d\n", summary.User.Coins)
		fmt.Fprintf(&b, "Сила зброї: %d\n", summary.WeaponPower)

		if summary.BoostActive {
			b.WriteString("Буст рейду: активний 🔥\n")
		}

		if len(summary.Weapons) > 0 {
			b.WriteString("\n🗡 Зброя:\n")
			for _, w := range summary.Weapons {
				equipped := ""
				if w.ItemID == summary.User.EquippedWeaponID {
					equipped = " (в руках)"
				}
				fmt.Fprintf(&b, "• %s ×%d%s\n  /equip %s\n", w.Name, w.Qty, equipped, w.ItemID)
			}
		}

		now := time.Now().Unix()
		switch {
		case summary.Travel.Running(now):
			b.WriteString("\n🧭 У подорожі. Повернення: /travel_claim пізніше.\n")
		case summary.Travel.Claimable(now):
			b.WriteString("\n🧭 Подорож завершена! Забери нагороду: /travel_claim\n")
		}

		return c.Send(b.String())
	}
}

// NewEquipHandler handles /equip <item_id>.
func NewEquipHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/equip <item_id>")
		}

		weapon, err := svc.Equip(context.Background(), c.Sender().ID, args[0])
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("🗡 Тепер у руках: %s (+%d).", weapon.Name, weapon.Power))
	}
}

// NewIDHandler handles /id: the sender's numeric Telegram id, handy for
// duels and gifts with users without a username.
func NewIDHandler(log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		return c.Send(fmt.Sprintf("Твій id: %d", c.Sender().ID))
	}
}
