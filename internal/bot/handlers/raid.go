package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/game"
)

// NewRaidHandler handles /raid: today's boss status.
func NewRaidHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		day, err := svc.RaidStatus(context.Background())
		if err != nil {
			return err
		}

		switch {
		case !day.RaidActive:
			return c.Send("🛡 Сьогодні рейду немає. Завітай завтра 🙂")
		case day.RaidKilled || day.RaidHP <= 0:
			return c.Send("🏆 Боса вже вбили сьогодні! У крамниці діє знижка: /trader")
		default:
			return c.Send(fmt.Sprintf(
				"🐉 Рейд-бос живий!\nHP: %d / %d\nБий його: /attack <card_id>",
				day.RaidHP, day.RaidHPMax,
			))
		}
	}
}

// NewAttackHandler handles /attack <card_id>: one hit on the boss.
func NewAttackHandler(svc *game.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := commandArgs(c)
		if len(args) < 1 {
			return usageErr("/attack <card_id>")
		}

		cardID, err := parseID(args[0], "card_id")
		if err != nil {
			return err
		}

		result, err := svc.Attack(context.Background(), c.Sender().ID, cardID)
		if err != nil {
			return err
		}

		if result.KilledNow {
			return c.Send(fmt.Sprintf(
				"💥 Ти завдав %d урону і ДОБИВ боса! 🏆\nЗавтра у крамниці знижка: /trader",
				result.Damage,
			))
		}

		return c.Send(fmt.Sprintf("⚔️ Ти завдав %d урону. У боса лишилось %d HP.", result.Damage, result.HPLeft))
	}
}
