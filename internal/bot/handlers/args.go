package handlers

import (
	"fmt"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

// commandArgs returns the whitespace-separated arguments after the command.
func commandArgs(c telebot.Context) []string {
	fields := strings.Fields(c.Text())
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation(
			fmt.Sprintf("bad %s %q", what, raw),
			fmt.Sprintf("Невірний %s.", what),
		)
	}
	return id, nil
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.NewValidation(
			fmt.Sprintf("bad count %q", raw),
			"Кількість має бути додатним числом.",
		)
	}
	return n, nil
}

func usageErr(usage string) error {
	return apperrors.NewValidation(
		"missing arguments",
		"Використання: "+usage,
	)
}
