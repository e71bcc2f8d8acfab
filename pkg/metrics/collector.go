package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	cardDrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_draws_total",
			Help: "Total number of card draws labeled by rarity",
		},
		[]string{"rarity"},
	)
	raidDamageTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raid_damage_total",
			Help: "Total raid damage dealt across all users",
		},
	)
	raidKillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raid_kills_total",
			Help: "Total number of raid bosses killed",
		},
	)
	duelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duels_total",
			Help: "Total number of resolved duels labeled by outcome",
		},
		[]string{"outcome"},
	)
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_purchases_total",
			Help: "Total number of shop purchases labeled by item type",
		},
		[]string{"item_type"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of admin dialog state transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordDraw counts a granted card draw.
func RecordDraw(rarity string) {
	if rarity == "" {
		rarity = "unknown"
	}
	cardDrawsTotal.WithLabelValues(rarity).Inc()
}

// RecordRaidDamage adds one applied hit to the damage counter.
func RecordRaidDamage(damage int) {
	if damage < 0 {
		return
	}
	raidDamageTotal.Add(float64(damage))
}

// RecordRaidKill counts a boss kill.
func RecordRaidKill() {
	raidKillsTotal.Inc()
}

// RecordDuel counts a resolved duel.
func RecordDuel(tie bool) {
	outcome := "decided"
	if tie {
		outcome = "tie"
	}
	duelsTotal.WithLabelValues(outcome).Inc()
}

// RecordPurchase counts a completed shop purchase.
func RecordPurchase(itemType string) {
	if itemType == "" {
		itemType = "unknown"
	}
	purchasesTotal.WithLabelValues(itemType).Inc()
}

// RecordStateTransition tracks admin dialog transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
