package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(updatesTotal, commandsTotal)
}

var updatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Incoming Telegram updates, labeled by recognized kind.",
	},
	[]string{"kind"}, // 'text', 'command', 'audio', 'document', 'unknown'
)

var commandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Recognized chat commands, labeled by command keyword.",
	},
	[]string{"command"},
)

func IncUpdate(kind string) {
	updatesTotal.WithLabelValues(norm(kind)).Inc()
}

func IncCommand(command string) {
	commandsTotal.WithLabelValues(norm(command)).Inc()
}
