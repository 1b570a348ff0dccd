package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Interactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetbot_interactions_total",
			Help: "Interactions received, by kind",
		},
		[]string{"kind"},
	)
	GamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leetbot_games_created_total",
			Help: "Rock paper scissors challenges created",
		},
	)
	GamesResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetbot_games_resolved_total",
			Help: "Rock paper scissors games resolved, by outcome",
		},
		[]string{"outcome"},
	)
	GamesSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leetbot_games_swept_total",
			Help: "Abandoned games removed by the sweeper",
		},
	)
	FollowUpFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetbot_followup_failures_total",
			Help: "Failed follow-up webhook calls, by action",
		},
		[]string{"action"},
	)
	activeGames = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "leetbot_active_games",
			Help: "Challenges waiting for an opponent",
		},
		currentActiveGames,
	)
)

var (
	activeMu     sync.RWMutex
	activeSource func() int
)

func init() {
	prometheus.MustRegister(Interactions)
	prometheus.MustRegister(GamesCreated)
	prometheus.MustRegister(GamesResolved)
	prometheus.MustRegister(GamesSwept)
	prometheus.MustRegister(FollowUpFailures)
	prometheus.MustRegister(activeGames)
}

// BindActiveGames sets the function reporting the active game count,
// normally Registry.Len
func BindActiveGames(source func() int) {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeSource = source
}

func currentActiveGames() float64 {
	activeMu.RLock()
	defer activeMu.RUnlock()
	if activeSource == nil {
		return 0
	}
	return float64(activeSource())
}
