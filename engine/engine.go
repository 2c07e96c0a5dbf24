package engine

import "tetress/experiments/metrics"

type Engine interface {
	// Run plays a game to its end and returns the winner along with the
	// collected game and per-move metrics.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
