package experiments

import (
	"fmt"
	"time"

	"tetress/engine"
	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher"
	"tetress/searcher/agent"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 30 // Per matchup
	TimeBudget = 100 * time.Millisecond
)

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Goroutines: 1, Duration: TimeBudget},
	{ID: 2, Goroutines: 2, Duration: TimeBudget},
	{ID: 3, Goroutines: 4, Duration: TimeBudget},
	{ID: 4, Goroutines: 8, Duration: TimeBudget},
	{ID: 5, Goroutines: 16, Duration: TimeBudget},
	{ID: 6, Goroutines: 32, Duration: TimeBudget},
}

// RunParallelizationExperiment pits each parallel configuration against
// the sequential baseline at the same time budget.
func RunParallelizationExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: TimeBudget}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	runExperiment("parallelization", append([]metrics.AgentConfig{baseline}, parallelConfigs...), matchUps)
}

// RunThroughputExperiment mirrors each parallel configuration against
// itself: equal strength keeps game lengths comparable, so the move
// records isolate episode throughput.
func RunThroughputExperiment() {
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}

	runExperiment("throughput", parallelConfigs, matchUps)
}

// RunCutoffExperiment compares rollout depth cutoffs against full
// playouts at the same time budget.
func RunCutoffExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 8, Duration: TimeBudget} // Full playouts
	cutoffConfigs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 4},
		{ID: 2, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 8},
		{ID: 3, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 16},
		{ID: 4, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 32},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range cutoffConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	runExperiment("cutoff", append([]metrics.AgentConfig{baseline}, cutoffConfigs...), matchUps)
}

// RunEvaluatorExperiment compares the cutoff evaluators at a fixed depth.
func RunEvaluatorExperiment() {
	newConfig := func(id int, name string, evaluate game.Evaluate) metrics.AgentConfig {
		return metrics.AgentConfig{
			ID:         id,
			Goroutines: 8,
			Duration:   TimeBudget,
			Cutoff:     8,
			Evaluator:  name,
			Evaluate:   evaluate,
		}
	}
	baseline := newConfig(0, "tokens", game.EvaluateTokens)
	evaluatorConfigs := []metrics.AgentConfig{
		newConfig(1, "threats", game.EvaluateThreats),
		newConfig(2, "centrality", game.EvaluateCentrality),
		newConfig(3, "position", game.EvaluatePosition),
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range evaluatorConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	runExperiment("evaluator", append([]metrics.AgentConfig{baseline}, evaluatorConfigs...), matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...",
			mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < NumGames; i++ {
			// Alternate seats so neither configuration always moves first
			redConfig, blueConfig := matchup[0], matchup[1]
			if i%2 == 1 {
				redConfig, blueConfig = blueConfig, redConfig
			}

			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, NumGames)

			winner, gameMetric, moveMetrics := runGame(redConfig, blueConfig)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     redConfig.ID,
				Agent2:     blueConfig.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	storeResults(name, configs, gameRecords, moveRecords)
}

func storeResults(name string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) {
	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		panic(fmt.Sprintf("failed to store agent configs: %v", err))
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		panic(fmt.Sprintf("failed to store game records: %v", err))
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		panic(fmt.Sprintf("failed to store move records: %v", err))
	}
	log.Info().Msg("stored move records")
}

// runGame plays a single game between the two configurations, the first
// seated as Red.
func runGame(redConfig, blueConfig metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	red := agent.NewEvaluationAgent(createMCTS(redConfig))
	blue := agent.NewEvaluationAgent(createMCTS(blueConfig))
	e := engine.NewLocalEngine(red, blue)

	return e.Run()
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Evaluate != nil {
		options = append(options, searcher.WithEvaluationFn(config.Evaluate))
	}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(config.Goroutines, options...)
}
