package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tetress/engine"
	"tetress/experiments"
	"tetress/game"
	"tetress/searcher"
	"tetress/searcher/agent"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	goroutines := flag.Int("goroutines", 8, "Number of goroutines for parallel search")
	episodes := flag.Int("episodes", 0, "Number of search episodes per move")
	duration := flag.Duration("duration", 180*time.Millisecond, "Search time per move")
	cutoff := flag.Int("cutoff", 0, "Rollout depth cutoff (0 for full playouts)")
	seed := flag.Uint64("seed", 0, "Seed for reproducible searches")
	games := flag.Int("games", 1, "Number of games to play")
	render := flag.Bool("render", false, "Render the board after every move")
	experiment := flag.String("experiment", "", "Experiment to run: parallelization, throughput, cutoff, evaluator")
	serve := flag.String("serve", "", "Serve an agent on this port instead of playing locally")
	redURL := flag.String("red-url", "", "URL of a remote red agent")
	blueURL := flag.String("blue-url", "", "URL of a remote blue agent")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch {
	case *experiment != "":
		runExperiment(*experiment)
	case *serve != "":
		mcts := createMCTS(*goroutines, *episodes, *duration, *cutoff, *seed)
		agent.StartServer(*serve, agent.NewEvaluationAgent(mcts))
	case *redURL != "" || *blueURL != "":
		runRemoteGame(*redURL, *blueURL)
	default:
		runLocalGames(*games, *goroutines, *episodes, *duration, *cutoff, *seed, *render)
	}
}

func runExperiment(name string) {
	switch name {
	case "parallelization":
		experiments.RunParallelizationExperiment()
	case "throughput":
		experiments.RunThroughputExperiment()
	case "cutoff":
		experiments.RunCutoffExperiment()
	case "evaluator":
		experiments.RunEvaluatorExperiment()
	default:
		log.Fatal().Msgf("unknown experiment %q", name)
	}
}

func runRemoteGame(redURL, blueURL string) {
	if redURL == "" || blueURL == "" {
		log.Fatal().Msg("both -red-url and -blue-url are required")
	}

	e := engine.NewRemoteEngine(redURL, blueURL)
	winner, gameMetric, _ := e.Run()
	log.Info().Msgf("winner: %s in %d moves", winner, gameMetric.TotalMoves)
}

func runLocalGames(games, goroutines, episodes int, duration time.Duration, cutoff int, seed uint64, render bool) {
	for i := 0; i < games; i++ {
		red := agent.NewEvaluationAgent(createMCTS(goroutines, episodes, duration, cutoff, seed))
		blue := agent.NewEvaluationAgent(createMCTS(goroutines, episodes, duration, cutoff, seed))
		e := engine.NewLocalEngine(red, blue)
		if render {
			e.Observer = renderBoard
		}

		winner, gameMetric, _ := e.Run()
		if !render {
			printBoard(e.State)
		}
		log.Info().Msgf("game %d of %d: %s in %d moves", i+1, games, winner, gameMetric.TotalMoves)
	}
}

func createMCTS(goroutines, episodes int, duration time.Duration, cutoff int, seed uint64) *searcher.MCTS {
	options := []searcher.Option{}

	if episodes > 0 {
		options = append(options, searcher.WithEpisodes(episodes))
	}
	if duration > 0 {
		options = append(options, searcher.WithDuration(duration))
	}
	if cutoff > 0 {
		options = append(options, searcher.WithCutoff(cutoff))
	}
	if seed > 0 {
		options = append(options, searcher.WithSeed(seed))
	}

	return searcher.NewMCTS(goroutines, options...)
}

func renderBoard(state *game.BoardState, move game.PlaceAction) {
	fmt.Printf("ply %d: %s\n", state.Ply, move)
	printBoard(state)
}

func printBoard(state *game.BoardState) {
	output := termenv.NewOutput(os.Stdout)

	for row := 0; row < game.BoardSize; row++ {
		for col := 0; col < game.BoardSize; col++ {
			switch state.Cells[row*game.BoardSize+col] {
			case game.Red:
				fmt.Print(output.String("●").Foreground(termenv.ANSIRed))
			case game.Blue:
				fmt.Print(output.String("●").Foreground(termenv.ANSIBlue))
			default:
				fmt.Print(output.String("·").Foreground(termenv.ANSIBrightBlack))
			}
			fmt.Print(" ")
		}
		fmt.Println()
	}
	fmt.Println()
}
