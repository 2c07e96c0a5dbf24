package searcher

import (
	"errors"
	"sync"
	"time"

	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MaxCutoff never stops a rollout early: no game outlasts the ply cap.
const MaxCutoff = game.MaxPly

// ErrNoLegalMove reports that the searched position offers the mover no
// legal placement.
var ErrNoLegalMove = errors.New("no legal move")

type Option func(mcts *MCTS)

// Segment is one step of a game's move history: the move played and the
// hash of the position it produced. A lineage of segments lets a search
// descend its previous tree to the current position.
type Segment struct {
	Move      game.Move
	StateHash game.StateHash
}

type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   game.Evaluate
	seed       uint64
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithSeed fixes the rollout randomness: searches with the same seed, a
// single goroutine and an episode budget repeat move for move.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		if seed > 0 {
			m.seed = seed
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: goroutines,
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluatePosition,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if m.seed == 0 {
		m.seed = uint64(time.Now().UnixNano())
	}
	return m
}

// Simulate searches the given position and returns the move policy at
// the root plus metrics for the search. The lineage of moves since the
// previous search lets Simulate reuse the matching subtree instead of
// starting over.
func (m *MCTS) Simulate(state game.State, lineage []Segment) ([]MovePolicy, metrics.SearchMetric) {
	m.findRoot(lineage, state)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	metric := m.metrics.Complete()

	// Output the move policy and search metrics
	return m.root.Policy(), metric
}

func (m *MCTS) findRoot(lineage []Segment, state game.State) {
	root := traverse(m.root, lineage)
	if root != nil && root.hash != state.Hash() {
		log.Warn().Msgf("root's state hash %d does not match the game state's hash %d", root.hash, state.Hash())
		root = nil
	}

	if root == nil {
		m.root = newDecision(nil, state)
		m.metrics.SetTreeReset(true)
	} else {
		root.parent = nil
		m.root = root
		m.metrics.SetTreeReset(false)
	}
}

func traverse(root *decision, lineage []Segment) *decision {
	if root == nil {
		return nil
	}

	node := root
	for _, segment := range lineage {
		ith := utils.FindIndex(node.explored, segment.Move)
		if ith == -1 { // Node has not expanded this move
			return nil
		}

		child := node.children[ith]
		if child.hash != segment.StateHash {
			log.Warn().Msgf("node's state hash %d does not match segment's state hash %d", child.hash, segment.StateHash)
			return nil
		}
		node = child
	}
	return node
}

func (m *MCTS) iterate(state game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var deadline time.Time
	if m.duration > 0 { // Whichever budget runs out first
		deadline = time.Now().Add(m.duration)
	}

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(m.seed + uint64(i)))
		go func() {
			defer wg.Done()

			for range task {
				if !deadline.IsZero() && !time.Now().Before(deadline) {
					return
				}
				m.simulate(state, rng)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(state game.State) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(m.seed + uint64(i)))
		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state, rng)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(state game.State, rng *rand.Rand) {
	newNode, newState := selectThenExpand(m.root, state)
	player, score := rollout(newState, rng, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, player, score)
}

func selectThenExpand(root *decision, state game.State) (*decision, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state game.State, rng *rand.Rand, cutoff int, evaluate game.Evaluate, collector metrics.Collector) (string, float64) {
	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		state = state.Play(move)
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		collector.AddFullPlayout()
		winner := state.Winner()
		if winner == game.Draw {
			return winner, Draw
		}
		return winner, Win
	}

	// At the cutoff, return an evaluation score from the current player's perspective
	return state.Player(), evaluate(state)
}

func backup(newNode *decision, player string, score float64) {
	node := newNode
	for node != nil {
		parent := node.Backup(player, score)
		node = parent
	}
}
