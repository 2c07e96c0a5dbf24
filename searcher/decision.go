package searcher

import (
	"math"
	"sync"

	"tetress/game"
)

// decision is a search tree node for a position where one player picks a
// placement. Rewards accumulate from the node's own player's perspective,
// so selection negates a child's value across a turn change.
type decision struct {
	sync.RWMutex
	parent     *decision
	player     string
	hash       game.StateHash
	unexplored []game.Move
	explored   []game.Move
	children   []*decision
	rewards    float64
	visits     float64
}

func newDecision(parent *decision, state game.State) *decision {
	moves := state.LegalMoves()
	return &decision{
		parent:     parent,
		player:     state.Player(),
		hash:       state.Hash(),
		unexplored: moves,
		explored:   make([]game.Move, 0, len(moves)),
		children:   make([]*decision, 0, len(moves)),
	}
}

func (d *decision) SelectOrExpand(state game.State) (*decision, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) > 0 { // Expandable node
		child, childState := d.addChild(state)
		child.applyLoss()
		return child, childState, false
	}

	if len(d.children) > 0 { // Fully expanded node
		ith := d.pickChild()
		child := d.children[ith]
		child.applyLoss()
		return child, state.Play(d.explored[ith]), true
	}

	// Terminal node
	return d, state, false
}

func (d *decision) addChild(state game.State) (*decision, game.State) {
	move := d.unexplored[0]
	d.unexplored = d.unexplored[1:]
	d.explored = append(d.explored, move)

	childState := state.Play(move)
	child := newDecision(d, childState)
	d.children = append(d.children, child)
	return child, childState
}

func (d *decision) pickChild() int {
	if d.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(CSquared, d.visits)

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(policy, d.player)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// score values the node for the given player, negating rewards across a
// turn change so that selection minimizes the opponent's returns.
func (d *decision) score(policy *uct, perspective string) float64 {
	d.RLock()
	defer d.RUnlock()

	if d.visits == 0 {
		return math.Inf(1)
	}

	q := d.rewards
	if d.player != perspective {
		q = -q
	}
	return policy.evaluate(q, d.visits)
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) Backup(player string, score float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += computeReward(player, score, d.player)
	d.visits++

	return d.parent
}

// computeReward converts a simulation outcome into this node's
// perspective: the score as is for the rewarded player, negated for the
// opponent.
func computeReward(player string, score float64, nodePlayer string) float64 {
	if player == nodePlayer {
		return score
	}
	return -score
}

// MovePolicy reports how thoroughly one legal move was explored and the
// rewards accumulated through it, from the root player's perspective.
type MovePolicy struct {
	Move    game.Move
	Visits  float64
	Rewards float64
}

// Policy returns the explored moves in enumeration order with their
// visit counts and rewards.
func (d *decision) Policy() []MovePolicy {
	d.RLock()
	defer d.RUnlock()

	policy := make([]MovePolicy, len(d.children))
	for i, child := range d.children {
		visits, rewards, player := child.stats()
		if player != d.player {
			rewards = -rewards
		}
		policy[i] = MovePolicy{
			Move:    d.explored[i],
			Visits:  visits,
			Rewards: rewards,
		}
	}
	return policy
}

func (d *decision) stats() (float64, float64, string) {
	d.RLock()
	defer d.RUnlock()

	return d.visits, d.rewards, d.player
}
