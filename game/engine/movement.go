package engine

import "fmt"

// boardFor builds the occupancy the mover p sees
func (m *Match) boardFor(p *Player) BoardView {
	bv := BoardView{Obstacles: m.obstacles}
	if w := m.wolf(); w != nil {
		bv.Wolf = w.Pos
	}
	for _, q := range m.state.Players {
		if q.Species == Prey && q.Role != p.Role {
			bv.Rabbits = append(bv.Rabbits, q.Pos)
		}
	}
	if c := m.collectible(); c != nil {
		pos := c.Pos
		bv.Collectible = &pos
	}
	return bv
}

// situation is the AI's view of the board for mover p
func (m *Match) situation(p *Player) Situation {
	sit := Situation{BonusTiles: m.bonusTiles()}
	if w := m.wolf(); w != nil {
		sit.Wolf = w.Pos
	}
	for _, q := range m.state.Players {
		if q.Species == Prey && q.Role != p.Role {
			sit.Rabbits = append(sit.Rabbits, q.Pos)
		}
	}
	if c := m.collectible(); c != nil {
		pos := c.Pos
		sit.Collectible = &pos
	}
	return sit
}

func (m *Match) rollBonus(p *Player) int {
	if p.Species == Prey {
		return m.config.RabbitRollBonus
	}
	return 0
}

// startDicePhase builds the movement queue: the wolf first, then the
// rabbits rotated by one seat per dice round.
func (m *Match) startDicePhase() {
	m.state.Phase = PhaseDice
	m.state.Trivia = nil
	m.state.PendingRoll = nil
	m.state.LegalMoves = []Position{}

	queue := []Role{Wolf}
	rabbits := m.rabbitRoles()
	if n := len(rabbits); n > 0 {
		offset := m.state.DiceRound % n
		for i := 0; i < n; i++ {
			queue = append(queue, rabbits[(offset+i)%n])
		}
	}
	m.state.DiceQueue = queue
	m.state.DiceRound++
	m.promptNextMover()
}

// sanitizeQueue drops roles that are not in the roster. A queue left with
// nothing valid is rebuilt from the roster order.
func (m *Match) sanitizeQueue() {
	if len(m.state.DiceQueue) == 0 {
		return
	}
	valid := make([]Role, 0, len(m.state.DiceQueue))
	for _, r := range m.state.DiceQueue {
		if m.player(r) != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		valid = m.roles()
	}
	m.state.DiceQueue = valid
}

// promptNextMover skips players that no die face can move, then either
// prompts the head of the queue or closes the dice round.
func (m *Match) promptNextMover() {
	m.sanitizeQueue()
	for len(m.state.DiceQueue) > 0 {
		p := m.player(m.state.DiceQueue[0])
		board := m.boardFor(p)
		if !TrappedForAllRolls(p.Pos, p.Species, m.rollBonus(p), m.config.DieFaces, board) {
			break
		}
		m.state.DiceQueue = m.state.DiceQueue[1:]
		m.feedback = true
		m.record(newEvent(EventBypassed, p.Role, fmt.Sprintf(m.config.Messages.Bypassed, p.Label)))
	}

	if len(m.state.DiceQueue) == 0 {
		m.endDicePhase()
		return
	}
	m.state.Message = fmt.Sprintf(m.config.Messages.RollPrompt, m.state.DiceQueue[0].Label())
	m.scheduleNext()
}

func (m *Match) endDicePhase() {
	m.state.DiceQueue = []Role{}
	m.onRoundEnd()
	m.enterRPS()
}

// RollDice rolls for the player at the head of the dice queue. A roll that
// opens no destination is a trapped roll: the player loses this turn only.
func (m *Match) RollDice(role Role) (RollResult, bool) {
	if m.state.MatchDecided || m.state.Phase != PhaseDice || m.state.PendingRoll != nil {
		return RollResult{}, false
	}
	m.sanitizeQueue()
	if len(m.state.DiceQueue) == 0 || m.state.DiceQueue[0] != role {
		return RollResult{}, false
	}
	p := m.player(role)

	value := 1 + m.rng.IntN(m.config.DieFaces)
	bonus := m.rollBonus(p)
	res := RollResult{
		Role:  role,
		Value: value,
		Bonus: bonus,
		Steps: value + bonus,
	}
	res.Destinations = SetToSlice(Reachable(p.Pos, p.Species, res.Steps, m.boardFor(p)))

	msg := fmt.Sprintf(m.config.Messages.Rolled, p.Label, value)
	if bonus > 0 {
		msg += fmt.Sprintf(" +%d bonus: %d steps.", bonus, res.Steps)
	}
	ev := newEvent(EventRoll, role, msg)
	ev.Value = value
	m.record(ev)
	last := res
	m.state.LastRoll = &last

	if len(res.Destinations) == 0 {
		res.Trapped = true
		m.state.LastRoll.Trapped = true
		m.record(newEvent(EventTrapped, role, fmt.Sprintf(m.config.Messages.Trapped, p.Label)))
		m.state.DiceQueue = m.state.DiceQueue[1:]
		m.feedback = true
		m.promptNextMover()
		return res, true
	}

	pending := res
	pending.Destinations = append([]Position(nil), res.Destinations...)
	m.state.PendingRoll = &pending
	m.state.LegalMoves = append([]Position(nil), res.Destinations...)
	m.scheduleNext()
	return res, true
}

// SubmitMove moves the rolling player to one of its legal destinations and
// resolves everything the landing triggers.
func (m *Match) SubmitMove(role Role, dest Position) (MoveResult, bool) {
	if m.state.MatchDecided || m.state.Phase != PhaseDice || m.state.PendingRoll == nil {
		return MoveResult{}, false
	}
	if m.state.PendingRoll.Role != role || !containsPosition(m.state.PendingRoll.Destinations, dest) {
		return MoveResult{}, false
	}
	p := m.player(role)
	res := MoveResult{Role: role, From: p.Pos, To: dest}

	from := p.Pos
	p.Pos = dest
	m.state.PendingRoll = nil
	m.state.LegalMoves = []Position{}
	ev := newEvent(EventMove, role, fmt.Sprintf("%s moved to (%d,%d).", p.Label, dest.X, dest.Y))
	ev.From, ev.To = &from, &dest
	m.record(ev)

	rest := []Role{}
	if len(m.state.DiceQueue) > 0 {
		rest = m.state.DiceQueue[1:]
	}
	var extra []Role

	kind, decided := m.applyTile(p)
	res.Collected = kind == Collectible
	res.BonusTriggered = kind == BonusRoll
	if res.BonusTriggered {
		extra = append(extra, role)
	}

	if !decided {
		switch p.Species {
		case Predator:
			for i := range m.state.Players {
				q := &m.state.Players[i]
				if q.Species != Prey || q.Pos != p.Pos {
					continue
				}
				res.Captured = true
				res.CaughtRole = q.Role
				m.feedback = true
				decided = m.award(p, EventCaught, fmt.Sprintf(m.config.Messages.Caught, q.Label))
				if !decided {
					var bonusAgain bool
					res.Respawned, decided, bonusAgain = m.respawn(q)
					if bonusAgain {
						extra = append(extra, q.Role)
					}
				}
				break
			}
		case Prey:
			if p.Pos.InSafetyZone() {
				res.Escaped = true
				m.feedback = true
				decided = m.award(p, EventEscaped, fmt.Sprintf(m.config.Messages.Escaped, p.Label))
				if !decided {
					var bonusAgain bool
					res.Respawned, decided, bonusAgain = m.respawn(p)
					if bonusAgain {
						extra = append(extra, p.Role)
					}
				}
			}
		}
	}

	if decided {
		res.VictoryRole = m.state.Winner
		return res, true
	}

	m.state.DiceQueue = append(extra, rest...)
	m.promptNextMover()
	return res, true
}

// respawn puts a rabbit back on a start corner and applies any tile found
// there.
func (m *Match) respawn(p *Player) (*Position, bool, bool) {
	cell := m.respawnCell(p)
	p.Pos = cell
	ev := newEvent(EventRespawn, p.Role, fmt.Sprintf("%s is back at (%d,%d).", p.Label, cell.X, cell.Y))
	ev.To = &cell
	m.record(ev)

	kind, decided := m.applyTile(p)
	out := cell
	return &out, decided, kind == BonusRoll
}

// respawnCell picks the unoccupied rabbit corner farthest from the wolf,
// preferring the rabbit's own corner on ties. Cells walled off from both
// doors are never used. If every corner is ruled out the farthest free grid
// cell is used.
func (m *Match) respawnCell(p *Player) Position {
	wolf := m.wolf().Pos
	doors := Doors()
	best, found, bestDist := Position{}, false, 0.0

	consider := func(c Position) {
		if m.occupied(c, p.Role) || !PathExists(c, doors, m.obstacles) {
			return
		}
		if d := EuclideanDistance(c, wolf); !found || d > bestDist {
			best, found, bestDist = c, true, d
		}
	}
	for _, c := range respawnCandidates(p.Role) {
		consider(c)
	}
	if found {
		return best
	}
	for _, c := range gridCells() {
		if !m.obstacles.Has(c) {
			consider(c)
		}
	}
	if !found {
		return p.Start
	}
	return best
}

// occupied reports whether any player other than except stands on c
func (m *Match) occupied(c Position, except Role) bool {
	for _, q := range m.state.Players {
		if q.Role != except && q.Pos == c {
			return true
		}
	}
	return false
}

// playAIMove lets the AI choose and play a destination for the pending roll
func (m *Match) playAIMove(role Role) bool {
	roll := m.state.PendingRoll
	if roll == nil || roll.Role != role {
		return false
	}
	p := m.player(role)
	sit := m.situation(p)

	var dest Position
	var ok bool
	if p.Species == Predator {
		dest, ok = ChooseWolfDestination(roll.Destinations, sit, m.rng)
	} else {
		dest, ok = ChooseRabbitDestination(roll.Destinations, sit, m.rng)
	}
	if !ok {
		return false
	}
	_, ok = m.SubmitMove(role, dest)
	return ok
}
