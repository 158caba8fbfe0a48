// Package engine provides the core rules of the wolf and rabbits chase game.
//
// A match is played on an 8x8 grid with an L-shaped safety zone beyond the
// south-east corner, reachable only through two door cells. One wolf hunts
// one to three rabbits. Every round runs the same cycle:
//   - rock-paper-scissors decides who answers a trivia question
//   - each loser acknowledges a question in turn
//   - every player rolls a die and moves exactly that many steps
//
// The wolf scores by landing on a rabbit, rabbits score by reaching the
// safety zone or grabbing a collectible. The first role to reach the
// victory threshold wins and the match becomes read-only.
//
// Core Types:
//
// Match is the turn/phase state machine and implements the Engine
// interface. MatchState is the aggregate it owns, GameConfig the rules
// preset it is built from. Reachable and GenerateObstacles are the pure
// board algorithms the machine is built on.
//
// AI pacing is cooperative: after each transition the match schedules at
// most one Tick for the next AI decision. Callers fire it after its delay
// with FireTick, or drain everything at once with RunPendingTicks. Any
// accepted transition cancels ticks handed out earlier.
//
// Usage:
//
//	m, err := engine.ConfigureMatch(2, 5, []engine.Role{engine.Rabbit})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m.SubmitRPSChoice(engine.Rabbit, engine.Rock)
//	m.RunPendingTicks(100)
//	state := m.Snapshot()
package engine
