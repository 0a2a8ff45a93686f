// Package position holds the snake-draft math. Every consumer (turn
// validation, board projections, auto-pick) derives round and participant
// through Locate rather than re-implementing the reversal locally.
package position

// Slot identifies where an overall pick number falls in the draft order.
type Slot struct {
	Round            int // 1-based
	IndexInRound     int // 0-based selection index within the round
	ParticipantIndex int // index into the room's draft order
}

// Locate maps a 1-based overall pick number to its slot for the given team
// count. Even rounds reverse the selection order (snake). Pure and total for
// pickNumber >= 1 and teamCount >= 1.
func Locate(pickNumber, teamCount int) Slot {
	round := (pickNumber-1)/teamCount + 1
	idx := (pickNumber - 1) % teamCount

	participant := idx
	if round%2 == 0 {
		participant = teamCount - 1 - idx
	}

	return Slot{
		Round:            round,
		IndexInRound:     idx,
		ParticipantIndex: participant,
	}
}

// LocateIn is Locate bounded by the draft length. ok is false once
// pickNumber is past totalRounds*teamCount, signaling the draft is complete.
func LocateIn(pickNumber, teamCount, totalRounds int) (Slot, bool) {
	if pickNumber < 1 || pickNumber > teamCount*totalRounds {
		return Slot{}, false
	}
	return Locate(pickNumber, teamCount), true
}

// OverallPick is the inverse of Locate: given a round and the 0-based
// selection index within it, it returns the overall pick number.
func OverallPick(round, indexInRound, teamCount int) int {
	return (round-1)*teamCount + indexInRound + 1
}
