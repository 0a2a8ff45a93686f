package position

import "testing"

func TestLocate(t *testing.T) {
	tests := []struct {
		name            string
		pickNumber      int
		teamCount       int
		wantRound       int
		wantIndex       int
		wantParticipant int
	}{
		{"first pick", 1, 12, 1, 0, 0},
		{"last pick of round one", 12, 12, 1, 11, 11},
		{"round two reverses", 13, 12, 2, 0, 11},
		{"last pick of round two", 24, 12, 2, 11, 0},
		{"round three restores order", 25, 12, 3, 0, 0},
		{"mid round four", 40, 12, 4, 3, 8},
		{"two team draft", 4, 2, 2, 1, 0},
		{"single team", 5, 1, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := Locate(tt.pickNumber, tt.teamCount)
			if slot.Round != tt.wantRound {
				t.Errorf("Round = %d, want %d", slot.Round, tt.wantRound)
			}
			if slot.IndexInRound != tt.wantIndex {
				t.Errorf("IndexInRound = %d, want %d", slot.IndexInRound, tt.wantIndex)
			}
			if slot.ParticipantIndex != tt.wantParticipant {
				t.Errorf("ParticipantIndex = %d, want %d", slot.ParticipantIndex, tt.wantParticipant)
			}
		})
	}
}

func TestLocateRoundTrip(t *testing.T) {
	// Every pick in a 12-team, 18-round draft must map back to itself.
	const teamCount, totalRounds = 12, 18
	for pick := 1; pick <= teamCount*totalRounds; pick++ {
		slot := Locate(pick, teamCount)
		if got := OverallPick(slot.Round, slot.IndexInRound, teamCount); got != pick {
			t.Fatalf("OverallPick(Locate(%d)) = %d", pick, got)
		}
	}
}

func TestLocateEveryParticipantPicksOncePerRound(t *testing.T) {
	const teamCount = 10
	for round := 1; round <= 4; round++ {
		seen := make(map[int]bool)
		for idx := 0; idx < teamCount; idx++ {
			pick := OverallPick(round, idx, teamCount)
			slot := Locate(pick, teamCount)
			if seen[slot.ParticipantIndex] {
				t.Fatalf("round %d: participant %d picked twice", round, slot.ParticipantIndex)
			}
			seen[slot.ParticipantIndex] = true
		}
	}
}

func TestLocateIn(t *testing.T) {
	if _, ok := LocateIn(0, 12, 18); ok {
		t.Error("pick 0 should be out of bounds")
	}
	if _, ok := LocateIn(217, 12, 18); ok {
		t.Error("pick past the draft should be out of bounds")
	}

	slot, ok := LocateIn(216, 12, 18)
	if !ok {
		t.Fatal("final pick should be in bounds")
	}
	if slot.Round != 18 || slot.ParticipantIndex != 0 {
		t.Errorf("final pick slot = %+v, want round 18 participant 0", slot)
	}
}
