package domain

// Player slots below 128 are on the Radiant side.
const direSlotStart = 128

func IsRadiant(playerSlot int) bool {
	return playerSlot < direSlotStart
}

func DeriveOutcome(r MatchRecord) MatchRecord {
	r.Win = IsRadiant(r.PlayerSlot) == r.RadiantWin
	r.Loss = !r.Win
	return r
}

func DeriveOutcomes(records []MatchRecord) []MatchRecord {
	out := make([]MatchRecord, len(records))
	for i, r := range records {
		out[i] = DeriveOutcome(r)
	}
	return out
}
