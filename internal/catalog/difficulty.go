package catalog

import "time"

// Difficulty selects a preset that scales volatility, starting cash,
// crash probability, and round length.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// DifficultySettings are the tunables a difficulty preset controls.
type DifficultySettings struct {
	VolatilityMult   float64
	StartingCash     float64
	CrashProbability float64
	RoundDuration    time.Duration
	TotalRounds      int
}

var difficultyTable = map[Difficulty]DifficultySettings{
	DifficultyEasy: {
		VolatilityMult:   0.7,
		StartingCash:     15000,
		CrashProbability: 0.05,
		RoundDuration:    90 * time.Second,
		TotalRounds:      5,
	},
	DifficultyNormal: {
		VolatilityMult:   1.0,
		StartingCash:     10000,
		CrashProbability: 0.10,
		RoundDuration:    60 * time.Second,
		TotalRounds:      5,
	},
	DifficultyHard: {
		VolatilityMult:   1.5,
		StartingCash:     8000,
		CrashProbability: 0.15,
		RoundDuration:    45 * time.Second,
		TotalRounds:      5,
	},
}

// Settings returns the preset for a difficulty.
func Settings(d Difficulty) (DifficultySettings, bool) {
	s, ok := difficultyTable[d]
	return s, ok
}

// Valid reports whether d names a known difficulty.
func (d Difficulty) Valid() bool {
	_, ok := difficultyTable[d]
	return ok
}

func (d Difficulty) String() string { return string(d) }
