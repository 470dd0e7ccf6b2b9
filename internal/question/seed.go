package question

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed.json
var seedData []byte

// SeedBank returns the bundled starter bank. Used when no Postgres bank is
// configured so the game is playable out of the box.
func SeedBank() Bank {
	var bank Bank
	if err := json.Unmarshal(seedData, &bank); err != nil {
		// The seed ships with the binary; failing to parse it is a build
		// defect, not a runtime condition.
		panic("question: corrupt embedded seed bank: " + err.Error())
	}
	return bank
}
