package question

// Difficulty tiers. The dice value maps rolls onto tiers: 1-2 easy,
// 3-4 medium, 5-6 hard.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Minimum-age gates supported by the bank.
const (
	AgeJunior = 8
	AgeSenior = 15
)

// Category describes one of the six fixed topics. Color and Icon are
// presentation hints carried through to clients.
type Category struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Categories is the fixed topic list, indexed by category index.
var Categories = [6]Category{
	{Index: 0, Name: "nature", Label: "Nature", Color: "#2e8b57", Icon: "leaf"},
	{Index: 1, Name: "science", Label: "Science", Color: "#4169e1", Icon: "flask"},
	{Index: 2, Name: "history", Label: "History", Color: "#b8860b", Icon: "scroll"},
	{Index: 3, Name: "geography", Label: "Geography", Color: "#20b2aa", Icon: "globe"},
	{Index: 4, Name: "sports", Label: "Sports", Color: "#dc143c", Icon: "trophy"},
	{Index: 5, Name: "culture", Label: "Culture", Color: "#9932cc", Icon: "masks"},
}

// Question is a single prompt with its answer options. Two options render
// as true/false on the client. Immutable once loaded.
type Question struct {
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	FunFact    string   `json:"fun_fact,omitempty"`
	Difficulty string   `json:"difficulty"`
	AgeMin     int      `json:"age_min"`
	Source     string   `json:"source,omitempty"`
}

// Valid reports whether the question is playable: at least two options and
// an answer that is one of them.
func (q Question) Valid() bool {
	if q.Prompt == "" || len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// Bank holds the question pool keyed by category name.
type Bank map[string][]Question

// ForCategory returns the pool for a category index.
func (b Bank) ForCategory(catIndex int) []Question {
	if catIndex < 0 || catIndex >= len(Categories) {
		return nil
	}
	return b[Categories[catIndex].Name]
}

// Merge returns a new bank containing b's questions plus extra's, without
// mutating either.
func (b Bank) Merge(extra Bank) Bank {
	out := make(Bank, len(b))
	for cat, qs := range b {
		out[cat] = append([]Question(nil), qs...)
	}
	for cat, qs := range extra {
		out[cat] = append(out[cat], qs...)
	}
	return out
}
