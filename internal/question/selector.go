package question

import "github.com/featherquest/featherquest/internal/random"

// Select narrows the category pool and picks one question at random.
//
// Filters apply in order, each kept only if it leaves candidates:
//  1. difficulty tier (relaxed when nothing matches)
//  2. age gate (never relaxed)
//  3. not already asked (relaxed when everything was asked)
//
// An exhausted pool falls back to the full category bank; only a truly
// empty bank yields ok=false, which callers handle by skipping the turn.
func Select(bank Bank, catIndex int, difficulty string, playerAge int, asked map[string]bool, rng random.Source) (Question, bool) {
	pool := bank.ForCategory(catIndex)
	if len(pool) == 0 {
		return Question{}, false
	}

	byTier := filter(pool, func(q Question) bool { return q.Difficulty == difficulty })
	if len(byTier) == 0 {
		byTier = pool
	}

	byAge := filter(byTier, func(q Question) bool { return q.AgeMin <= playerAge })

	fresh := filter(byAge, func(q Question) bool { return !asked[q.Prompt] })
	if len(fresh) == 0 {
		fresh = byAge
	}
	if len(fresh) == 0 {
		fresh = filter(pool, func(q Question) bool { return q.AgeMin <= playerAge })
	}
	if len(fresh) == 0 {
		return Question{}, false
	}

	return fresh[rng.Intn(len(fresh))], true
}

func filter(qs []Question, keep func(Question) bool) []Question {
	var out []Question
	for _, q := range qs {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
