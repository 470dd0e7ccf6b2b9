package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/featherquest/featherquest/internal/board"
	"github.com/featherquest/featherquest/internal/question"
	"github.com/featherquest/featherquest/internal/random"
)

// Movement and reward constants.
const (
	tailwindSpaces    = 3
	shortcutSpaces    = 5
	doubleStake       = 6
	knockbackSpaces   = 3
	streakHintAt      = 3
	streakMoveAt      = 5
	streakMoveSpaces  = 3
	speedBonusSpaces  = 1
	hintEliminations  = 2
	forcedEasyStreak  = 3
	defaultSpeedBonus = 4 * time.Second
)

// Deps are the read-only collaborators threaded through every transition.
// Board and Bank never change during a game (Bank is swapped wholesale by
// the caller on UpdateQuestions); RNG and Now are seams for determinism.
type Deps struct {
	Board            []board.Space
	Bank             question.Bank
	RNG              random.Source
	Now              func() time.Time
	SpeedBonusWindow time.Duration
}

func (d Deps) space(pos int) board.Space {
	return d.Board[pos]
}

func (d Deps) speedWindow() time.Duration {
	if d.SpeedBonusWindow > 0 {
		return d.SpeedBonusWindow
	}
	return defaultSpeedBonus
}

// Reduce is the game's single transition function: given the current state
// and one action it returns the successor state plus side-effect requests.
// It is total — every declared action in every phase yields a state, with
// invalid-phase actions degrading to identity.
func Reduce(deps Deps, s State, a Action) (State, []Effect) {
	switch act := a.(type) {
	case SetPlayers:
		return reduceSetPlayers(s, act), nil
	case SetDifficulty:
		return reduceSetDifficulty(s, act)
	case StartGame:
		return reduceStartGame(s), nil
	case RollDice:
		return reduceRoll(deps, s, act), nil
	case ChooseHubCategory:
		return reduceChooseHub(deps, s, act), nil
	case ResolveEvent:
		return reduceResolveEvent(deps, s, act), nil
	case Answer:
		return reduceAnswer(deps, s, act.Answer, false)
	case TimerExpired:
		return reduceAnswer(deps, s, "", true)
	case UseHint:
		return reduceUseHint(deps, s), nil
	case PenaltyMove:
		return reducePenalty(s, act), nil
	case NextTurn:
		return reduceNextTurn(s)
	case ToggleEditor:
		next := s.Clone()
		next.ShowEditor = !next.ShowEditor
		return next, nil
	case ToggleStats:
		next := s.Clone()
		next.ShowStats = !next.ShowStats
		return next, nil
	case ToggleSettings:
		next := s.Clone()
		next.ShowSettings = !next.ShowSettings
		return next, nil
	case UpdateQuestions:
		next := s.Clone()
		next.Message = "Question bank updated."
		return next, []Effect{PersistQuestions{Custom: act.Custom}}
	case Reset:
		return NewState(), nil
	default:
		return s, nil
	}
}

func reduceSetPlayers(s State, act SetPlayers) State {
	if s.Phase != PhaseSetup {
		return s
	}
	next := s.Clone()

	count := act.Count
	if count < MinPlayers {
		count = MinPlayers
	}
	if count > MaxPlayers {
		count = MaxPlayers
	}

	preset := Presets[next.Difficulty]
	next.Players = make([]Player, count)
	next.GameStats = make([]PlayerStats, count)
	for i := range next.Players {
		name := fmt.Sprintf("Player %d", i+1)
		if i < len(act.Names) && act.Names[i] != "" {
			name = act.Names[i]
		}
		age := 30
		if i < len(act.Ages) && act.Ages[i] > 0 {
			age = act.Ages[i]
		}
		next.Players[i] = Player{
			Name:  name,
			Age:   age,
			Color: playerColors[i],
			Emoji: playerEmojis[i],
			Hints: preset.Hints,
		}
	}
	next.Message = fmt.Sprintf("%d players ready.", count)
	return next
}

func reduceSetDifficulty(s State, act SetDifficulty) (State, []Effect) {
	preset, ok := Presets[act.Difficulty]
	if !ok || s.Phase != PhaseSetup {
		return s, nil
	}
	next := s.Clone()
	next.Difficulty = act.Difficulty
	next.TimerSeconds = preset.TimerSeconds
	for i := range next.Players {
		next.Players[i].Hints = preset.Hints
	}
	next.Message = fmt.Sprintf("Difficulty set to %s.", act.Difficulty)
	return next, []Effect{PersistSettings{Difficulty: act.Difficulty, TimerSeconds: preset.TimerSeconds}}
}

func reduceStartGame(s State) State {
	if s.Phase != PhaseSetup || len(s.Players) < MinPlayers {
		return s
	}
	next := s.Clone()
	next.Phase = PhasePlaying
	next.Turn = 1
	next.log(0, fmt.Sprintf("Game on! %s rolls first.", next.Players[0].Name))
	return next
}

func tierForRoll(value int) string {
	switch {
	case value <= 2:
		return question.DifficultyEasy
	case value <= 4:
		return question.DifficultyMedium
	default:
		return question.DifficultyHard
	}
}

func reduceRoll(deps Deps, s State, act RollDice) State {
	if s.Phase != PhasePlaying || act.Value < 1 {
		return s
	}
	next := s.Clone()
	p := &next.Players[next.CurrentPlayer]

	next.PreRollPosition = p.Position
	next.DiceValue = act.Value

	// Catch-up: three wrong in a row forces easy questions regardless of roll.
	if p.WrongStreak >= forcedEasyStreak {
		next.RollTier = question.DifficultyEasy
	} else {
		next.RollTier = tierForRoll(act.Value)
	}

	p.Position = clampPos(p.Position + act.Value + act.Bonus + act.CatchupBonus)
	landed := deps.space(p.Position)

	switch {
	case landed.IsHub:
		next.Phase = PhaseHubChoice
		next.log(next.CurrentPlayer, fmt.Sprintf("%s rolled %d and reached a hub! Choose a category.", p.Name, act.Value))
	case landed.IsEvent:
		next.Phase = PhaseEvent
		next.CurrentEvent = landed.EventKind
		next.log(next.CurrentPlayer, fmt.Sprintf("%s rolled %d and hit an event space: %s!", p.Name, act.Value, eventLabel(landed.EventKind)))
	default:
		if !askQuestion(deps, &next, landed.CategoryIndex, next.RollTier) {
			skipTurn(&next, "No questions! Next turn.")
		}
	}
	return next
}

func reduceChooseHub(deps Deps, s State, act ChooseHubCategory) State {
	if s.Phase != PhaseHubChoice || act.CatIndex < 0 || act.CatIndex >= board.NumCategories {
		return s
	}
	next := s.Clone()
	if !askQuestion(deps, &next, act.CatIndex, next.RollTier) {
		skipTurn(&next, fmt.Sprintf("No %s questions! Next turn.", question.Categories[act.CatIndex].Label))
	}
	return next
}

func reduceResolveEvent(deps Deps, s State, act ResolveEvent) State {
	if s.Phase != PhaseEvent {
		return s
	}
	next := s.Clone()
	p := &next.Players[next.CurrentPlayer]

	var note string
	switch next.CurrentEvent {
	case board.EventHintGift:
		p.Hints++
		note = "A gift! +1 hint."
	case board.EventTailwind:
		p.Position = clampPos(p.Position + tailwindSpaces)
		note = "Tailwind! +3 spaces."
	case board.EventShortcut:
		p.Position = clampPos(p.Position + shortcutSpaces)
		note = "Shortcut! +5 spaces."
	case board.EventSwap:
		if act.TargetPlayer >= 0 && act.TargetPlayer < len(next.Players) && act.TargetPlayer != next.CurrentPlayer {
			target := &next.Players[act.TargetPlayer]
			p.Position, target.Position = target.Position, p.Position
			note = fmt.Sprintf("Swapped places with %s!", target.Name)
		} else {
			note = "No swap target. Nothing happens."
		}
	case board.EventBonusRoll:
		bonus := act.BonusValue
		if bonus < 1 || bonus > 6 {
			bonus = 1
		}
		p.Position = clampPos(p.Position + bonus)
		note = fmt.Sprintf("Bonus roll! +%d spaces.", bonus)
	case board.EventDoubleOrNothing:
		next.DoubleOrNothing = true
		next.RollTier = question.DifficultyHard
		note = "DOUBLE OR NOTHING! A hard question for +6 or -6 spaces."
	default:
		return s
	}

	landed := deps.space(p.Position)
	if landed.IsHub {
		next.Phase = PhaseHubChoice
		next.log(next.CurrentPlayer, note+" Landed on a hub — choose a category.")
		return next
	}
	if !askQuestion(deps, &next, landed.CategoryIndex, next.RollTier) {
		skipTurn(&next, note+" No questions! Next turn.")
		return next
	}
	next.Message = note + " " + next.Message
	return next
}

func reduceAnswer(deps Deps, s State, submitted string, timedOut bool) (State, []Effect) {
	if s.Phase != PhaseQuestion || s.AnswerRevealed || s.CurrentQuestion == nil {
		return s, nil
	}
	next := s.Clone()
	p := &next.Players[next.CurrentPlayer]
	q := next.CurrentQuestion
	wasOnHub := deps.space(p.Position).IsHub

	correct := !timedOut && submitted == q.Answer
	next.SelectedAnswer = submitted
	next.AnswerRevealed = true

	// Streak bookkeeping happens on every answer, double-or-nothing included.
	if correct {
		p.CorrectStreak++
		p.WrongStreak = 0
		next.GameStats[next.CurrentPlayer].Correct++
		if p.CorrectStreak > next.GameStats[next.CurrentPlayer].BestStreak {
			next.GameStats[next.CurrentPlayer].BestStreak = p.CorrectStreak
		}
	} else {
		p.WrongStreak++
		p.CorrectStreak = 0
	}

	effects := []Effect{AnswerRecorded{Player: next.CurrentPlayer, CatIndex: next.CurrentCatIndex, Correct: correct}}

	if next.DoubleOrNothing {
		// The stake is the whole resolution: no feathers, rewards or bonuses.
		if correct {
			p.Position = clampPos(p.Position + doubleStake)
			next.log(next.CurrentPlayer, "DOUBLE OR NOTHING: Correct! +6 spaces!")
		} else {
			p.Position = clampPos(p.Position - doubleStake)
			next.log(next.CurrentPlayer, "DOUBLE OR NOTHING: Wrong! -6 spaces!")
		}
		return next, effects
	}

	if !correct {
		if timedOut {
			next.log(next.CurrentPlayer, fmt.Sprintf("Time's up! The answer was: %s.", q.Answer))
		} else {
			next.log(next.CurrentPlayer, fmt.Sprintf("Wrong! The answer was: %s.", q.Answer))
		}
		return next, effects
	}

	parts := []string{"Correct!"}

	if wasOnHub {
		if !p.Feathers[next.CurrentCatIndex] {
			p.Feathers[next.CurrentCatIndex] = true
			parts = append(parts, fmt.Sprintf("You earned the %s feather!", question.Categories[next.CurrentCatIndex].Label))
			if p.HasAllFeathers() {
				next.Winner = next.CurrentPlayer
				parts = append(parts, fmt.Sprintf("%s has all 6 feathers and WINS!", p.Name))
				effects = append(effects, GameOver{Winner: next.Winner})
			}
		} else {
			parts = append(parts, fmt.Sprintf("You already have the %s feather.", question.Categories[next.CurrentCatIndex].Label))
		}
	}

	switch p.CorrectStreak {
	case streakHintAt:
		p.Hints++
		next.StreakReward = "3 in a row! +1 Hint!"
		parts = append(parts, next.StreakReward)
	case streakMoveAt:
		p.Position = clampPos(p.Position + streakMoveSpaces)
		next.StreakReward = "5 in a row! +3 spaces!"
		parts = append(parts, next.StreakReward)
	}

	if deps.Now().Sub(next.QuestionStartTime) <= deps.speedWindow() {
		p.Position = clampPos(p.Position + speedBonusSpaces)
		parts = append(parts, "SPEED BONUS +1!")
	}

	// King of the hill: sharing a space with the answerer is unhealthy.
	for i := range next.Players {
		if i == next.CurrentPlayer {
			continue
		}
		if next.Players[i].Position == p.Position {
			next.Players[i].Position = clampPos(next.Players[i].Position - knockbackSpaces)
			parts = append(parts, fmt.Sprintf("%s got bumped back 3 spaces!", next.Players[i].Name))
		}
	}

	if q.FunFact != "" {
		parts = append(parts, q.FunFact)
	}
	next.log(next.CurrentPlayer, strings.Join(parts, " "))
	return next, effects
}

func reduceUseHint(deps Deps, s State) State {
	if s.Phase != PhaseQuestion || s.AnswerRevealed || s.CurrentQuestion == nil {
		return s
	}
	if s.Players[s.CurrentPlayer].Hints <= 0 {
		return s
	}

	eliminated := map[string]bool{}
	for _, opt := range s.EliminatedOptions {
		eliminated[opt] = true
	}
	var candidates []string
	for _, opt := range s.CurrentQuestion.Options {
		if opt != s.CurrentQuestion.Answer && !eliminated[opt] {
			candidates = append(candidates, opt)
		}
	}
	if len(candidates) < hintEliminations {
		return s
	}

	next := s.Clone()
	for i := 0; i < hintEliminations; i++ {
		pick := deps.RNG.Intn(len(candidates))
		next.EliminatedOptions = append(next.EliminatedOptions, candidates[pick])
		candidates = append(candidates[:pick], candidates[pick+1:]...)
	}
	next.Players[next.CurrentPlayer].Hints--
	next.Message = "Hint used: two wrong answers removed."
	return next
}

func reducePenalty(s State, act PenaltyMove) State {
	if s.Phase != PhaseQuestion || !s.AnswerRevealed || act.Value < 0 {
		return s
	}
	next := s.Clone()
	p := &next.Players[next.CurrentPlayer]

	// Rollback is anchored at the pre-roll position so a turn's gains are
	// lost, never more.
	pos := next.PreRollPosition - act.Value
	if pos < 0 {
		pos = 0
	}
	p.Position = pos
	next.log(next.CurrentPlayer, fmt.Sprintf("Penalty! %s slides back to space %d.", p.Name, pos))
	return next
}

func reduceNextTurn(s State) (State, []Effect) {
	if s.Winner != NoWinner {
		next := s.Clone()
		next.Phase = PhaseGameOver
		next.Message = fmt.Sprintf("%s wins the game!", next.Players[next.Winner].Name)
		return next, nil
	}
	if s.Phase == PhaseSetup || s.Phase == PhaseGameOver {
		return s, nil
	}
	next := s.Clone()
	advance(&next)
	next.log(next.CurrentPlayer, fmt.Sprintf("%s's turn.", next.Players[next.CurrentPlayer].Name))
	return next, nil
}

// askQuestion moves the state into the question phase for the given
// category, or reports false when the bank has nothing to offer.
func askQuestion(deps Deps, s *State, catIndex int, tier string) bool {
	age := s.Players[s.CurrentPlayer].Age
	q, ok := question.Select(deps.Bank, catIndex, tier, age, s.askedSet(), deps.RNG)
	if !ok {
		return false
	}
	s.Phase = PhaseQuestion
	s.CurrentQuestion = &q
	s.CurrentCatIndex = catIndex
	s.SelectedAnswer = ""
	s.AnswerRevealed = false
	s.EliminatedOptions = nil
	s.QuestionStartTime = deps.Now()
	s.AskedQuestions = append(s.AskedQuestions, q.Prompt)
	s.GameStats[s.CurrentPlayer].QuestionsAsked++
	s.log(s.CurrentPlayer, fmt.Sprintf("%s (%s): %s", question.Categories[catIndex].Label, tier, q.Prompt))
	return true
}

// skipTurn degrades a dead-end transition into an immediate turn advance.
// The history entry belongs to the player who lost the turn, not the one
// receiving it.
func skipTurn(s *State, msg string) {
	skipped := s.CurrentPlayer
	advance(s)
	s.log(skipped, msg)
}

// advance clears per-question transients and hands the turn to the next
// player.
func advance(s *State) {
	s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.Players)
	s.Turn++
	s.Phase = PhasePlaying
	s.CurrentQuestion = nil
	s.CurrentCatIndex = -1
	s.SelectedAnswer = ""
	s.AnswerRevealed = false
	s.EliminatedOptions = nil
	s.CurrentEvent = ""
	s.DoubleOrNothing = false
	s.StreakReward = ""
	s.DiceValue = 0
	s.RollTier = ""
}

func clampPos(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > board.Size-1 {
		return board.Size - 1
	}
	return pos
}

func eventLabel(kind board.EventKind) string {
	switch kind {
	case board.EventHintGift:
		return "Hint Gift"
	case board.EventTailwind:
		return "Tailwind"
	case board.EventShortcut:
		return "Shortcut"
	case board.EventSwap:
		return "Swap"
	case board.EventBonusRoll:
		return "Bonus Roll"
	case board.EventDoubleOrNothing:
		return "Double or Nothing"
	default:
		return string(kind)
	}
}
