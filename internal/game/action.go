package game

import "github.com/featherquest/featherquest/internal/question"

// Action is the closed set of inputs the reducer accepts. Unknown actions
// leave the state unchanged.
type Action interface {
	isAction()
}

// SetPlayers configures the roster during setup. Missing names or ages
// fall back to defaults.
type SetPlayers struct {
	Count int
	Names []string
	Ages  []int
}

// SetDifficulty picks the game difficulty preset during setup.
type SetDifficulty struct {
	Difficulty string
}

// StartGame leaves setup once at least two players are configured.
type StartGame struct{}

// RollDice carries an already-resolved die value. Bonus and CatchupBonus
// are extra movement the caller may grant (e.g. trailing-player aid).
type RollDice struct {
	Value        int
	Bonus        int
	CatchupBonus int
}

// ChooseHubCategory picks which category to be quizzed on at a hub.
type ChooseHubCategory struct {
	CatIndex int
}

// ResolveEvent applies the pending event. TargetPlayer is the swap target
// (NoTarget for none); BonusValue is the extra die for bonus_roll events.
type ResolveEvent struct {
	TargetPlayer int
	BonusValue   int
}

// NoTarget marks a ResolveEvent with no chosen swap target.
const NoTarget = -1

// Answer submits the selected option for the current question.
type Answer struct {
	Answer string
}

// TimerExpired ends the current question as a timeout (scored as wrong).
type TimerExpired struct{}

// UseHint eliminates two wrong options from the current question.
type UseHint struct{}

// PenaltyMove rolls the acting player back from their pre-roll position.
type PenaltyMove struct {
	Value int
}

// NextTurn advances to the next player, or to gameover once a winner is set.
type NextTurn struct{}

// ToggleEditor, ToggleStats and ToggleSettings flip UI panel flags.
type ToggleEditor struct{}
type ToggleStats struct{}
type ToggleSettings struct{}

// UpdateQuestions replaces the custom question set wholesale and asks the
// caller to persist it.
type UpdateQuestions struct {
	Custom question.Bank
}

// Reset discards the game and returns to setup.
type Reset struct{}

func (SetPlayers) isAction()        {}
func (SetDifficulty) isAction()     {}
func (StartGame) isAction()         {}
func (RollDice) isAction()          {}
func (ChooseHubCategory) isAction() {}
func (ResolveEvent) isAction()      {}
func (Answer) isAction()            {}
func (TimerExpired) isAction()      {}
func (UseHint) isAction()           {}
func (PenaltyMove) isAction()       {}
func (NextTurn) isAction()          {}
func (ToggleEditor) isAction()      {}
func (ToggleStats) isAction()       {}
func (ToggleSettings) isAction()    {}
func (UpdateQuestions) isAction()   {}
func (Reset) isAction()             {}

// Effect is a side request the caller performs after a transition; the
// reducer itself does no I/O.
type Effect interface {
	isEffect()
}

// PersistQuestions asks the caller to save the custom question set.
type PersistQuestions struct {
	Custom question.Bank
}

// PersistSettings asks the caller to save the difficulty settings.
type PersistSettings struct {
	Difficulty   string
	TimerSeconds int
}

// AnswerRecorded reports one scored answer for aggregate statistics.
type AnswerRecorded struct {
	Player   int
	CatIndex int
	Correct  bool
}

// GameOver reports the finished game for aggregate statistics.
type GameOver struct {
	Winner int
}

func (PersistQuestions) isEffect() {}
func (PersistSettings) isEffect()  {}
func (AnswerRecorded) isEffect()   {}
func (GameOver) isEffect()         {}
