package game

import (
	"time"

	"github.com/featherquest/featherquest/internal/board"
	"github.com/featherquest/featherquest/internal/question"
)

// Phase is the state machine's current mode. setup is initial, gameover
// terminal; playing alternates with question/hub_choice/event per turn.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhasePlaying   Phase = "playing"
	PhaseQuestion  Phase = "question"
	PhaseHubChoice Phase = "hub_choice"
	PhaseEvent     Phase = "event"
	PhaseGameOver  Phase = "gameover"
)

// NoWinner marks the winner field before anyone has collected six feathers.
const NoWinner = -1

// Player limits.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// DifficultyPreset groups the per-game settings a difficulty implies.
type DifficultyPreset struct {
	TimerSeconds int
	Hints        int
}

// Presets keyed by game difficulty.
var Presets = map[string]DifficultyPreset{
	question.DifficultyEasy:   {TimerSeconds: 30, Hints: 3},
	question.DifficultyMedium: {TimerSeconds: 20, Hints: 2},
	question.DifficultyHard:   {TimerSeconds: 12, Hints: 1},
}

// Player is one participant. Color and Emoji are cosmetic; gameplay uses
// position, feathers, hints and the streak counters.
type Player struct {
	Name          string                     `json:"name"`
	Age           int                        `json:"age"`
	Color         string                     `json:"color"`
	Emoji         string                     `json:"emoji"`
	Position      int                        `json:"position"`
	Feathers      [board.NumCategories]bool  `json:"feathers"`
	Hints         int                        `json:"hints"`
	WrongStreak   int                        `json:"wrong_streak"`
	CorrectStreak int                        `json:"correct_streak"`
}

// HasAllFeathers reports the win condition.
func (p Player) HasAllFeathers() bool {
	for _, f := range p.Feathers {
		if !f {
			return false
		}
	}
	return true
}

// PlayerStats aggregates per-player counts for the running game.
type PlayerStats struct {
	QuestionsAsked int `json:"questions_asked"`
	Correct        int `json:"correct"`
	BestStreak     int `json:"best_streak"`
}

// TurnEntry is one line of the game log.
type TurnEntry struct {
	Player int    `json:"player"`
	Text   string `json:"text"`
}

// State is the whole game. It is replaced wholesale by each transition;
// Reduce never mutates its input.
type State struct {
	Phase         Phase    `json:"phase"`
	Difficulty    string   `json:"difficulty"`
	TimerSeconds  int      `json:"timer_seconds"`
	Players       []Player `json:"players"`
	CurrentPlayer int      `json:"current_player"`
	Turn          int      `json:"turn"`

	DiceValue       int    `json:"dice_value"`
	RollTier        string `json:"roll_tier,omitempty"`
	PreRollPosition int    `json:"pre_roll_position"`

	CurrentQuestion   *question.Question `json:"current_question,omitempty"`
	CurrentCatIndex   int                `json:"current_cat_index"`
	SelectedAnswer    string             `json:"selected_answer,omitempty"`
	AnswerRevealed    bool               `json:"answer_revealed"`
	EliminatedOptions []string           `json:"eliminated_options,omitempty"`
	AskedQuestions    []string           `json:"asked_questions"`
	QuestionStartTime time.Time          `json:"question_start_time"`

	CurrentEvent    board.EventKind `json:"current_event,omitempty"`
	DoubleOrNothing bool            `json:"double_or_nothing"`

	Winner       int           `json:"winner"`
	Message      string        `json:"message"`
	StreakReward string        `json:"streak_reward,omitempty"`
	TurnHistory  []TurnEntry   `json:"turn_history"`
	GameStats    []PlayerStats `json:"game_stats"`

	ShowEditor   bool `json:"show_editor"`
	ShowStats    bool `json:"show_stats"`
	ShowSettings bool `json:"show_settings"`
}

// NewState returns a fresh setup-phase state with medium defaults.
func NewState() State {
	preset := Presets[question.DifficultyMedium]
	return State{
		Phase:           PhaseSetup,
		Difficulty:      question.DifficultyMedium,
		TimerSeconds:    preset.TimerSeconds,
		CurrentCatIndex: -1,
		Winner:          NoWinner,
		Message:         "Welcome to FeatherQuest! Set up your players.",
	}
}

// Clone deep-copies the state so transitions can build the successor
// without touching the original.
func (s State) Clone() State {
	next := s

	next.Players = append([]Player(nil), s.Players...)
	next.AskedQuestions = append([]string(nil), s.AskedQuestions...)
	next.EliminatedOptions = append([]string(nil), s.EliminatedOptions...)
	next.TurnHistory = append([]TurnEntry(nil), s.TurnHistory...)
	next.GameStats = append([]PlayerStats(nil), s.GameStats...)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Options = append([]string(nil), s.CurrentQuestion.Options...)
		next.CurrentQuestion = &q
	}
	return next
}

func (s *State) askedSet() map[string]bool {
	set := make(map[string]bool, len(s.AskedQuestions))
	for _, prompt := range s.AskedQuestions {
		set[prompt] = true
	}
	return set
}

func (s *State) log(player int, text string) {
	s.Message = text
	s.TurnHistory = append(s.TurnHistory, TurnEntry{Player: player, Text: text})
}

var playerColors = [MaxPlayers]string{"#e63946", "#457b9d", "#2a9d8f", "#f4a261"}
var playerEmojis = [MaxPlayers]string{"🦅", "🦉", "🦜", "🐧"}
