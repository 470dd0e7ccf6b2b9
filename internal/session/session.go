package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/featherquest/featherquest/internal/game"
	"github.com/featherquest/featherquest/internal/metrics"
	"github.com/featherquest/featherquest/internal/question"
	"github.com/featherquest/featherquest/internal/random"
	"github.com/featherquest/featherquest/internal/stats"
	"github.com/featherquest/featherquest/internal/storage"
)

// Session owns one game's authoritative state. All actions funnel through
// Dispatch under a single lock, so the reducer sees one action at a time.
type Session struct {
	mu     sync.Mutex
	code   string
	logger zerolog.Logger

	curated question.Bank
	custom  question.Bank
	deps    game.Deps
	state   game.State

	kv    storage.KV
	stats *stats.Service
	rng   random.Source

	notify    func(game.State)
	timer     *time.Timer
	timerFor  time.Time
	timerUnit time.Duration
}

// NewSession builds a session over the given board and curated bank. Any
// previously persisted custom questions and settings are applied.
func NewSession(ctx context.Context, code string, deps game.Deps, kv storage.KV, statsSvc *stats.Service, logger zerolog.Logger) *Session {
	s := &Session{
		code:      code,
		logger:    logger.With().Str("room", code).Logger(),
		curated:   deps.Bank,
		kv:        kv,
		stats:     statsSvc,
		rng:       deps.RNG,
		state:     game.NewState(),
		timerUnit: time.Second,
	}

	var custom question.Bank
	if kv.Load(ctx, storage.KeyCustomQuestions, &custom) {
		s.custom = pruneInvalid(custom)
	}
	deps.Bank = s.curated.Merge(s.custom)
	s.deps = deps

	var settings persistedSettings
	if kv.Load(ctx, storage.KeySettings, &settings) && settings.Difficulty != "" {
		s.state, _ = game.Reduce(s.deps, s.state, game.SetDifficulty{Difficulty: settings.Difficulty})
	}
	return s
}

type persistedSettings struct {
	Difficulty   string `json:"difficulty"`
	TimerSeconds int    `json:"timer_seconds"`
}

// OnStateChange registers the broadcast callback, invoked after every
// transition with the new state.
func (s *Session) OnStateChange(fn func(game.State)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// State returns a snapshot of the current state.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies one action and runs its effects.
func (s *Session) Dispatch(ctx context.Context, action game.Action) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, action)
}

// Roll resolves a die server-side and applies the roll.
func (s *Session) Roll(ctx context.Context) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, game.RollDice{Value: random.Die(s.rng)})
}

// ResolveEvent resolves the pending event, rolling the bonus die when the
// event needs one. target may be game.NoTarget.
func (s *Session) ResolveEvent(ctx context.Context, target int) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, game.ResolveEvent{
		TargetPlayer: target,
		BonusValue:   random.Die(s.rng),
	})
}

// PenaltyRoll rolls the penalty die and applies the rollback.
func (s *Session) PenaltyRoll(ctx context.Context) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, game.PenaltyMove{Value: random.Die(s.rng)})
}

func (s *Session) dispatchLocked(ctx context.Context, action game.Action) game.State {
	next, effects := game.Reduce(s.deps, s.state, action)
	s.state = next
	metrics.ActionsProcessed.WithLabelValues(actionName(action)).Inc()

	for _, eff := range effects {
		s.applyEffect(ctx, eff)
	}
	s.armQuestionTimer()

	if s.notify != nil {
		s.notify(next.Clone())
	}
	return next
}

func (s *Session) applyEffect(ctx context.Context, eff game.Effect) {
	switch e := eff.(type) {
	case game.PersistQuestions:
		s.custom = pruneInvalid(e.Custom)
		s.deps.Bank = s.curated.Merge(s.custom)
		s.kv.Save(ctx, storage.KeyCustomQuestions, s.custom)
	case game.PersistSettings:
		s.kv.Save(ctx, storage.KeySettings, persistedSettings{
			Difficulty:   e.Difficulty,
			TimerSeconds: e.TimerSeconds,
		})
	case game.AnswerRecorded:
		cat := ""
		if e.CatIndex >= 0 && e.CatIndex < len(question.Categories) {
			cat = question.Categories[e.CatIndex].Name
		}
		metrics.QuestionsAsked.WithLabelValues(cat).Inc()
		if s.stats != nil {
			s.stats.RecordAnswer(ctx, cat, e.Correct)
		}
	case game.GameOver:
		metrics.GamesCompleted.Inc()
		if s.stats != nil {
			s.stats.RecordGame(ctx)
		}
		s.logger.Info().Int("winner", e.Winner).Msg("game over")
	}
}

// armQuestionTimer schedules TIMER_EXPIRED for the open question, or stops
// any running countdown when no question is pending. A question keeps its
// original deadline: mid-question actions (hints, toggles) never restart
// the clock.
func (s *Session) armQuestionTimer() {
	if s.state.Phase != game.PhaseQuestion || s.state.AnswerRevealed || s.state.TimerSeconds <= 0 {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.timerFor = time.Time{}
		return
	}
	if s.timer != nil && s.timerFor.Equal(s.state.QuestionStartTime) {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	started := s.state.QuestionStartTime
	turn := s.state.Turn
	s.timerFor = started
	s.timer = time.AfterFunc(time.Duration(s.state.TimerSeconds)*s.timerUnit, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Late fire: the question may already be resolved.
		if s.state.Phase != game.PhaseQuestion || s.state.AnswerRevealed ||
			s.state.Turn != turn || !s.state.QuestionStartTime.Equal(started) {
			return
		}
		s.dispatchLocked(context.Background(), game.TimerExpired{})
	})
}

// Close releases the session's timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerFor = time.Time{}
	s.notify = nil
}

func pruneInvalid(bank question.Bank) question.Bank {
	out := question.Bank{}
	for cat, qs := range bank {
		for _, q := range qs {
			if q.Valid() {
				out[cat] = append(out[cat], q)
			}
		}
	}
	return out
}

func actionName(a game.Action) string {
	switch a.(type) {
	case game.SetPlayers:
		return "set_players"
	case game.SetDifficulty:
		return "set_difficulty"
	case game.StartGame:
		return "start_game"
	case game.RollDice:
		return "roll_dice"
	case game.ChooseHubCategory:
		return "choose_hub_category"
	case game.ResolveEvent:
		return "resolve_event"
	case game.Answer:
		return "answer"
	case game.TimerExpired:
		return "timer_expired"
	case game.UseHint:
		return "use_hint"
	case game.PenaltyMove:
		return "penalty_move"
	case game.NextTurn:
		return "next_turn"
	case game.ToggleEditor:
		return "toggle_editor"
	case game.ToggleStats:
		return "toggle_stats"
	case game.ToggleSettings:
		return "toggle_settings"
	case game.UpdateQuestions:
		return "update_questions"
	case game.Reset:
		return "reset"
	default:
		return "unknown"
	}
}
