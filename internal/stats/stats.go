// Package stats keeps lifetime aggregates across games, persisted through
// the key-value adapter.
package stats

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/featherquest/featherquest/internal/storage"
)

// Totals are the persisted aggregate counters.
type Totals struct {
	GamesPlayed       int            `json:"games_played"`
	QuestionsAnswered int            `json:"questions_answered"`
	CorrectAnswers    int            `json:"correct_answers"`
	ByCategory        map[string]int `json:"by_category"`
}

// Service applies read-modify-write updates to the totals. Safe for
// concurrent use across sessions.
type Service struct {
	mu     sync.Mutex
	kv     storage.KV
	logger zerolog.Logger
	totals Totals
}

func NewService(ctx context.Context, kv storage.KV, logger zerolog.Logger) *Service {
	s := &Service{kv: kv, logger: logger}
	if !kv.Load(ctx, storage.KeyStats, &s.totals) {
		logger.Debug().Msg("no stored stats, starting fresh")
	}
	if s.totals.ByCategory == nil {
		s.totals.ByCategory = make(map[string]int)
	}
	return s
}

// RecordAnswer counts one answered question.
func (s *Service) RecordAnswer(ctx context.Context, category string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals.QuestionsAnswered++
	if correct {
		s.totals.CorrectAnswers++
	}
	s.totals.ByCategory[category]++
	s.kv.Save(ctx, storage.KeyStats, s.totals)
}

// RecordGame counts one completed game.
func (s *Service) RecordGame(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals.GamesPlayed++
	s.kv.Save(ctx, storage.KeyStats, s.totals)
}

// Snapshot returns a copy of the current totals.
func (s *Service) Snapshot() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.totals
	out.ByCategory = make(map[string]int, len(s.totals.ByCategory))
	for k, v := range s.totals.ByCategory {
		out.ByCategory[k] = v
	}
	return out
}
