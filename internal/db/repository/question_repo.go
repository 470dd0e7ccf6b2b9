package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/featherquest/featherquest/internal/question"
)

// QuestionRepository reads and writes the curated question bank in Postgres.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListAll loads the whole curated bank keyed by category name.
func (r *QuestionRepository) ListAll(ctx context.Context) (question.Bank, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, prompt, options, answer, COALESCE(fun_fact, ''), difficulty, age_min
		FROM questions
		ORDER BY category, id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	bank := question.Bank{}
	for rows.Next() {
		var category string
		var q question.Question
		if err := rows.Scan(&category, &q.Prompt, &q.Options, &q.Answer, &q.FunFact, &q.Difficulty, &q.AgeMin); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Source = "curated"
		bank[category] = append(bank[category], q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return bank, nil
}

// Insert stores one curated question.
func (r *QuestionRepository) Insert(ctx context.Context, category string, q question.Question) error {
	if !q.Valid() {
		return fmt.Errorf("invalid question %q", q.Prompt)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (category, prompt, options, answer, fun_fact, difficulty, age_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (category, prompt) DO NOTHING`,
		category, q.Prompt, q.Options, q.Answer, q.FunFact, q.Difficulty, q.AgeMin)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// CountByCategory reports curated pool sizes per category.
func (r *QuestionRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM questions GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[category] = n
	}
	return counts, rows.Err()
}
