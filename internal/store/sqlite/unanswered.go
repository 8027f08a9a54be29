package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateUnansweredQuestion(ctx context.Context, q *store.UnansweredQuestion) (*store.UnansweredQuestion, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO unanswered_question (user_id, username, question, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, username, question, status, created_at, resolved_at
	`, q.UserID, q.Username, q.Question, q.Status, q.CreatedAt)
	return scanUnanswered(row)
}

func (d *DB) ListUnansweredQuestions(ctx context.Context, find *store.FindUnansweredQuestion) ([]*store.UnansweredQuestion, error) {
	where, args := "1 = 1", []any{}
	if find != nil && find.Status != nil {
		where += " AND status = ?"
		args = append(args, *find.Status)
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, question, status, created_at, resolved_at
		FROM unanswered_question WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unanswered questions")
	}
	defer rows.Close()

	var questions []*store.UnansweredQuestion
	for rows.Next() {
		var q store.UnansweredQuestion
		if err := rows.Scan(&q.ID, &q.UserID, &q.Username, &q.Question, &q.Status, &q.CreatedAt, &q.ResolvedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan unanswered question")
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

func (d *DB) ResolveUnansweredQuestion(ctx context.Context, id int64) (*store.UnansweredQuestion, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE unanswered_question SET status = ?, resolved_at = strftime('%s','now') WHERE id = ?
		RETURNING id, user_id, username, question, status, created_at, resolved_at
	`, store.UnansweredResolved, id)
	return scanUnanswered(row)
}

func scanUnanswered(row *sql.Row) (*store.UnansweredQuestion, error) {
	var q store.UnansweredQuestion
	if err := row.Scan(&q.ID, &q.UserID, &q.Username, &q.Question, &q.Status, &q.CreatedAt, &q.ResolvedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan unanswered question")
	}
	return &q, nil
}
