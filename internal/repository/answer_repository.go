package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"
)

// Answer mirrors the 'answers' table plus the populated author. The
// QuestionID back-reference is immutable after creation.
type Answer struct {
	ID         uint64      `json:"id"`
	QuestionID uint64      `json:"question"`
	Content    string      `json:"content"`
	Author     UserSummary `json:"author"`
	VoteScore  int         `json:"voteScore"`
	IsAccepted bool        `json:"isAccepted"`
	Status     string      `json:"status"`
	IsActive   bool        `json:"isActive"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// ErrAnswerNotFound is returned when an answer cannot be found in the DB.
var ErrAnswerNotFound = errors.New("answer not found")

type AnswerRepo struct {
	db *sql.DB
}

func NewAnswerRepo(db *sql.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

const answerSelect = `SELECT a.id, a.question_id, a.content, a.vote_score,
	a.is_accepted, a.status, a.is_active, a.created_at, a.updated_at,
	u.id, u.username, u.reputation, u.avatar
	FROM answers a JOIN users u ON u.id = a.author_id`

func scanAnswer(scan func(...any) error) (*Answer, error) {
	var a Answer
	err := scan(&a.ID, &a.QuestionID, &a.Content, &a.VoteScore,
		&a.IsAccepted, &a.Status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		&a.Author.ID, &a.Author.Username, &a.Author.Reputation, &a.Author.Avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an answer under the given question and populates the
// record via a follow-up SELECT.
func (r *AnswerRepo) Create(ctx context.Context, a *Answer) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO answers (question_id, author_id, content) VALUES (?,?,?)",
		a.QuestionID, a.Author.ID, a.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID fetches an answer by id regardless of is_active, so that a
// soft-deleted answer stays retrievable by direct lookup.
func (r *AnswerRepo) GetByID(ctx context.Context, id uint64) (*Answer, error) {
	return scanAnswer(r.db.QueryRowContext(ctx, answerSelect+" WHERE a.id = ?", id).Scan)
}

// ListByQuestion returns the question's active answers in display order:
// the accepted answer first, then by descending vote score, ties broken by
// creation time. Inactive answers are excluded, which is what removes a
// soft-deleted answer from its parent's answer list.
func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uint64) ([]*Answer, error) {
	rows, err := r.db.QueryContext(ctx,
		answerSelect+" WHERE a.question_id = ? AND a.is_active = 1 ORDER BY a.created_at ASC",
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []*Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows.Scan)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortAnswers(answers)
	return answers, nil
}

// SortAnswers orders answers for display: accepted first, then by vote
// score descending. The sort is stable so equal-score answers keep their
// creation order.
func SortAnswers(answers []*Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		if answers[i].IsAccepted != answers[j].IsAccepted {
			return answers[i].IsAccepted
		}
		return answers[i].VoteScore > answers[j].VoteScore
	})
}

// Update replaces the answer body. Votes, acceptance and status are untouched.
func (r *AnswerRepo) Update(ctx context.Context, id uint64, content string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE answers SET content=? WHERE id=?", content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM answers WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrAnswerNotFound
		}
	}
	return nil
}

// SoftDelete marks the answer inactive; the row itself is kept.
func (r *AnswerRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE answers SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnswerNotFound
	}
	return nil
}

// SetStatus applies a moderation decision (approved/rejected).
func (r *AnswerRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE answers SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM answers WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrAnswerNotFound
		}
	}
	return nil
}

// Accept marks the answer as the question's accepted solution. The whole
// transition runs in one transaction so that at most one answer per
// question ever carries the accepted flag, even under concurrent accepts:
// clear the previous accepted answer, flag the new one, repoint the
// question. Only the question's author may accept; an answer belonging to
// a different question yields ErrConflict and leaves prior state unchanged.
func (r *AnswerRepo) Accept(ctx context.Context, questionID, answerID, requesterID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var parentID uint64
	var answerActive bool
	err = tx.QueryRowContext(ctx,
		"SELECT question_id, is_active FROM answers WHERE id=? FOR UPDATE", answerID).
		Scan(&parentID, &answerActive)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAnswerNotFound
	}
	if err != nil {
		return err
	}
	if !answerActive {
		return ErrAnswerNotFound
	}
	if parentID != questionID {
		return ErrConflict
	}

	var authorID uint64
	var accepted sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT author_id, accepted_answer_id FROM questions WHERE id=? FOR UPDATE", questionID).
		Scan(&authorID, &accepted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrQuestionNotFound
	}
	if err != nil {
		return err
	}
	if authorID != requesterID {
		return ErrForbidden
	}

	if accepted.Valid && uint64(accepted.Int64) != answerID {
		if _, err := tx.ExecContext(ctx,
			"UPDATE answers SET is_accepted=0 WHERE id=?", accepted.Int64); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE answers SET is_accepted=1 WHERE id=?", answerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE questions SET accepted_answer_id=? WHERE id=?", answerID, questionID); err != nil {
		return err
	}
	return tx.Commit()
}
