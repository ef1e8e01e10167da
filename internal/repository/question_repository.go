// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Question model and repository methods for CRUD,
// listing and the view counter. A Question owns the list of its answers via
// the answers.question_id back-reference; soft deletion never cascades.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UserSummary is the author shape embedded in question, answer and
// notification payloads. Only public fields are carried.
type UserSummary struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Reputation int    `json:"reputation"`
	Avatar     string `json:"avatar,omitempty"`
}

// Question mirrors the 'questions' table plus the populated author and tag
// names. AcceptedAnswerID is nil while no answer has been accepted.
type Question struct {
	ID               uint64      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Tags             []string    `json:"tags"`
	Author           UserSummary `json:"author"`
	Status           string      `json:"status"`
	IsActive         bool        `json:"isActive"`
	Views            int         `json:"views"`
	VoteScore        int         `json:"voteScore"`
	AcceptedAnswerID *uint64     `json:"acceptedAnswer,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// ErrQuestionNotFound is returned when a question cannot be found in the DB.
var ErrQuestionNotFound = errors.New("question not found")

// ListQuestionsOpts captures the query surface of GET /v1/questions.
// SortBy is one of newest, oldest, votes, answers; anything else falls
// back to newest.
type ListQuestionsOpts struct {
	Page   int
	Limit  int
	SortBy string
	Tag    string
	Search string
}

// QuestionRepo encapsulates all database queries related to questions.
type QuestionRepo struct {
	db *sql.DB
}

func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

const questionSelect = `SELECT q.id, q.title, q.description, q.status, q.is_active,
	q.views, q.vote_score, q.accepted_answer_id, q.created_at, q.updated_at,
	u.id, u.username, u.reputation, u.avatar
	FROM questions q JOIN users u ON u.id = q.author_id`

func scanQuestion(scan func(...any) error) (*Question, error) {
	var q Question
	var accepted sql.NullInt64
	err := scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.IsActive,
		&q.Views, &q.VoteScore, &accepted, &q.CreatedAt, &q.UpdatedAt,
		&q.Author.ID, &q.Author.Username, &q.Author.Reputation, &q.Author.Avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if accepted.Valid {
		id := uint64(accepted.Int64)
		q.AcceptedAnswerID = &id
	}
	return &q, nil
}

// Create inserts a new question and links the given tag ids. On success the
// question's ID, timestamps and defaults are populated via a follow-up
// SELECT so that callers receive a fully populated record.
func (r *QuestionRepo) Create(ctx context.Context, q *Question, tagIDs []uint64) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO questions (author_id, title, description) VALUES (?,?,?)",
		q.Author.ID, q.Title, q.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)

	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO question_tags (question_id, tag_id) VALUES (?,?)",
			q.ID, tagID); err != nil {
			return err
		}
	}

	fresh, err := r.GetByID(ctx, q.ID)
	if err != nil {
		return err
	}
	*q = *fresh
	return nil
}

// GetByID fetches a question by id with its author and tag names populated.
// The record is returned regardless of is_active; callers decide whether a
// soft-deleted question counts as missing for their operation.
func (r *QuestionRepo) GetByID(ctx context.Context, id uint64) (*Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx, questionSelect+" WHERE q.id = ?", id).Scan)
	if err != nil {
		return nil, err
	}
	tags, err := r.tagNames(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Tags = tags
	return q, nil
}

func (r *QuestionRepo) tagNames(ctx context.Context, questionID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT t.name FROM tags t JOIN question_tags qt ON qt.tag_id = t.id WHERE qt.question_id = ? ORDER BY t.name",
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// List returns approved, active questions matching the options plus the
// total match count for pagination. Search uses the fulltext index over
// title and description.
func (r *QuestionRepo) List(ctx context.Context, opts ListQuestionsOpts) ([]*Question, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	where := "q.is_active = 1 AND q.status = 'approved'"
	args := []any{}
	if opts.Tag != "" {
		where += " AND EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE qt.question_id = q.id AND t.name = ?)"
		args = append(args, opts.Tag)
	}
	if opts.Search != "" {
		where += " AND MATCH(q.title, q.description) AGAINST (? IN NATURAL LANGUAGE MODE)"
		args = append(args, opts.Search)
	}

	var order string
	switch opts.SortBy {
	case "oldest":
		order = "q.created_at ASC"
	case "votes":
		order = "q.vote_score DESC"
	case "answers":
		order = "(SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id AND a.is_active = 1) DESC"
	default: // newest
		order = "q.created_at DESC"
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT ? OFFSET ?", questionSelect, where, order)
	rows, err := r.db.QueryContext(ctx, query, append(args, opts.Limit, (opts.Page-1)*opts.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []*Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, q := range questions {
		tags, err := r.tagNames(ctx, q.ID)
		if err != nil {
			return nil, 0, err
		}
		q.Tags = tags
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM questions q WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// IncrementViews bumps the view counter server-side so that concurrent
// fetches never lose counts. The counter is best effort; the caller skips
// it when the requester is the question's author.
func (r *QuestionRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE questions SET views = views + 1 WHERE id = ?", id)
	return err
}

// Update replaces title and description and relinks tags when tagIDs is
// non-nil. Status, votes and views are untouched.
func (r *QuestionRepo) Update(ctx context.Context, id uint64, title, description string, tagIDs []uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE questions SET title=?, description=? WHERE id=?", title, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with unchanged values; verify existence.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM questions WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrQuestionNotFound
		}
	}
	if tagIDs == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM question_tags WHERE question_id=?", id); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO question_tags (question_id, tag_id) VALUES (?,?)", id, tagID); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete marks the question inactive. Tag usage counts are not rolled
// back and answers are not cascaded.
func (r *QuestionRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE questions SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// SetStatus applies a moderation decision (approved/rejected). The active
// flag is untouched.
func (r *QuestionRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE questions SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM questions WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrQuestionNotFound
		}
	}
	return nil
}
