package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Vote types accepted on the wire. An empty or absent type retracts the
// caller's vote.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
	VoteNone = ""
)

// Content kinds a vote can target.
const (
	ContentQuestion = "question"
	ContentAnswer   = "answer"
)

// ErrInvalidVote is returned for a vote type outside {upvote, downvote,
// none}. ErrContentNotFound covers a missing or soft-deleted target.
var (
	ErrInvalidVote     = errors.New("invalid vote type")
	ErrContentNotFound = errors.New("content not found")
)

// VoteValue maps a wire vote type to its ledger value: +1, -1 or 0 for a
// retraction. "none" and "null" are accepted as explicit retractions
// alongside an absent type.
func VoteValue(voteType string) (int, error) {
	switch voteType {
	case VoteUp:
		return 1, nil
	case VoteDown:
		return -1, nil
	case VoteNone, "none", "null":
		return 0, nil
	default:
		return 0, ErrInvalidVote
	}
}

// VoteRepo is the vote ledger over questions and answers. Each user holds
// at most one row per content item (the table's primary key), so a user
// can never sit in both the upvoter and downvoter set.
type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// scoreTable maps a content type to the table carrying its denormalized score.
func scoreTable(contentType string) (string, error) {
	switch contentType {
	case ContentQuestion:
		return "questions", nil
	case ContentAnswer:
		return "answers", nil
	default:
		return "", ErrContentNotFound
	}
}

// Apply records, changes or retracts a user's vote on a content item and
// returns the new score plus the effective vote recorded. The score column
// is adjusted with a relative UPDATE (score = score + delta) inside the
// same transaction, never computed from a previously read value, so
// concurrent votes by different users cannot lose updates.
func (r *VoteRepo) Apply(ctx context.Context, contentType string, contentID, userID uint64, voteType string) (int, string, error) {
	newVal, err := VoteValue(voteType)
	if err != nil {
		return 0, "", err
	}
	table, err := scoreTable(contentType)
	if err != nil {
		return 0, "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = tx.Rollback() }()

	// Target must exist and be active.
	var active bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_active FROM "+table+" WHERE id=? FOR UPDATE", contentID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrContentNotFound
	}
	if err != nil {
		return 0, "", err
	}
	if !active {
		return 0, "", ErrContentNotFound
	}

	// Read the caller's previous vote (0 when none) and replace it.
	oldVal := 0
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM votes WHERE content_type=? AND content_id=? AND user_id=?",
		contentType, contentID, userID).Scan(&oldVal)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, "", err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM votes WHERE content_type=? AND content_id=? AND user_id=?",
		contentType, contentID, userID); err != nil {
		return 0, "", err
	}
	if newVal != 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO votes (content_type, content_id, user_id, value) VALUES (?,?,?,?)",
			contentType, contentID, userID, newVal); err != nil {
			return 0, "", err
		}
	}

	if delta := ScoreDelta(oldVal, newVal); delta != 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET vote_score = vote_score + ? WHERE id=?", delta, contentID); err != nil {
			return 0, "", err
		}
	}

	var score int
	if err := tx.QueryRowContext(ctx,
		"SELECT vote_score FROM "+table+" WHERE id=?", contentID).Scan(&score); err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return score, effectiveVote(newVal), nil
}

// ScoreDelta is the score adjustment when a user's vote moves from oldVal
// to newVal (each in {-1, 0, +1}).
func ScoreDelta(oldVal, newVal int) int {
	return newVal - oldVal
}

func effectiveVote(val int) string {
	switch val {
	case 1:
		return VoteUp
	case -1:
		return VoteDown
	default:
		return VoteNone
	}
}

// UserVote reports the vote currently recorded for a user on a content
// item: "upvote", "downvote" or empty. Used to decorate fetch responses so
// the client can render the caller's vote state.
func (r *VoteRepo) UserVote(ctx context.Context, contentType string, contentID, userID uint64) (string, error) {
	var val int
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM votes WHERE content_type=? AND content_id=? AND user_id=?",
		contentType, contentID, userID).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return VoteNone, nil
	}
	if err != nil {
		return "", err
	}
	return effectiveVote(val), nil
}
