package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Tag mirrors the 'tags' table. Names are stored lowercase and unique;
// question_count is only ever incremented (soft-deleting a question does
// not roll usage back).
type Tag struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"questionCount"`
	Color         string    `json:"color"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

// NormalizeTag lowercases and trims a tag name the way the unique index
// expects it.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UpsertAll creates missing tags and bumps each tag's usage counter by
// one, returning the tag ids in input order. The counter moves with an
// atomic column increment so concurrent question creations cannot lose
// counts. Empty names after normalization are skipped.
func (r *TagRepo) UpsertAll(ctx context.Context, names []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, raw := range names {
		name := NormalizeTag(raw)
		if name == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO tags (name, question_count) VALUES (?, 1) ON DUPLICATE KEY UPDATE question_count = question_count + 1",
			name); err != nil {
			return nil, err
		}
		var id uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM tags WHERE name=?", name).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IDsFor resolves existing tag ids for the given names without touching
// usage counters. Unknown names are created with a zero count so that an
// edit never inflates usage.
func (r *TagRepo) IDsFor(ctx context.Context, names []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, raw := range names {
		name := NormalizeTag(raw)
		if name == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO tags (name, question_count) VALUES (?, 0)", name); err != nil {
			return nil, err
		}
		var id uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM tags WHERE name=?", name).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns the most used tags, capped at limit.
func (r *TagRepo) List(ctx context.Context, limit int) ([]Tag, error) {
	if limit < 1 {
		limit = 50
	}
	return r.query(ctx,
		"SELECT id, name, description, question_count, color, created_at, updated_at FROM tags ORDER BY question_count DESC LIMIT ?",
		limit)
}

// Search matches tag names containing q, most used first.
func (r *TagRepo) Search(ctx context.Context, q string, limit int) ([]Tag, error) {
	if limit < 1 {
		limit = 10
	}
	return r.query(ctx,
		"SELECT id, name, description, question_count, color, created_at, updated_at FROM tags WHERE name LIKE ? ORDER BY question_count DESC LIMIT ?",
		"%"+NormalizeTag(q)+"%", limit)
}

func (r *TagRepo) query(ctx context.Context, query string, args ...any) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.QuestionCount,
			&t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
