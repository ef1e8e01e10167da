package repository

import (
	"context"
	"database/sql"
)

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	Users            int `json:"users"`
	Questions        int `json:"questions"`
	Answers          int `json:"answers"`
	PendingQuestions int `json:"pendingQuestions"`
	PendingAnswers   int `json:"pendingAnswers"`
}

// UserReportRow is one line of the per-user contribution report.
type UserReportRow struct {
	ID            uint64 `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Reputation    int    `json:"reputation"`
	IsActive      bool   `json:"isActive"`
	QuestionCount int    `json:"questionCount"`
	AnswerCount   int    `json:"answerCount"`
}

// ActivityRow is a per-day creation count for the activity report.
type ActivityRow struct {
	Day   string `json:"date"`
	Count int    `json:"count"`
}

// StatsRepo serves the admin dashboard and reports. It only reads.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Dashboard returns active entity counts and the moderation backlog.
func (r *StatsRepo) Dashboard(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM users WHERE is_active=1", &s.Users},
		{"SELECT COUNT(*) FROM questions WHERE is_active=1", &s.Questions},
		{"SELECT COUNT(*) FROM answers WHERE is_active=1", &s.Answers},
		{"SELECT COUNT(*) FROM questions WHERE status='pending'", &s.PendingQuestions},
		{"SELECT COUNT(*) FROM answers WHERE status='pending'", &s.PendingAnswers},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return DashboardStats{}, err
		}
	}
	return s, nil
}

// UserReport lists every user with their question and answer counts.
func (r *StatsRepo) UserReport(ctx context.Context) ([]UserReportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.email, u.reputation, u.is_active,
			(SELECT COUNT(*) FROM questions q WHERE q.author_id = u.id),
			(SELECT COUNT(*) FROM answers a WHERE a.author_id = u.id)
		FROM users u
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []UserReportRow{}
	for rows.Next() {
		var row UserReportRow
		if err := rows.Scan(&row.ID, &row.Username, &row.Email, &row.Reputation,
			&row.IsActive, &row.QuestionCount, &row.AnswerCount); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// ActivityReport returns per-day creation counts for questions and answers
// over the last 30 days, newest day first.
func (r *StatsRepo) ActivityReport(ctx context.Context) (questions, answers []ActivityRow, err error) {
	questions, err = r.activityFor(ctx, "questions")
	if err != nil {
		return nil, nil, err
	}
	answers, err = r.activityFor(ctx, "answers")
	if err != nil {
		return nil, nil, err
	}
	return questions, answers, nil
}

func (r *StatsRepo) activityFor(ctx context.Context, table string) ([]ActivityRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS day, COUNT(*) FROM "+table+
			" GROUP BY day ORDER BY day DESC LIMIT 30")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []ActivityRow{}
	for rows.Next() {
		var row ActivityRow
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
