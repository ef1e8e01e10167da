package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Notification types.
const (
	NotifAnswer       = "answer"
	NotifComment      = "comment"
	NotifMention      = "mention"
	NotifAnnouncement = "announcement"
)

// Notification mirrors the 'notifications' table with the sender and the
// related question title populated for display.
type Notification struct {
	ID            uint64      `json:"id"`
	RecipientID   uint64      `json:"recipient"`
	Sender        UserSummary `json:"sender"`
	Type          string      `json:"type"`
	Message       string      `json:"message"`
	QuestionID    *uint64     `json:"relatedQuestion,omitempty"`
	QuestionTitle string      `json:"questionTitle,omitempty"`
	AnswerID      *uint64     `json:"relatedAnswer,omitempty"`
	IsRead        bool        `json:"isRead"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ErrNotificationNotFound covers both a missing notification and one owned
// by someone else, so the read endpoint cannot leak existence.
var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create inserts a single recipient-addressed notification.
func (r *NotificationRepo) Create(ctx context.Context, n *Notification) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (recipient_id, sender_id, type, message, question_id, answer_id) VALUES (?,?,?,?,?,?)",
		n.RecipientID, n.Sender.ID, n.Type, n.Message, n.QuestionID, n.AnswerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByRecipient returns a page of the recipient's notifications, newest
// first, with the sender and related question title populated, plus the
// recipient's unread count.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64, page, limit int) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT n.id, n.recipient_id, n.type, n.message, n.question_id, n.answer_id,
			n.is_read, n.created_at,
			u.id, u.username, u.reputation, u.avatar,
			COALESCE(q.title, '')
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		LEFT JOIN questions q ON q.id = n.question_id
		WHERE n.recipient_id = ?
		ORDER BY n.created_at DESC
		LIMIT ? OFFSET ?`,
		recipientID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		var n Notification
		var questionID, answerID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message, &questionID, &answerID,
			&n.IsRead, &n.CreatedAt,
			&n.Sender.ID, &n.Sender.Username, &n.Sender.Reputation, &n.Sender.Avatar,
			&n.QuestionTitle); err != nil {
			return nil, 0, err
		}
		if questionID.Valid {
			id := uint64(questionID.Int64)
			n.QuestionID = &id
		}
		if answerID.Valid {
			id := uint64(answerID.Int64)
			n.AnswerID = &id
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var unread int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id=? AND is_read=0", recipientID).
		Scan(&unread); err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead flags a notification as read only when it belongs to the given
// recipient. A foreign or missing notification is ErrNotificationNotFound
// either way.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=? AND recipient_id=?", id, recipientID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "already read" from "not yours / missing".
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id=? AND recipient_id=?)",
			id, recipientID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotificationNotFound
		}
	}
	return nil
}

// MarkAllRead flags all of the recipient's unread notifications in one
// statement.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE recipient_id=? AND is_read=0", recipientID)
	return err
}

// Broadcast fans an announcement out to every active user except the
// sender with a single INSERT ... SELECT, and returns the number of
// notifications created. The unique (broadcast_id, recipient_id) key plus
// INSERT IGNORE make a retried broadcast idempotent: recipients already
// covered by the same broadcast id are skipped instead of duplicated.
func (r *NotificationRepo) Broadcast(ctx context.Context, senderID uint64, message, broadcastID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO notifications (recipient_id, sender_id, type, message, broadcast_id)
		SELECT id, ?, ?, ?, ? FROM users WHERE is_active = 1 AND id <> ?`,
		senderID, NotifAnnouncement, message, broadcastID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
