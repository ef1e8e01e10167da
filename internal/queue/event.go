// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationEvent is published whenever a notification record is created,
// either a single answer notification or one announcement broadcast. It
// carries enough information for downstream consumers to log, push or
// trigger analytics without querying the primary database. For broadcasts
// RecipientID is zero and RecipientCount holds the fan-out size.
type NotificationEvent struct {
    Type           string `json:"type"`
    SenderID       uint64 `json:"sender_id"`
    SenderName     string `json:"sender_name"`
    RecipientID    uint64 `json:"recipient_id,omitempty"`
    RecipientCount int64  `json:"recipient_count,omitempty"`
    Message        string `json:"message"`
    QuestionID     uint64 `json:"question_id,omitempty"`
    AnswerID       uint64 `json:"answer_id,omitempty"`
    BroadcastID    string `json:"broadcast_id,omitempty"`
    CreatedAt      string `json:"created_at"`
}
