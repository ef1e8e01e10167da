package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEventAnswerNotification(t *testing.T) {
	line := FormatEvent(NotificationEvent{
		Type:        "answer",
		SenderID:    4,
		SenderName:  "grace",
		RecipientID: 9,
		QuestionID:  12,
		AnswerID:    77,
		Message:     "grace answered your question: How do I join tables?",
		CreatedAt:   "2026-03-01T12:00:00Z",
	})
	require.Equal(t,
		`[2026-03-01T12:00:00Z] Notification | type=answer | sender=4(grace) | recipient=9 | question_id=12 | answer_id=77 | message="grace answered your question: How do I join tables?"`,
		line)
}

func TestFormatEventBroadcast(t *testing.T) {
	line := FormatEvent(NotificationEvent{
		Type:           "announcement",
		SenderID:       1,
		SenderName:     "admin",
		RecipientCount: 240,
		Message:        "Maintenance tonight at 10pm UTC",
		BroadcastID:    "b1f6c6f0-9c1a-4f6e-9a64-2f6f0e7f9d21",
		CreatedAt:      "2026-03-01T12:00:00Z",
	})
	require.Contains(t, line, "Announcement")
	require.Contains(t, line, "broadcast_id=b1f6c6f0-9c1a-4f6e-9a64-2f6f0e7f9d21")
	require.Contains(t, line, "recipients=240")
	require.NotContains(t, line, "recipient=0")
}

func TestHandleMessageRejectsBadJSON(t *testing.T) {
	require.Error(t, handleMessage([]byte("{not json")))
}
