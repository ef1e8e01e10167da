package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnswerNotificationMessage(t *testing.T) {
	msg := AnswerNotificationMessage("grace", "How do I join two tables?")
	require.Equal(t, "grace answered your question: How do I join two tables?", msg)
}
