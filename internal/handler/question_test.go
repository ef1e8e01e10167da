package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateQuestionReq(t *testing.T) {
	valid := func() questionReq {
		return questionReq{
			Title:       "How do I join two tables?",
			Description: "I have users and orders and need one row per order.",
			Tags:        []string{"sql", "mysql"},
		}
	}

	t.Run("accepts a well-formed question", func(t *testing.T) {
		req := valid()
		require.Empty(t, validateQuestionReq(&req))
	})

	t.Run("trims whitespace before checking", func(t *testing.T) {
		req := valid()
		req.Title = "  " + req.Title + "  "
		require.Empty(t, validateQuestionReq(&req))
		require.Equal(t, "How do I join two tables?", req.Title)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		req := valid()
		req.Title = "   "
		require.Equal(t, "title is required", validateQuestionReq(&req))
	})

	t.Run("rejects overlong title", func(t *testing.T) {
		req := valid()
		req.Title = strings.Repeat("a", 201)
		require.Equal(t, "title must be at most 200 characters", validateQuestionReq(&req))
	})

	t.Run("accepts title at the limit", func(t *testing.T) {
		req := valid()
		req.Title = strings.Repeat("a", 200)
		require.Empty(t, validateQuestionReq(&req))
	})

	t.Run("rejects empty description", func(t *testing.T) {
		req := valid()
		req.Description = ""
		require.Equal(t, "description is required", validateQuestionReq(&req))
	})

	t.Run("rejects missing tags", func(t *testing.T) {
		req := valid()
		req.Tags = nil
		require.Equal(t, "at least one tag is required", validateQuestionReq(&req))
	})

	t.Run("rejects more than five tags", func(t *testing.T) {
		req := valid()
		req.Tags = []string{"a", "b", "c", "d", "e", "f"}
		require.Equal(t, "at most 5 tags are allowed", validateQuestionReq(&req))
	})
}
