package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	require.True(t, Actor{ID: 1, Role: RoleAdmin}.IsAdmin())
	require.False(t, Actor{ID: 1, Role: RoleUser}.IsAdmin())
	require.False(t, Actor{ID: 1, Role: "moderator"}.IsAdmin())
}

func TestCanModify(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		owner uint64
		want  bool
	}{
		{"owner edits own resource", Actor{ID: 7, Role: RoleUser}, 7, true},
		{"stranger denied", Actor{ID: 7, Role: RoleUser}, 8, false},
		{"admin edits anything", Actor{ID: 1, Role: RoleAdmin}, 99, true},
		{"admin edits own", Actor{ID: 1, Role: RoleAdmin}, 1, true},
		{"unknown role falls back to ownership", Actor{ID: 5, Role: "moderator"}, 6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.actor.CanModify(tc.owner))
		})
	}
}
