package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	require.Equal(t, "golang", NormalizeTag("  GoLang "))
	require.Equal(t, "sql", NormalizeTag("SQL"))
	require.Equal(t, "", NormalizeTag("   "))
	require.Equal(t, "c++", NormalizeTag("C++"))
}
