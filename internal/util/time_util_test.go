package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		d, err := ParseDate("")
		require.NoError(t, err)
		require.Nil(t, d)
	})

	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")
		require.NoError(t, err)
		require.True(t, d.Equal(NewDate(2024, 2, 29)))
	})

	t.Run("wrong layout", func(t *testing.T) {
		_, err := ParseDate("02/29/2024")
		require.Error(t, err)
	})
}
