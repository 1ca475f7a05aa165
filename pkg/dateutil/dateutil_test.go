package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBeginningOfWeek(t *testing.T) {
	// 2023-05-17 is a Wednesday.
	wednesday := time.Date(2023, 5, 17, 15, 4, 5, 0, time.UTC)
	monday := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	require.Equal(t, monday, BeginningOfWeek(wednesday))
	require.Equal(t, monday, BeginningOfWeek(monday))

	// Sunday still belongs to the week starting the previous Monday.
	sunday := time.Date(2023, 5, 21, 23, 59, 59, 0, time.UTC)
	require.Equal(t, monday, BeginningOfWeek(sunday))

	require.Equal(t, monday.AddDate(0, 0, 7), NextWeek(wednesday))
	require.Equal(t, monday.AddDate(0, 0, -7), LastWeek(wednesday))
}

func TestDay(t *testing.T) {
	require.Equal(t, "2023-05-17", Day(time.Date(2023, 5, 17, 23, 0, 0, 0, time.UTC)))
	require.Equal(t, time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC),
		BeginningOfDay(time.Date(2023, 5, 17, 23, 59, 0, 0, time.UTC)))
}
