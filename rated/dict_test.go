package rated

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// === Unit Tests: Set / Get / Delete ===

func TestDict_Set_InsertsWithZeroRating(t *testing.T) {
	d := NewDict[int]()

	d.Set("test", 7)

	require.Equal(t, 1, d.Size())
	value, err := d.Get("test")
	require.NoError(t, err)
	require.Equal(t, 7, value)

	rating, err := d.Rating("test")
	require.NoError(t, err)
	require.Zero(t, rating)
}

func TestDict_Set_ReplacePreservesRating(t *testing.T) {
	d := NewDict[int]()
	d.Set("test", 7)
	require.NoError(t, d.Rate(map[string]float64{"test": 4}))

	d.Set("test", 8)

	value, err := d.Get("test")
	require.NoError(t, err)
	require.Equal(t, 8, value)

	rating, err := d.Rating("test")
	require.NoError(t, err)
	require.Equal(t, 4.0, rating)
}

func TestDict_Get_ReturnsNotFoundForMissing(t *testing.T) {
	d := NewDict[int]()

	_, err := d.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDict_Delete_RemovesValueAndRating(t *testing.T) {
	d := NewDict[int]()
	d.Set("test", 7)

	require.NoError(t, d.Delete("test"))

	require.False(t, d.Contains("test"))
	require.Zero(t, d.Size())
	_, err := d.Rating("test")
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, d.KeysByRating())
}

func TestDict_Delete_ReturnsNotFoundForMissing(t *testing.T) {
	d := NewDict[int]()

	err := d.Delete("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDict_SetDefault_KeepsFirstValue(t *testing.T) {
	d := NewDict[int]()

	stored, inserted := d.SetDefault("test", 1)
	require.True(t, inserted)
	require.Equal(t, 1, stored)

	stored, inserted = d.SetDefault("test", 2)
	require.False(t, inserted)
	require.Equal(t, 1, stored)
}

// === Unit Tests: Update ===

func TestDict_Update_FromMap(t *testing.T) {
	d := NewDict[int]()

	require.NoError(t, d.Update(map[string]int{"a": 1, "b": 2, "c": 3}))

	require.Equal(t, 3, d.Size())
	for _, key := range []string{"a", "b", "c"} {
		rating, err := d.Rating(key)
		require.NoError(t, err)
		require.Zero(t, rating)
	}
}

func TestDict_Update_FromPairsKeepsOrder(t *testing.T) {
	d := NewDict[string]()

	require.NoError(t, d.Update([]Entry[string]{
		{Key: "f", Value: "6"},
		{Key: "g", Value: "7"},
		{Key: "h", Value: "8"},
	}))

	require.Equal(t, []string{"f", "g", "h"}, d.KeysByRating())
}

func TestDict_Update_EmptySourcesAreNoOps(t *testing.T) {
	d := NewDict[int]()

	require.NoError(t, d.Update(map[string]int{}))
	require.NoError(t, d.Update([]Entry[int]{}))
	require.Zero(t, d.Size())
}

func TestDict_Update_RejectsInvalidSource(t *testing.T) {
	d := NewDict[int]()

	err := d.Update(42)
	require.ErrorIs(t, err, ErrInvalidSource)
	require.Zero(t, d.Size())
}

// === Unit Tests: Rate ===

func TestDict_Rate_ReordersDescending(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2},
		{Key: "c", Value: 3}, {Key: "d", Value: 4},
	}))

	require.NoError(t, d.Rate(map[string]float64{"a": 5, "b": 6, "c": 1, "d": 3}))

	require.Equal(t, []string{"b", "a", "d", "c"}, d.KeysByRating())
}

func TestDict_Rate_UnspecifiedKeysKeepRating(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2},
	}))
	require.NoError(t, d.Rate(map[string]float64{"a": 5}))

	require.NoError(t, d.Rate(map[string]float64{"b": 1}))

	rating, err := d.Rating("a")
	require.NoError(t, err)
	require.Equal(t, 5.0, rating)
	require.Equal(t, []string{"a", "b"}, d.KeysByRating())
}

func TestDict_Rate_StableTieBreak(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3},
	}))

	// a and c tie; a was inserted before c and must stay ahead of it.
	require.NoError(t, d.Rate(map[string]float64{"a": 5, "b": 3, "c": 5}))

	require.Equal(t, []string{"a", "c", "b"}, d.KeysByRating())
}

func TestDict_Rate_UnexpectedKeyIsAllOrNothing(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2},
	}))

	err := d.Rate([]Rating{
		{Key: "a", Score: 9},
		{Key: "nope", Score: 1},
	})

	require.ErrorIs(t, err, ErrUnexpectedKey)
	var unexpected *UnexpectedKeyError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, "nope", unexpected.Key)

	// The valid rating in the same call must not have been applied.
	rating, err := d.Rating("a")
	require.NoError(t, err)
	require.Zero(t, rating)
}

func TestDict_Rate_RejectsInvalidSource(t *testing.T) {
	d := NewDict[int]()

	err := d.Rate("not ratings")
	require.ErrorIs(t, err, ErrInvalidSource)
}

// === Unit Tests: Top / Ranked / HighestRated ===

func TestDict_Top_ReturnsHighestRated(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 4},
		{Key: "d", Value: 8}, {Key: "e", Value: 16},
	}))
	require.NoError(t, d.Rate(map[string]float64{"a": 5, "b": 4, "c": 3}))

	top, err := d.Top(3)
	require.NoError(t, err)
	require.Equal(t, []Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 4},
	}, top)
}

func TestDict_Top_ZeroReturnsEmpty(t *testing.T) {
	d := NewDict[int]()
	d.Set("a", 1)

	top, err := d.Top(0)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestDict_Top_OutOfRange(t *testing.T) {
	d := NewDict[int]()
	d.Set("a", 1)

	_, err := d.Top(10)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = d.Top(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestDict_Ranked_ReturnsEverything(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3},
	}))
	require.NoError(t, d.Rate(map[string]float64{"c": 2}))

	ranked := d.Ranked()
	require.Len(t, ranked, 3)
	require.Equal(t, "c", ranked[0].Key)
}

func TestDict_HighestRated_ReturnsTopValue(t *testing.T) {
	d := NewDict[int]()
	require.NoError(t, d.Update([]Entry[int]{
		{Key: "a", Value: 1}, {Key: "b", Value: 4}, {Key: "c", Value: 16},
	}))
	require.NoError(t, d.Rate(map[string]float64{"a": 16}))

	value, err := d.HighestRated()
	require.NoError(t, err)
	require.Equal(t, 1, value)
}

func TestDict_HighestRated_EmptyFails(t *testing.T) {
	d := NewDict[int]()

	_, err := d.HighestRated()
	require.ErrorIs(t, err, ErrEmpty)
}

// === Unit Tests: Snapshots ===

func TestDict_KeysByRating_IsASnapshot(t *testing.T) {
	d := NewDict[int]()
	d.Set("a", 1)

	keys := d.KeysByRating()
	d.Set("b", 2)

	require.Equal(t, []string{"a"}, keys)
	require.Equal(t, []string{"a", "b"}, d.KeysByRating())
}

// === Unit Tests: Concurrency ===

func TestDict_ConcurrentMutation(t *testing.T) {
	d := NewDict[int]()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				d.Set(key, j)
				_, _ = d.Get(key)
				_ = d.Rate(map[string]float64{key: float64(j)})
				_ = d.KeysByRating()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 8, d.Size())
	require.Len(t, d.KeysByRating(), 8)
}
