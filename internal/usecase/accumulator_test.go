package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barber-finder/internal/domain"
	"github.com/barber-finder/internal/usecase"
)

func TestResultAccumulator_Dedup(t *testing.T) {
	acc := usecase.NewResultAccumulator(500)

	first := domain.PlaceRecord{
		PlaceID:          "place-1",
		Name:             "Fade Masters",
		FormattedAddress: "1 Main St",
	}
	duplicate := domain.PlaceRecord{
		PlaceID:          "place-1",
		Name:             "Fade Masters Rebranded",
		FormattedAddress: "99 Other Ave",
	}

	assert.True(t, acc.Add(first))
	assert.False(t, acc.Add(duplicate))

	results := acc.Results()
	require.Len(t, results, 1)

	// побеждают атрибуты первого увиденного хита
	assert.Equal(t, "Fade Masters", results[0].Name)
	assert.Equal(t, "1 Main St", results[0].FormattedAddress)
}

func TestResultAccumulator_SkipsMissingID(t *testing.T) {
	acc := usecase.NewResultAccumulator(500)

	assert.False(t, acc.Add(domain.PlaceRecord{Name: "no id"}))
	assert.Equal(t, 0, acc.Len())
}

func TestResultAccumulator_CapEnforced(t *testing.T) {
	acc := usecase.NewResultAccumulator(500)

	for i := 0; i < 600; i++ {
		acc.Add(domain.PlaceRecord{
			PlaceID: fmt.Sprintf("place-%d", i),
			Name:    fmt.Sprintf("Shop %d", i),
		})
	}

	assert.Equal(t, 500, acc.Len())
	assert.True(t, acc.Full())

	// предупреждение о лимите записывается ровно один раз
	require.Len(t, acc.Warnings(), 1)

	// первые 500 уникальных, в порядке появления
	results := acc.Results()
	assert.Equal(t, "place-0", results[0].PlaceID)
	assert.Equal(t, "place-499", results[499].PlaceID)
}

func TestResultAccumulator_PreservesInsertionOrder(t *testing.T) {
	acc := usecase.NewResultAccumulator(500)

	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		acc.Add(domain.PlaceRecord{PlaceID: id})
	}

	results := acc.Results()
	require.Len(t, results, 3)
	for i, id := range ids {
		assert.Equal(t, id, results[i].PlaceID)
	}
}

func TestResultAccumulator_AddPage(t *testing.T) {
	acc := usecase.NewResultAccumulator(500)

	acc.AddPage(&domain.SearchPage{
		Places: []domain.PlaceRecord{
			{PlaceID: "a"},
			{PlaceID: "b"},
			{PlaceID: "a"},
			{},
		},
	})

	assert.Equal(t, 2, acc.Len())
}
