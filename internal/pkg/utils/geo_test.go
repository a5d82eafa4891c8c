package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barber-finder/internal/pkg/utils"
)

func TestLatDegreesToMeters(t *testing.T) {
	assert.InDelta(t, 111320.0, utils.LatDegreesToMeters(1.0), 0.001)
	assert.InDelta(t, 11132.0, utils.LatDegreesToMeters(0.1), 0.001)
}

func TestLngDegreesToMeters_ShrinksTowardPoles(t *testing.T) {
	atEquator := utils.LngDegreesToMeters(1.0, 0.0)
	at45 := utils.LngDegreesToMeters(1.0, 45.0)
	at60 := utils.LngDegreesToMeters(1.0, 60.0)
	at89 := utils.LngDegreesToMeters(1.0, 89.0)

	assert.InDelta(t, 111320.0, atEquator, 0.001)
	assert.Greater(t, atEquator, at45)
	assert.Greater(t, at45, at60)
	assert.Greater(t, at60, at89)

	// на 60 градусах градус долготы ровно вдвое короче экваториального
	assert.InDelta(t, atEquator/2, at60, 1.0)

	// знак широты не влияет
	assert.InDelta(t, at45, utils.LngDegreesToMeters(1.0, -45.0), 0.001)
}

func TestHaversineDistance(t *testing.T) {
	// Барселона - Париж, примерно 831 км
	d := utils.HaversineDistance(41.3851, 2.1734, 48.8566, 2.3522)
	assert.InDelta(t, 831.0, d, 5.0)

	assert.Equal(t, 0.0, utils.HaversineDistance(10, 10, 10, 10))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(0, 0))
	assert.True(t, utils.ValidateCoordinates(-90, 180))
	assert.False(t, utils.ValidateCoordinates(90.1, 0))
	assert.False(t, utils.ValidateCoordinates(0, -180.5))
}
