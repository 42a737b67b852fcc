package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBands() []RuleBand {
	return []RuleBand{
		{ID: 1, FromDropPercent: 0, ToDropPercent: 10, IncreaseDLPPercent: 0, ProductionDecreasePercent: 0},
		{ID: 2, FromDropPercent: 10, ToDropPercent: 20, IncreaseDLPPercent: 5, ProductionDecreasePercent: 5},
		{ID: 3, FromDropPercent: 20, ToDropPercent: 35, IncreaseDLPPercent: 10, ProductionDecreasePercent: 10},
	}
}

func TestMatchBand(t *testing.T) {
	bands := testBands()

	t.Run("Match Inside Band", func(t *testing.T) {
		band := MatchBand(bands, 15)
		require.NotNil(t, band)
		assert.Equal(t, uint(2), band.ID)
	})

	t.Run("Boundary Belongs To Higher Band", func(t *testing.T) {
		// 10 命中两个档位区间, 取 FromDropPercent 更高的
		band := MatchBand(bands, 10)
		require.NotNil(t, band)
		assert.Equal(t, uint(2), band.ID)
	})

	t.Run("No Match Above All Bands", func(t *testing.T) {
		band := MatchBand(bands, 50)
		assert.Nil(t, band)
	})

	t.Run("Zero Drop Matches First Band", func(t *testing.T) {
		band := MatchBand(bands, 0)
		require.NotNil(t, band)
		assert.Equal(t, uint(1), band.ID)
	})
}

func TestEvaluateFloorPrice(t *testing.T) {
	bands := testBands()

	t.Run("Price Falls Into New Band Raises DLP", func(t *testing.T) {
		state := FloorState{DLP: 100, ATH: 100}
		result := EvaluateFloorPrice(state, bands, 85, 100)

		assert.True(t, result.FellFromPrevDay)
		assert.Equal(t, 15.0, result.PriceDropPercent)
		require.NotNil(t, result.Band)
		assert.Equal(t, uint(2), result.Band.ID)
		// 从零档叠加: band1 +0, band2 +100*5% = 5
		assert.InDelta(t, 105, result.DLP, 1e-9)
		assert.Equal(t, 100.0, result.ATH)
	})

	t.Run("Same Band Does Not Raise DLP Twice", func(t *testing.T) {
		activeBand := uint(2)
		state := FloorState{DLP: 100, ATH: 100, ActiveBandID: &activeBand}
		result := EvaluateFloorPrice(state, bands, 85, 100)

		require.NotNil(t, result.Band)
		assert.Equal(t, uint(2), result.Band.ID)
		assert.InDelta(t, 100, result.DLP, 1e-9)
	})

	t.Run("Recovering Price Keeps DLP", func(t *testing.T) {
		state := FloorState{DLP: 105, ATH: 100}
		result := EvaluateFloorPrice(state, bands, 90, 85)

		assert.False(t, result.FellFromPrevDay)
		assert.InDelta(t, 105, result.DLP, 1e-9)
		// 回升按 DLP 口径算跌幅: (105-90)/105
		assert.InDelta(t, 14.29, result.PriceDropPercent, 0.01)
	})

	t.Run("New ATH Updates And DLP Follows Price", func(t *testing.T) {
		state := FloorState{DLP: 100, ATH: 100}
		result := EvaluateFloorPrice(state, bands, 120, 100)

		assert.Equal(t, 120.0, result.ATH)
		// DLP 不低于现价
		assert.InDelta(t, 120, result.DLP, 1e-9)
		assert.Equal(t, 0.0, result.PriceDropPercent)
	})

	t.Run("DLP Never Decreases", func(t *testing.T) {
		state := FloorState{DLP: 100, ATH: 100}
		prices := []float64{95, 80, 85, 70, 110}
		previous := 100.0
		dlp := state.DLP

		for _, price := range prices {
			result := EvaluateFloorPrice(state, bands, price, previous)
			assert.GreaterOrEqual(t, result.DLP, dlp, "DLP must be monotonic at price %f", price)
			dlp = result.DLP
			state.DLP = result.DLP
			state.ATH = result.ATH
			if result.Band != nil {
				id := result.Band.ID
				state.ActiveBandID = &id
			} else {
				state.ActiveBandID = nil
			}
			previous = price
		}
	})

	t.Run("Zero State Is Safe", func(t *testing.T) {
		result := EvaluateFloorPrice(FloorState{}, bands, 0, 0)
		assert.Equal(t, 0.0, result.PriceDropPercent)
		assert.False(t, result.FellFromPrevDay)
	})
}

func TestApplyProductionPenalty(t *testing.T) {
	bands := testBands()

	t.Run("Compounding Penalty Walk", func(t *testing.T) {
		// 跌 15%: band1 扣 0, band2 扣 100*5% = 5
		finalValue, totalPenalty := ApplyProductionPenalty(100, 15, bands)
		assert.InDelta(t, 95, finalValue, 1e-9)
		assert.InDelta(t, 5, totalPenalty, 1e-9)
	})

	t.Run("Deeper Drop Compounds On Reduced Base", func(t *testing.T) {
		// 跌 25%: band2 扣 5, band3 在余额 95 上扣 10% = 9.5
		finalValue, totalPenalty := ApplyProductionPenalty(100, 25, bands)
		assert.InDelta(t, 85.5, finalValue, 1e-9)
		assert.InDelta(t, 14.5, totalPenalty, 1e-9)
	})

	t.Run("No Drop No Penalty", func(t *testing.T) {
		finalValue, totalPenalty := ApplyProductionPenalty(100, 0, bands)
		assert.Equal(t, 100.0, finalValue)
		assert.Equal(t, 0.0, totalPenalty)
	})

	t.Run("Idempotent For Same Drop", func(t *testing.T) {
		first, _ := ApplyProductionPenalty(100, 15, bands)
		second, _ := ApplyProductionPenalty(100, 15, bands)
		assert.Equal(t, first, second)
	})

	t.Run("Zero Base Value", func(t *testing.T) {
		finalValue, totalPenalty := ApplyProductionPenalty(0, 25, bands)
		assert.Equal(t, 0.0, finalValue)
		assert.Equal(t, 0.0, totalPenalty)
	})
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23457, RoundTo(1.2345678, 5))
	assert.Equal(t, 1.23, RoundTo(1.234, 2))
	assert.Equal(t, 100.0, RoundTo(99.999999, 2))
}
