package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateCascade(t *testing.T) {
	t.Run("First Source Covers Everything", func(t *testing.T) {
		contributions := AllocateCascade(5, []BurnSource{
			{Name: "burn", Balance: 10, Rate: 1},
			{Name: "voucher", Balance: 100, Rate: 0.5},
		})
		assert.Equal(t, 5.0, contributions[0])
		assert.Equal(t, 0.0, contributions[1])
	})

	t.Run("Cascades To Second Source", func(t *testing.T) {
		contributions := AllocateCascade(10, []BurnSource{
			{Name: "burn", Balance: 3, Rate: 1},
			{Name: "voucher", Balance: 20, Rate: 0.5},
		})
		assert.Equal(t, 3.0, contributions[0])
		// 差额 7 token, rate 0.5 → 扣 14 份来源资产
		assert.Equal(t, 14.0, contributions[1])
	})

	t.Run("Both Sources Exhausted", func(t *testing.T) {
		contributions := AllocateCascade(100, []BurnSource{
			{Name: "burn", Balance: 3, Rate: 1},
			{Name: "voucher", Balance: 4, Rate: 0.5},
		})
		assert.Equal(t, 3.0, contributions[0])
		assert.Equal(t, 4.0, contributions[1])
	})

	t.Run("Skips Empty And Invalid Sources", func(t *testing.T) {
		contributions := AllocateCascade(5, []BurnSource{
			{Name: "empty", Balance: 0, Rate: 1},
			{Name: "broken", Balance: 10, Rate: 0},
			{Name: "voucher", Balance: 100, Rate: 1},
		})
		assert.Equal(t, 0.0, contributions[0])
		assert.Equal(t, 0.0, contributions[1])
		assert.Equal(t, 5.0, contributions[2])
	})

	t.Run("Zero Need", func(t *testing.T) {
		contributions := AllocateCascade(0, []BurnSource{
			{Name: "burn", Balance: 10, Rate: 1},
		})
		assert.Equal(t, 0.0, contributions[0])
	})
}

func TestComputeBurnSplit(t *testing.T) {
	t.Run("Local Then Voucher", func(t *testing.T) {
		split := ComputeBurnSplit(10, 3, 20, 2)
		assert.Equal(t, 3.0, split.BurnFromLocal)
		// 差额 7 token 按价 2 折算 14 USD
		assert.Equal(t, 14.0, split.BurnFromUSD)
		assert.Equal(t, 10.0, split.BurnAmount)
	})

	t.Run("Conservation Of Tokens", func(t *testing.T) {
		price := 1.7
		split := ComputeBurnSplit(8, 2.5, 30, price)
		assert.InDelta(t, split.BurnFromLocal+split.BurnFromUSD/price, split.BurnAmount, 1e-9)
		assert.LessOrEqual(t, split.BurnAmount, 8.0+1e-9)
	})

	t.Run("Insufficient Funds Takes Everything", func(t *testing.T) {
		split := ComputeBurnSplit(100, 3, 4, 2)
		assert.Equal(t, 3.0, split.BurnFromLocal)
		assert.Equal(t, 4.0, split.BurnFromUSD)
		assert.Equal(t, 5.0, split.BurnAmount)
	})

	t.Run("Zero Price Burns Nothing", func(t *testing.T) {
		split := ComputeBurnSplit(10, 3, 20, 0)
		assert.Equal(t, BurnSplit{}, split)
	})
}
