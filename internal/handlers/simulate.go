package handlers

import (
	"net/http"

	"stakecontrol/internal/handlers/business"

	"github.com/gin-gonic/gin"
)

// SimulateRequest represents the request payload for a reward simulation
type SimulateRequest struct {
	MachineID uint      `json:"machine_id" binding:"required"`
	Prices    []float64 `json:"prices" binding:"required"`
}

// SimulateMachineRewards previews daily rewards for a machine over a price
// sequence. Read-only: nothing committed.
func SimulateMachineRewards(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Prices) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prices must not be empty"})
		return
	}
	if len(req.Prices) > 3650 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price sequence too long"})
		return
	}

	ticks, err := business.SimulateMachineRewards(req.MachineID, req.Prices)
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"machine_id": req.MachineID,
		"days":       len(ticks),
		"ticks":      ticks,
	})
}
