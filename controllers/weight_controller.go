package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/services"
)

type WeightController struct {
	Svc *services.WeightService
}

func NewWeightController(svc *services.WeightService) *WeightController {
	return &WeightController{Svc: svc}
}

func (h *WeightController) LogWeight(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var body struct {
		Weight flexNumber `json:"weight"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	sample, err := h.Svc.LogWeight(c.Request.Context(), uid, float64(body.Weight))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sample)
}

// GetWeights returns the full history with its trend.
func (h *WeightController) GetWeights(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	trend, err := h.Svc.Trend(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}
