package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/services"
)

type EstimateController struct {
	Svc *services.EstimatorService
}

func NewEstimateController(svc *services.EstimatorService) *EstimateController {
	return &EstimateController{Svc: svc}
}

// Estimate answers with calories and whether the model gave a usable number;
// calories is 0 when it did not.
func (h *EstimateController) Estimate(c *gin.Context) {
	var body struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	est, err := h.Svc.EstimateDetailed(c.Request.Context(), body.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
