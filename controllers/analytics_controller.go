package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/services"
	"github.com/nutrixpro/nutrix-backend/utils"
)

// defaultRangeDays is the window used when from is omitted.
const defaultRangeDays = 7

type AnalyticsController struct {
	Svc      *services.AnalyticsService
	Profiles *services.ProfileService
}

func NewAnalyticsController(svc *services.AnalyticsService, profiles *services.ProfileService) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Profiles: profiles}
}

// GetRange summarizes from..to; to defaults to today and from to a week before it.
func (h *AnalyticsController) GetRange(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	to := c.Query("to")
	if to == "" || to == "today" {
		today, err := h.Profiles.Today(c.Request.Context(), uid)
		if err != nil {
			respondError(c, err)
			return
		}
		to = today
	}
	from := c.Query("from")
	if from == "" {
		end, err := time.Parse(utils.DateKeyLayout, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		from = end.AddDate(0, 0, -(defaultRangeDays - 1)).Format(utils.DateKeyLayout)
	}
	includeMissing := c.DefaultQuery("includeMissingDays", "false") == "true"

	out, err := h.Svc.Range(c.Request.Context(), uid, from, to, includeMissing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
