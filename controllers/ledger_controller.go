package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/services"
)

// LedgerController serves a user's daily logs. Every :date parameter accepts
// "today", resolved in the user's time zone.
type LedgerController struct {
	Ledger   *services.LedgerService
	Profiles *services.ProfileService
	Summary  *services.SummaryService
}

func NewLedgerController(ledger *services.LedgerService, profiles *services.ProfileService, summary *services.SummaryService) *LedgerController {
	return &LedgerController{Ledger: ledger, Profiles: profiles, Summary: summary}
}

func (h *LedgerController) resolveDate(ctx context.Context, uid uint, date string) (string, error) {
	if date == "today" || date == "" {
		return h.Profiles.Today(ctx, uid)
	}
	return date, nil
}

// dayParams extracts the user and :date, writing the error response itself.
func (h *LedgerController) dayParams(c *gin.Context) (uint, string, bool) {
	uid, ok := requireUser(c)
	if !ok {
		return 0, "", false
	}
	date, err := h.resolveDate(c.Request.Context(), uid, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return 0, "", false
	}
	return uid, date, true
}

func (h *LedgerController) GetDay(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	day, err := h.Ledger.GetDay(c.Request.Context(), uid, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

type MealInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
}

func (h *LedgerController) AddMeal(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	var body MealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	day, entry, err := h.Ledger.AddMeal(c.Request.Context(), uid, services.LogMealInput{
		Date:        date,
		Type:        body.Type,
		Description: body.Description,
		Calories:    body.Calories,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "day": day})
}

func (h *LedgerController) EditMeal(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	var body MealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	day, err := h.Ledger.EditMeal(c.Request.Context(), uid, services.EditMealInput{
		Date:        date,
		EntryID:     c.Param("id"),
		Type:        body.Type,
		Description: body.Description,
		Calories:    body.Calories,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *LedgerController) DeleteMeal(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	day, err := h.Ledger.DeleteMeal(c.Request.Context(), uid, date, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *LedgerController) DaySummary(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	sum, err := h.Summary.DaySummary(c.Request.Context(), uid, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
