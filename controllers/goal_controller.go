package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/utils"
)

// CalculateGoalInput mirrors the questionnaire answers. Missing fields make
// the result fall back to the default goal.
type CalculateGoalInput struct {
	Weight   flexNumber `json:"weight"`
	Height   flexNumber `json:"height"`
	Age      flexNumber `json:"age"`
	Sex      string     `json:"sex"`
	Activity string     `json:"activity_level"`
	Goal     string     `json:"goal"`
}

func (in CalculateGoalInput) profile() utils.CalorieProfile {
	return utils.CalorieProfile{
		WeightKg: float64(in.Weight),
		HeightCm: float64(in.Height),
		AgeYears: float64(in.Age),
		Sex:      utils.ParseSex(in.Sex),
		Activity: utils.ParseActivityLevel(in.Activity),
		Goal:     utils.ParseGoal(in.Goal),
	}
}

// CalculateGoal runs the calorie goal calculator without touching any profile.
func CalculateGoal(c *gin.Context) {
	var input CalculateGoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BreakdownCalories(input.profile()))
}
