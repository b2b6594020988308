package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrixpro/nutrix-backend/services"
)

type UserController struct {
	Profiles *services.ProfileService
	Tips     *services.TipsService
}

func NewUserController(profiles *services.ProfileService, tips *services.TipsService) *UserController {
	return &UserController{Profiles: profiles, Tips: tips}
}

func (h *UserController) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := h.Profiles.GetUserProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type UpdateProfileInput struct {
	DisplayName   *string        `json:"display_name"`
	TimeZone      *string        `json:"time_zone"`
	FormResponses map[string]any `json:"form_responses"`
}

func (h *UserController) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Profiles.UpdateUserProfile(c.Request.Context(), uid, services.ProfileInput{
		DisplayName:   input.DisplayName,
		TimeZone:      input.TimeZone,
		FormResponses: input.FormResponses,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type QuestionnaireInput struct {
	FormResponses map[string]any `json:"form_responses" binding:"required"`
}

func (h *UserController) SubmitQuestionnaire(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input QuestionnaireInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Profiles.CompleteOnboarding(c.Request.Context(), uid, input.FormResponses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserController) RecomputeGoal(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := h.Profiles.RecomputeGoal(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_calorie_goal": profile.DailyCalorieGoal})
}

func (h *UserController) UploadProfileImage(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var body struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Profiles.UploadProfileImage(c.Request.Context(), uid, body.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_picture": profile.ProfilePicture})
}

func (h *UserController) GetTips(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	tips, err := h.Tips.GetTips(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tips)
}
