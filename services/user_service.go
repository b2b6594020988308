package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

// ImageUploader stores an image data URL under a key prefix and returns its public URL.
type ImageUploader interface {
	UploadBase64Image(ctx context.Context, dataURL, prefix string) (string, error)
}

// ProfileService owns the user profile and keeps its cached calorie goal in
// step with the questionnaire: every write that touches formResponses
// recomputes dailyCalorieGoal in the same transaction.
type ProfileService struct {
	profiles  store.ProfileStore
	uploader  ImageUploader
	defaultTZ string
	log       zerolog.Logger
}

// NewProfileService accepts a nil uploader; uploads then fail with ErrUploadsDisabled.
func NewProfileService(profiles store.ProfileStore, uploader ImageUploader, defaultTZ string, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, uploader: uploader, defaultTZ: defaultTZ, log: log}
}

// ProfileView is the profile plus values derived from it.
type ProfileView struct {
	*models.User
	BMI *utils.BMI `json:"bmi,omitempty"`
}

type ProfileInput struct {
	DisplayName   *string        `json:"display_name"`
	TimeZone      *string        `json:"time_zone"`
	FormResponses map[string]any `json:"form_responses"`
}

func (s *ProfileService) GetUserProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	u, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newProfileView(u), nil
}

func newProfileView(u *models.User) *ProfileView {
	v := &ProfileView{User: u}
	if bmi, ok := utils.BMIFromForm(u.FormResponses); ok {
		v.BMI = bmi
	}
	return v
}

// TimeZone returns the zone used to compute the user's "today".
func (s *ProfileService) TimeZone(ctx context.Context, userID uint) (string, error) {
	u, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.TimeZone != "" {
		return u.TimeZone, nil
	}
	return s.defaultTZ, nil
}

// CompleteOnboarding merges the questionnaire answers, marks onboarding done
// and recomputes the calorie goal.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID uint, responses map[string]any) (*ProfileView, error) {
	if len(responses) == 0 {
		return nil, NewValidationError("form_responses", "must not be empty")
	}
	u, err := s.profiles.UpdateUser(ctx, userID, func(u *models.User) error {
		mergeForm(u, responses)
		u.Onboarded = true
		recomputeGoal(u)
		u.CachedTips = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", userID).Int("daily_calorie_goal", *u.DailyCalorieGoal).Msg("onboarding completed")
	return newProfileView(u), nil
}

// UpdateUserProfile applies a partial update. A null value in FormResponses
// removes that answer.
func (s *ProfileService) UpdateUserProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	if in.TimeZone != nil && *in.TimeZone != "" {
		if _, err := time.LoadLocation(*in.TimeZone); err != nil {
			return nil, NewValidationError("time_zone", "unknown IANA time zone")
		}
	}
	u, err := s.profiles.UpdateUser(ctx, userID, func(u *models.User) error {
		if in.DisplayName != nil {
			u.DisplayName = strings.TrimSpace(*in.DisplayName)
		}
		if in.TimeZone != nil {
			u.TimeZone = *in.TimeZone
		}
		if len(in.FormResponses) > 0 {
			mergeForm(u, in.FormResponses)
			recomputeGoal(u)
			u.CachedTips = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newProfileView(u), nil
}

// RecomputeGoal re-evaluates dailyCalorieGoal from the stored answers.
func (s *ProfileService) RecomputeGoal(ctx context.Context, userID uint) (*ProfileView, error) {
	u, err := s.profiles.UpdateUser(ctx, userID, func(u *models.User) error {
		recomputeGoal(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newProfileView(u), nil
}

// UploadProfileImage stores the picture under profile_images/<id>/ and saves its URL.
func (s *ProfileService) UploadProfileImage(ctx context.Context, userID uint, dataURL string) (*ProfileView, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if strings.TrimSpace(dataURL) == "" {
		return nil, NewValidationError("image", "must not be empty")
	}
	if _, err := utils.DecodeDataURL(dataURL); err != nil {
		return nil, NewValidationError("image", err.Error())
	}
	url, err := s.uploader.UploadBase64Image(ctx, dataURL, fmt.Sprintf("profile_images/%d/", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	u, err := s.profiles.UpdateUser(ctx, userID, func(u *models.User) error {
		u.ProfilePicture = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newProfileView(u), nil
}

func mergeForm(u *models.User, patch map[string]any) {
	if u.FormResponses == nil {
		u.FormResponses = models.FormResponses{}
	}
	for k, v := range patch {
		if v == nil {
			delete(u.FormResponses, k)
			continue
		}
		u.FormResponses[k] = v
	}
}

func recomputeGoal(u *models.User) {
	goal := utils.GoalFromForm(u.FormResponses)
	u.DailyCalorieGoal = &goal
}

// Today resolves the user's current calendar date as a date key.
func (s *ProfileService) Today(ctx context.Context, userID uint) (string, error) {
	tz, err := s.TimeZone(ctx, userID)
	if err != nil {
		return "", err
	}
	return utils.DateKeyIn(time.Now(), tz), nil
}
