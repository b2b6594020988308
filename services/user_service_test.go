package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/store/storetest"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func TestProfile_OnboardingComputesGoal(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	svc := NewProfileService(st, nil, "UTC", zerolog.Nop())

	view, err := svc.CompleteOnboarding(context.Background(), u.ID, scenarioForm())
	require.NoError(t, err)
	require.NotNil(t, view.DailyCalorieGoal)
	assert.Equal(t, 2094, *view.DailyCalorieGoal)
	assert.True(t, view.Onboarded)
	require.NotNil(t, view.BMI)
	assert.InDelta(t, 22.9, view.BMI.Value, 0.001)
}

func TestProfile_FormChangeRecomputesGoalAndDropsTips(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, scenarioForm())
	ctx := context.Background()
	_, err := st.UpdateUser(ctx, u.ID, func(u *models.User) error {
		u.CachedTips = &models.CachedTips{Tips: []string{"old"}, GeneratedAt: time.Now()}
		return nil
	})
	require.NoError(t, err)

	svc := NewProfileService(st, nil, "UTC", zerolog.Nop())
	view, err := svc.UpdateUserProfile(ctx, u.ID, ProfileInput{FormResponses: map[string]any{"altura": nil}})
	require.NoError(t, err)
	assert.Equal(t, 2000, *view.DailyCalorieGoal, "missing height falls back")
	assert.Nil(t, view.CachedTips)
	assert.NotContains(t, view.FormResponses, "altura")
}

func TestProfile_UpdateWithoutFormKeepsGoal(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, scenarioForm())
	svc := NewProfileService(st, nil, "UTC", zerolog.Nop())
	ctx := context.Background()

	_, err := svc.RecomputeGoal(ctx, u.ID)
	require.NoError(t, err)

	name, tz := "Ana", "America/Sao_Paulo"
	view, err := svc.UpdateUserProfile(ctx, u.ID, ProfileInput{DisplayName: &name, TimeZone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "Ana", view.DisplayName)
	assert.Equal(t, 2094, *view.DailyCalorieGoal)

	got, err := svc.TimeZone(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", got)
}

func TestProfile_RejectsUnknownTimeZone(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	svc := NewProfileService(st, nil, "UTC", zerolog.Nop())

	tz := "Mars/Olympus"
	_, err := svc.UpdateUserProfile(context.Background(), u.ID, ProfileInput{TimeZone: &tz})
	assert.True(t, IsValidationError(err))
}

func TestProfile_TimeZoneFallsBackToDefault(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	svc := NewProfileService(st, nil, "Europe/Lisbon", zerolog.Nop())

	tz, err := svc.TimeZone(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", tz)

	today, err := svc.Today(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, today, len("2006-01-02"))
}

func TestProfile_UploadImage(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	up := &fakeUploader{url: "https://cdn.example.com/profile_images/1/a.png"}
	svc := NewProfileService(st, up, "UTC", zerolog.Nop())
	ctx := context.Background()

	view, err := svc.UploadProfileImage(ctx, u.ID, pngDataURL)
	require.NoError(t, err)
	assert.Equal(t, up.url, view.ProfilePicture)
	assert.Equal(t, []string{"profile_images/1/"}, up.prefixes)

	_, err = svc.UploadProfileImage(ctx, u.ID, "not-an-image")
	assert.True(t, IsValidationError(err))

	_, err = NewProfileService(st, nil, "UTC", zerolog.Nop()).UploadProfileImage(ctx, u.ID, pngDataURL)
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestProfile_UnknownUser(t *testing.T) {
	svc := NewProfileService(storetest.NewStore(t), nil, "UTC", zerolog.Nop())
	_, err := svc.GetUserProfile(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
