package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/store/storetest"
)

// --- Fakes ---

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
	// during runs while the reply is being produced
	during func()
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.during != nil {
		f.during()
	}
	return f.reply, f.err
}

type fakeUploader struct {
	url      string
	prefixes []string
}

func (f *fakeUploader) UploadBase64Image(_ context.Context, _ string, prefix string) (string, error) {
	f.prefixes = append(f.prefixes, prefix)
	return f.url, nil
}

func newLedger(t *testing.T) (*LedgerService, *store.Gorm) {
	t.Helper()
	st := storetest.NewStore(t)
	return NewLedgerService(st, NewRealtimeHub(zerolog.Nop()), zerolog.Nop()), st
}

func createUser(t *testing.T, st store.ProfileStore, form models.FormResponses) *models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &models.User{
		Email:         "ana@example.com",
		Password:      "x",
		FormResponses: form,
	})
	require.NoError(t, err)
	return u
}

func scenarioForm() models.FormResponses {
	return models.FormResponses{
		"peso":           70,
		"altura":         175,
		"idade":          25,
		"genero":         "Masculino",
		"nivelAtividade": "Moderadamente ativo (3–4x por semana)",
		"objetivo":       "Emagrecimento",
	}
}
