package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
)

var (
	// GenericTips are shown to users who have not answered the questionnaire.
	GenericTips = []string{
		"Beba pelo menos 2 litros de água por dia.",
		"Preencha o formulário inicial para receber dicas personalizadas!",
		"Uma boa noite de sono é fundamental para seus resultados.",
	}
	// FallbackTips are shown when tip generation fails.
	FallbackTips = []string{
		"Beba pelo menos 2 litros de água por dia.",
		"Uma boa noite de sono é fundamental para seus resultados.",
		"Tente consumir mais frutas e vegetais no seu dia a dia.",
	}
)

// TipsService produces personalized tips and caches them on the profile.
type TipsService struct {
	profiles store.ProfileStore
	gen      TextGenerator
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewTipsService(profiles store.ProfileStore, gen TextGenerator, ttl time.Duration, log zerolog.Logger) *TipsService {
	return &TipsService{profiles: profiles, gen: gen, ttl: ttl, now: time.Now, log: log}
}

// TipsResult carries the tips and where they came from.
type TipsResult struct {
	Tips        []string   `json:"tips"`
	Source      string     `json:"source"` // cache|generated|generic|fallback
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

func (s *TipsService) GetTips(ctx context.Context, userID uint) (*TipsResult, error) {
	u, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if c := u.CachedTips; c != nil && len(c.Tips) > 0 && now.Sub(c.GeneratedAt) < s.ttl {
		at := c.GeneratedAt
		return &TipsResult{Tips: c.Tips, Source: "cache", GeneratedAt: &at}, nil
	}
	if len(u.FormResponses) == 0 {
		return &TipsResult{Tips: GenericTips, Source: "generic"}, nil
	}

	profile, err := json.Marshal(u.FormResponses)
	if err != nil {
		return nil, err
	}
	tips, err := s.generate(ctx, profile)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("tip generation failed, using fallback")
		return &TipsResult{Tips: FallbackTips, Source: "fallback"}, nil
	}

	// the questionnaire may have changed while the model was answering;
	// tips for an old profile are returned once but never cached
	cached := false
	if _, err := s.profiles.UpdateUser(ctx, userID, func(u *models.User) error {
		current, err := json.Marshal(u.FormResponses)
		if err != nil {
			return err
		}
		if !bytes.Equal(current, profile) {
			return nil
		}
		u.CachedTips = &models.CachedTips{Tips: tips, GeneratedAt: now}
		cached = true
		return nil
	}); err != nil {
		return nil, err
	}
	if !cached {
		s.log.Debug().Uint("user_id", userID).Msg("profile changed during tip generation, not caching")
		return &TipsResult{Tips: tips, Source: "generated"}, nil
	}
	return &TipsResult{Tips: tips, Source: "generated", GeneratedAt: &now}, nil
}

func (s *TipsService) generate(ctx context.Context, profile []byte) ([]string, error) {
	text, err := s.gen.Generate(ctx, buildTipsPrompt(string(profile)))
	if err != nil {
		return nil, err
	}
	return parseTips(text)
}

func buildTipsPrompt(profileJSON string) string {
	return fmt.Sprintf(`Baseado no perfil de usuário abaixo, gere 2 dicas curtas, úteis e motivadoras sobre nutrição e bem-estar.
As dicas devem ser diretamente relacionadas ao "objetivo" principal do usuário.
Se o usuário tem restrições, uma das dicas pode ser sobre como lidar com essa restrição.

Perfil do usuário:
%s

Sua resposta DEVE ser um array JSON contendo 2 strings, e nada mais.
Exemplo de resposta: ["Sua dica 1 aqui.", "Sua dica 2 aqui."]`, profileJSON)
}

// parseTips accepts a JSON array of non-empty strings, optionally inside a
// markdown code fence.
func parseTips(text string) ([]string, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var tips []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &tips); err != nil {
		return nil, fmt.Errorf("tips are not a JSON array of strings: %w", err)
	}
	out := tips[:0]
	for _, t := range tips {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no tips returned")
	}
	return out, nil
}
