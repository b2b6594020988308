package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// TextGenerator turns a prompt into free-form text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Estimate is the detailed result of a calorie estimation. Available is false
// when the model answered with something that is not a non-negative integer.
type Estimate struct {
	Calories  int    `json:"calories"`
	Available bool   `json:"available"`
	Raw       string `json:"-"`
}

// EstimatorService asks a text generator for the calories of a meal description.
type EstimatorService struct {
	gen TextGenerator
	log zerolog.Logger
}

func NewEstimatorService(gen TextGenerator, log zerolog.Logger) *EstimatorService {
	return &EstimatorService{gen: gen, log: log}
}

// Estimate returns the estimated calories, or 0 when the answer could not be
// read as a number. Transport failures return ErrEstimatorUnavailable.
func (s *EstimatorService) Estimate(ctx context.Context, description string) (int, error) {
	est, err := s.EstimateDetailed(ctx, description)
	if err != nil {
		return 0, err
	}
	return est.Calories, nil
}

// EstimateDetailed is Estimate keeping "answered 0" apart from "unparseable".
func (s *EstimatorService) EstimateDetailed(ctx context.Context, description string) (Estimate, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return Estimate{}, NewValidationError("description", "must not be empty")
	}

	text, err := s.gen.Generate(ctx, buildEstimatePrompt(desc))
	if err != nil {
		s.log.Error().Err(err).Msg("calorie estimation request failed")
		return Estimate{}, fmt.Errorf("%w: %w", ErrEstimatorUnavailable, err)
	}

	kcal, ok := parseEstimate(text)
	if !ok {
		s.log.Warn().Str("raw", text).Msg("estimator answer is not a number")
		return Estimate{Raw: text}, nil
	}
	return Estimate{Calories: kcal, Available: true, Raw: text}, nil
}

func buildEstimatePrompt(description string) string {
	return fmt.Sprintf(`Analise a seguinte descrição de uma refeição e retorne apenas o número total de calorias estimadas.
Sua resposta deve conter SOMENTE o número, sem texto adicional, sem "kcal" ou "calorias".
Exemplo: se a estimativa for 350, sua resposta deve ser exatamente "350".
Se a descrição não parecer uma comida ou for muito vaga, retorne "0".
Descrição da refeição: %q`, description)
}

// parseEstimate reads a leading integer the way the mobile client always
// has: surrounding whitespace is ignored and trailing text such as "kcal" is
// dropped. Negative numbers and answers without leading digits are rejected.
func parseEstimate(text string) (int, bool) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
