package services

import (
	"context"
	"math"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
)

type WeightService struct {
	weights store.WeightStore
}

func NewWeightService(weights store.WeightStore) *WeightService {
	return &WeightService{weights: weights}
}

// WeightTrend summarizes the history; Meaningful needs at least two samples.
type WeightTrend struct {
	Samples    []*models.WeightSample `json:"samples"`
	First      *float64               `json:"first,omitempty"`
	Last       *float64               `json:"last,omitempty"`
	Change     *float64               `json:"change,omitempty"`
	Meaningful bool                   `json:"meaningful"`
}

// LogWeight records today's weight with a server timestamp.
func (s *WeightService) LogWeight(ctx context.Context, userID uint, weight float64) (*models.WeightSample, error) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, NewValidationError("weight", "must be a positive number")
	}
	return s.weights.AddWeightSample(ctx, userID, weight)
}

// History returns every sample oldest first.
func (s *WeightService) History(ctx context.Context, userID uint) ([]*models.WeightSample, error) {
	return s.weights.ListWeightSamples(ctx, userID)
}

func (s *WeightService) Trend(ctx context.Context, userID uint) (*WeightTrend, error) {
	samples, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildWeightTrend(samples), nil
}

func buildWeightTrend(samples []*models.WeightSample) *WeightTrend {
	t := &WeightTrend{Samples: samples}
	if t.Samples == nil {
		t.Samples = []*models.WeightSample{}
	}
	if len(samples) == 0 {
		return t
	}
	first, last := samples[0].Weight, samples[len(samples)-1].Weight
	t.First, t.Last = &first, &last
	if len(samples) >= 2 {
		change := math.Round((last-first)*100) / 100
		t.Change = &change
		t.Meaningful = true
	}
	return t
}
