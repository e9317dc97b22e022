package services

import (
	"sort"
	"time"

	"github.com/dungscout96/prompt-experiment/internal/models"
	"github.com/dungscout96/prompt-experiment/internal/store"
)

// StatsService aggregates stored experiment records for comparison across
// models.
type StatsService struct {
	store *store.Store
}

// NewStatsService creates a stats service over the experiment store
func NewStatsService(st *store.Store) *StatsService {
	return &StatsService{store: st}
}

// GetStats computes aggregate statistics over every stored record. Runs
// whose validation failed (sentinel issue count) are excluded from the
// issue averages but still counted as runs.
func (s *StatsService) GetStats() (*models.StatsResponse, error) {
	records, err := s.store.Records()
	if err != nil {
		return nil, err
	}

	type acc struct {
		runs          int
		validRuns     int
		validated     int
		issueSum      float64
		scored        int
		scoreSum      float64
		inferenceSum  float64
		inferenceRuns int
	}

	byModel := make(map[string]*acc)
	response := &models.StatsResponse{
		TotalExperiments: len(records),
		LastUpdated:      time.Now(),
	}

	for _, record := range records {
		a := byModel[record.Model]
		if a == nil {
			a = &acc{}
			byModel[record.Model] = a
		}

		a.runs++
		a.inferenceSum += record.InferenceTime
		a.inferenceRuns++

		if record.ValidationIssues != nil && *record.ValidationIssues >= 0 {
			response.ValidatedRuns++
			a.validated++
			a.issueSum += float64(*record.ValidationIssues)
			if *record.ValidationIssues == 0 {
				a.validRuns++
			}
		}

		if record.QualityGrade != nil && record.QualityGrade.Score != nil {
			response.GradedRuns++
			a.scored++
			a.scoreSum += *record.QualityGrade.Score
		}
	}

	for model, a := range byModel {
		stats := models.ModelStats{
			Model:     model,
			Runs:      a.runs,
			ValidRuns: a.validRuns,
		}
		if a.validated > 0 {
			avg := a.issueSum / float64(a.validated)
			stats.AvgIssues = &avg
		}
		if a.scored > 0 {
			avg := a.scoreSum / float64(a.scored)
			stats.AvgQualityScore = &avg
		}
		if a.inferenceRuns > 0 {
			stats.AvgInferenceTime = a.inferenceSum / float64(a.inferenceRuns)
		}
		response.ModelStats = append(response.ModelStats, stats)
	}

	sort.Slice(response.ModelStats, func(i, j int) bool {
		return response.ModelStats[i].Runs > response.ModelStats[j].Runs
	})

	return response, nil
}
