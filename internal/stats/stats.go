// ABOUTME: Statistics aggregator over historical workout sessions.
// ABOUTME: Computes personal records, volume, frequency, and progression series per exercise.
package stats

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// ExerciseStats aggregates a user's history for one exercise. A never-used
// exercise yields the zero value, which is the expected steady state for
// new users, not an error.
type ExerciseStats struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	RecordWeight float64   `json:"record_weight"`
	RecordReps   int       `json:"record_reps"`
	RecordDate   time.Time `json:"record_date,omitzero"`
	TotalSets    int       `json:"total_sets"`
	TotalReps    int       `json:"total_reps"`
	TotalVolume  float64   `json:"total_volume"`
	TimesUsed    int       `json:"times_used"`
	LastUsed     time.Time `json:"last_used,omitzero"`
	AvgWeight    float64   `json:"avg_weight"`
	AvgReps      float64   `json:"avg_reps"`
}

// ProgressionPoint is one charting sample: the best weight and total volume
// logged for an exercise within a single session.
type ProgressionPoint struct {
	Date      time.Time `json:"date"`
	MaxWeight float64   `json:"max_weight"`
	Volume    float64   `json:"volume"`
}

// counts reports whether a set contributes to statistics: completed with
// both actual values recorded. Partially recorded sets are excluded
// entirely, not zero-filled.
func counts(set *models.SessionSet) bool {
	return set.IsCompleted && set.ActualReps != nil && set.ActualWeight != nil
}

// ForExercise walks sessions in the caller-provided order (history endpoints
// return newest first) and accumulates totals for the target exercise. The
// personal record uses a strict greater-than comparison, so the first
// occurrence of the maximum weight in iteration order wins ties.
func ForExercise(history []*models.WorkoutSession, exerciseID uuid.UUID) ExerciseStats {
	st := ExerciseStats{ExerciseID: exerciseID}
	totalWeight := 0.0

	for _, session := range history {
		used := false
		for i := range session.Exercises {
			ex := &session.Exercises[i]
			if ex.ExerciseID != exerciseID {
				continue
			}
			for j := range ex.Sets {
				set := &ex.Sets[j]
				if !counts(set) {
					continue
				}
				used = true
				st.TotalSets++
				st.TotalReps += *set.ActualReps
				st.TotalVolume += *set.ActualWeight * float64(*set.ActualReps)
				totalWeight += *set.ActualWeight
				if *set.ActualWeight > st.RecordWeight {
					st.RecordWeight = *set.ActualWeight
					st.RecordReps = *set.ActualReps
					st.RecordDate = session.ClockIn
				}
			}
		}
		if used {
			st.TimesUsed++
			if session.ClockIn.After(st.LastUsed) {
				st.LastUsed = session.ClockIn
			}
		}
	}

	if st.TotalSets > 0 {
		st.AvgWeight = round1(totalWeight / float64(st.TotalSets))
		st.AvgReps = round1(float64(st.TotalReps) / float64(st.TotalSets))
	}

	return st
}

// Progression builds one point per session that contains the exercise and
// has at least one counting set with positive weight. Sessions contributing
// no qualifying set are dropped from the series rather than rendered as zero.
func Progression(history []*models.WorkoutSession, exerciseID uuid.UUID) []ProgressionPoint {
	var series []ProgressionPoint
	for _, session := range history {
		var maxWeight, volume float64
		qualified := false
		for i := range session.Exercises {
			ex := &session.Exercises[i]
			if ex.ExerciseID != exerciseID {
				continue
			}
			for j := range ex.Sets {
				set := &ex.Sets[j]
				if !counts(set) || *set.ActualWeight <= 0 {
					continue
				}
				qualified = true
				volume += *set.ActualWeight * float64(*set.ActualReps)
				if *set.ActualWeight > maxWeight {
					maxWeight = *set.ActualWeight
				}
			}
		}
		if qualified {
			series = append(series, ProgressionPoint{
				Date:      session.ClockIn,
				MaxWeight: maxWeight,
				Volume:    volume,
			})
		}
	}
	return series
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
