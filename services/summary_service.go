package services

import (
	"fmt"
	"math"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"gorm.io/gorm"
)

type SummaryService struct{ db *gorm.DB }

func NewSummaryService(db *gorm.DB) *SummaryService { return &SummaryService{db: db} }

// DailySummary is derived on every read; it has no stored lifecycle.
type DailySummary struct {
	Steps    float64 `json:"steps"`
	Water    float64 `json:"water"`
	Sleep    float64 `json:"sleep"`
	Mood     string  `json:"mood"`
	Food     int     `json:"food"`
	Exercise float64 `json:"exercise"`
}

// WeeklyRollup aggregates one Monday-anchored week of records.
type WeeklyRollup struct {
	WeekStart              string  `json:"week_start"`
	TotalSteps             float64 `json:"total_steps"`
	AvgWater               float64 `json:"avg_water"`
	AvgSleep               float64 `json:"avg_sleep"`
	WorkoutsCount          int     `json:"workouts_count"`
	CaloriesBurnedEstimate float64 `json:"calories_burned_estimate"`
}

// Daily computes the summary for one user/date: the latest value per type,
// defaults when absent (numeric → 0, mood → "neutral"), and food as the
// count of food rows logged that day.
func (s *SummaryService) Daily(userID uint, date time.Time) (*DailySummary, error) {
	var records []models.HabitRecord
	if err := s.db.
		Where("user_id = ? AND date = ?", userID, dayStartLocal(date)).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	out := &DailySummary{Mood: "neutral"}
	for _, r := range records {
		switch r.Type {
		case models.HabitSteps:
			out.Steps = r.Value
		case models.HabitWater:
			out.Water = r.Value
		case models.HabitSleep:
			out.Sleep = r.Value
		case models.HabitMood:
			if r.TextValue != "" {
				out.Mood = r.TextValue
			}
		case models.HabitFood:
			out.Food++
		case models.HabitExercise:
			out.Exercise = r.Value
		}
	}
	return out, nil
}

// Weekly rolls seven days up from weekStart. Averages run over days that
// actually have data; an empty week yields zeros rather than NaN.
func (s *SummaryService) Weekly(userID uint, weekStart time.Time) (*WeeklyRollup, error) {
	from := dayStartLocal(weekStart)
	to := from.AddDate(0, 0, 6)

	var records []models.HabitRecord
	if err := s.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Find(&records).Error; err != nil {
		return nil, err
	}

	out := &WeeklyRollup{WeekStart: from.Format("2006-01-02")}

	var (
		waterSum, sleepSum, exerciseMinutes float64
		waterDays, sleepDays                int
		workoutDays                         = map[string]struct{}{}
	)
	for _, r := range records {
		day := r.Date.Format("2006-01-02")
		switch r.Type {
		case models.HabitSteps:
			out.TotalSteps += r.Value
		case models.HabitWater:
			waterSum += r.Value
			waterDays++
		case models.HabitSleep:
			sleepSum += r.Value
			sleepDays++
		case models.HabitExercise:
			exerciseMinutes += r.Value
			workoutDays[day] = struct{}{}
		}
	}

	if waterDays > 0 {
		out.AvgWater = round2(waterSum / float64(waterDays))
	}
	if sleepDays > 0 {
		out.AvgSleep = round2(sleepSum / float64(sleepDays))
	}
	out.WorkoutsCount = len(workoutDays)

	// Rough energy model: 0.04 kcal per step plus 5 kcal per exercise minute.
	out.CaloriesBurnedEstimate = round2(out.TotalSteps*0.04 + exerciseMinutes*5.0)

	return out, nil
}

// GoalProgress returns (current/goal)*100 clamped to 100 for display.
// Current may exceed goal internally; the clamp only applies here.
func GoalProgress(current, goal float64) (float64, error) {
	if goal <= 0 {
		return 0, &utils.InvalidGoalError{Goal: goal}
	}
	return math.Min(current/goal*100, 100), nil
}

// Insights maps a rollup to static encouragement strings. Cosmetic: any
// stable mapping from thresholds to messages serves.
func (s *SummaryService) Insights(r *WeeklyRollup) []string {
	var msgs []string

	switch {
	case r.TotalSteps >= 70000:
		msgs = append(msgs, "Outstanding week – you averaged 10k+ steps a day!")
	case r.TotalSteps >= 35000:
		msgs = append(msgs, "Solid step count. Try to raise it by 10% next week.")
	default:
		msgs = append(msgs, "Short walks add up – aim for a little more movement each day.")
	}

	if r.AvgWater >= 2.0 {
		msgs = append(msgs, "Great hydration habits, keep drinking water regularly.")
	} else {
		msgs = append(msgs, "Keep a bottle nearby and log your water as you go.")
	}

	if r.AvgSleep >= 7.0 {
		msgs = append(msgs, "Your sleep routine is on track.")
	} else {
		msgs = append(msgs, "A consistent bedtime will help you reach 7–9 hours.")
	}

	if r.WorkoutsCount >= 3 {
		msgs = append(msgs, fmt.Sprintf("%d workouts this week – nice consistency!", r.WorkoutsCount))
	}

	return msgs
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// StartOfWeek anchors t to its Monday, matching the weekly report window.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return dayStartLocal(t).AddDate(0, 0, -(wd - 1))
}
