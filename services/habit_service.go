package services

import (
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"gorm.io/gorm"
)

func dayStartLocal(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

// TrackResult is what a successful track returns: the live record plus the
// user's coin balance after the reward credit.
type TrackResult struct {
	Record *models.HabitRecord
	Coins  int
}

// TrackHabit validates and stores one habit observation, crediting the fixed
// reward inside the same transaction so the record/reward pair is atomic.
//
// Every type except "food" is keyed by (user, date, type) and overwrites the
// previous value for the day; food appends one row per logged meal and is
// summarized by count.
func TrackHabit(userID uint, habitType string, value interface{}, date time.Time) (*TrackResult, error) {
	if userID == 0 {
		return nil, utils.NewValidationError("userId is required")
	}
	if habitType == "" {
		return nil, utils.NewValidationError("type is required")
	}
	if !models.ValidHabitType(habitType) {
		return nil, utils.NewValidationError("unknown habit type %q", habitType)
	}
	if value == nil {
		return nil, utils.NewValidationError("value is required")
	}
	if date.IsZero() {
		return nil, utils.NewValidationError("date is required")
	}

	rec := models.HabitRecord{
		UserID:     userID,
		Type:       habitType,
		Date:       dayStartLocal(date),
		RecordedAt: time.Now(),
	}

	prev, err := dayValue(config.DB, userID, habitType, rec.Date)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case float64:
		rec.Value = v
	case int:
		rec.Value = float64(v)
	case string:
		if habitType != models.HabitMood && habitType != models.HabitFood {
			return nil, utils.NewValidationError("value for %q must be numeric", habitType)
		}
		rec.TextValue = v
	default:
		return nil, utils.NewValidationError("unsupported value type")
	}

	var coins int
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if habitType == models.HabitFood {
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else {
			// map assign: struct updates skip zero values, and 0 is a
			// legitimate overwrite
			if err := tx.
				Where("user_id = ? AND date = ? AND type = ?", rec.UserID, rec.Date, rec.Type).
				Assign(map[string]interface{}{
					"value":       rec.Value,
					"text_value":  rec.TextValue,
					"recorded_at": rec.RecordedAt,
				}).
				FirstOrCreate(&rec).Error; err != nil {
				return err
			}
		}

		balance, err := Credit(tx, userID, HabitTrackReward, "habit_track:"+habitType)
		if err != nil {
			return err
		}
		coins = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	NotifyCoins(userID, coins)
	if goal, ok := defaultDailyGoals[habitType]; ok && prev < goal && rec.Value >= goal {
		EmitGoalCompleted(userID, habitType)
	}

	utils.Log.Debug().
		Uint("user", userID).
		Str("type", habitType).
		Time("date", rec.Date).
		Msg("habit tracked")

	return &TrackResult{Record: &rec, Coins: coins}, nil
}

// defaultDailyGoals drives the goal-completed alert for numeric habit types.
var defaultDailyGoals = map[string]float64{
	models.HabitSteps:    10000,
	models.HabitWater:    2.0,
	models.HabitSleep:    8,
	models.HabitExercise: 30,
}

// dayValue reads the current value for a (user, type, day) triple, zero when
// no record exists yet.
func dayValue(db *gorm.DB, userID uint, habitType string, day time.Time) (float64, error) {
	var rec models.HabitRecord
	err := db.
		Where("user_id = ? AND date = ? AND type = ?", userID, day, habitType).
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return rec.Value, nil
}

// QueryHabits returns a user's records, optionally filtered to an inclusive
// date range; either bound may be nil for a one-sided range, pass the same
// day twice for an exact-date query and nil for everything. Insertion order
// is retained.
func QueryHabits(userID uint, from, to *time.Time) ([]models.HabitRecord, error) {
	if userID == 0 {
		return nil, utils.NewValidationError("userId is required")
	}

	q := config.DB.Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", dayStartLocal(*from))
	}
	if to != nil {
		q = q.Where("date <= ?", dayStartLocal(*to))
	}

	var records []models.HabitRecord
	if err := q.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// upsertStepTotal writes the running step total for a day without going
// through the reward path. Used by the motion tracker, which is an internal
// writer rather than a client track call.
func upsertStepTotal(db *gorm.DB, userID uint, date time.Time, total int) error {
	day := dayStartLocal(date)
	rec := models.HabitRecord{
		UserID:     userID,
		Type:       models.HabitSteps,
		Date:       day,
		Value:      float64(total),
		RecordedAt: time.Now(),
	}
	return db.
		Where("user_id = ? AND date = ? AND type = ?", userID, day, models.HabitSteps).
		Assign(map[string]interface{}{"value": rec.Value, "recorded_at": rec.RecordedAt}).
		FirstOrCreate(&rec).Error
}

// daySteps reads the current step total for a day, zero when absent.
func daySteps(db *gorm.DB, userID uint, date time.Time) (int, error) {
	v, err := dayValue(db, userID, models.HabitSteps, dayStartLocal(date))
	return int(v), err
}
