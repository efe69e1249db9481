package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"gorm.io/gorm"
)

// stepsPerMinute drives the manual estimate used when motion permission was
// denied.
var stepsPerMinute = map[string]int{
	"light":    80,
	"moderate": 120,
	"intense":  160,
}

type StepService struct{ db *gorm.DB }

func NewStepService(db *gorm.DB) *StepService { return &StepService{db: db} }

// Session loads (or creates) the user's step session for the given date
// context. Moving to a different date resets the accumulator; the permission
// state persists across sessions.
func (s *StepService) Session(userID uint, date time.Time) (*models.StepSession, error) {
	if userID == 0 {
		return nil, utils.NewValidationError("userId is required")
	}
	day := dayStartLocal(date)

	var sess models.StepSession
	err := s.db.Where("user_id = ?", userID).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess = models.StepSession{
			UserID:          userID,
			PermissionState: models.PermissionPending,
			Date:            day,
		}
		if err := s.db.Create(&sess).Error; err != nil {
			return nil, err
		}
		return &sess, nil
	}
	if err != nil {
		return nil, err
	}

	if !sess.Date.Equal(day) {
		sess.Date = day
		sess.AccumulatedSteps = 0
		if err := s.db.Save(&sess).Error; err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

// RequestPermission applies the one-way permission transition: pending moves
// to granted or denied, and a failed or refused request always degrades to
// denied. Once denied the state is terminal until ResetPermission.
func (s *StepService) RequestPermission(userID uint, granted bool) (*models.StepSession, error) {
	sess, err := s.Session(userID, time.Now())
	if err != nil {
		return nil, err
	}

	switch sess.PermissionState {
	case models.PermissionDenied:
		// terminal; only the manual-entry path remains
	default:
		if granted {
			sess.PermissionState = models.PermissionGranted
		} else {
			sess.PermissionState = models.PermissionDenied
			sess.TrackingActive = false
		}
	}

	if err := s.db.Save(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

// ResetPermission is the explicit user action that clears the persisted
// denied flag and returns the machine to its initial state.
func (s *StepService) ResetPermission(userID uint) (*models.StepSession, error) {
	sess, err := s.Session(userID, time.Now())
	if err != nil {
		return nil, err
	}
	sess.PermissionState = models.PermissionPending
	sess.TrackingActive = false
	if err := s.db.Save(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

// EstimateSteps converts a manual duration+intensity entry into a step
// count: durationMinutes × stepsPerMinute[intensity]. Linear in duration.
func (s *StepService) EstimateSteps(durationMinutes int, intensity string) (int, error) {
	rate, ok := stepsPerMinute[intensity]
	if !ok {
		return 0, utils.NewValidationError("intensity must be light, moderate or intense")
	}
	if durationMinutes <= 0 {
		return 0, utils.NewValidationError("durationMinutes must be positive")
	}
	return durationMinutes * rate, nil
}

// RecordManualEstimate is the denied-state fallback: the estimate is added
// to the day's existing step total and the combined total is persisted as a
// steps record through the regular track path.
func (s *StepService) RecordManualEstimate(userID uint, date time.Time, durationMinutes int, intensity string) (*TrackResult, int, error) {
	sess, err := s.Session(userID, date)
	if err != nil {
		return nil, 0, err
	}
	if sess.PermissionState != models.PermissionDenied {
		return nil, 0, utils.NewValidationError("manual entry is only available when motion permission is denied")
	}

	added, err := s.EstimateSteps(durationMinutes, intensity)
	if err != nil {
		return nil, 0, err
	}

	existing, err := daySteps(s.db, userID, date)
	if err != nil {
		return nil, 0, err
	}

	res, err := TrackHabit(userID, models.HabitSteps, float64(existing+added), date)
	if err != nil {
		return nil, 0, err
	}
	return res, added, nil
}

// MotionSample is one accelerometer reading from the client stream.
type MotionSample struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	Z  float64   `json:"z"`
	At time.Time `json:"at"`
}

func (m MotionSample) magnitude() float64 {
	return math.Sqrt(m.X*m.X + m.Y*m.Y + m.Z*m.Z)
}

// stepDetector is a threshold-crossing detector on acceleration magnitude:
// a step fires when the signal rises through highThreshold after having
// dropped below lowThreshold, rate-limited by minInterval. Placeholder
// heuristic; the surrounding contract (continuous accumulation, running
// totals) is what matters.
type stepDetector struct {
	armed         bool
	lastStep      time.Time
	highThreshold float64
	lowThreshold  float64
	minInterval   time.Duration
}

func newStepDetector() *stepDetector {
	return &stepDetector{
		armed:         true,
		highThreshold: 11.8, // m/s², just above resting gravity
		lowThreshold:  10.2,
		minInterval:   300 * time.Millisecond,
	}
}

func (d *stepDetector) feed(magnitude float64, at time.Time) bool {
	if magnitude < d.lowThreshold {
		d.armed = true
		return false
	}
	if d.armed && magnitude > d.highThreshold &&
		(d.lastStep.IsZero() || at.Sub(d.lastStep) >= d.minInterval) {
		d.armed = false
		d.lastStep = at
		return true
	}
	return false
}

// StepTracker is the continuous sampling loop active while permission is
// granted. Samples arrive over a channel (fed by the websocket stream),
// every detected step bumps the accumulator, and the running total (not a
// delta) is persisted as the day's steps record.
type StepTracker struct {
	svc    *StepService
	userID uint
	date   time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	samples chan MotionSample
	done    chan struct{}

	mu    sync.Mutex
	total int
}

// StartTracking activates the sampling loop for a granted session. The
// returned tracker is cancellable through ctx or Stop; samples buffered at
// cancellation time are dropped, not processed.
func (s *StepService) StartTracking(ctx context.Context, userID uint, date time.Time) (*StepTracker, error) {
	sess, err := s.Session(userID, date)
	if err != nil {
		return nil, err
	}
	if sess.PermissionState != models.PermissionGranted {
		return nil, utils.NewValidationError("motion permission not granted")
	}

	sess.TrackingActive = true
	if err := s.db.Save(sess).Error; err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &StepTracker{
		svc:     s,
		userID:  userID,
		date:    dayStartLocal(date),
		ctx:     ctx,
		cancel:  cancel,
		samples: make(chan MotionSample, 64),
		done:    make(chan struct{}),
		total:   sess.AccumulatedSteps,
	}
	go t.run()
	return t, nil
}

func (t *StepTracker) run() {
	defer close(t.done)
	det := newStepDetector()

	for {
		// cancellation wins over any still-buffered samples
		select {
		case <-t.ctx.Done():
			t.finish()
			return
		default:
		}

		select {
		case <-t.ctx.Done():
			t.finish()
			return
		case s := <-t.samples:
			if det.feed(s.magnitude(), s.At) {
				t.mu.Lock()
				t.total++
				total := t.total
				t.mu.Unlock()
				t.svc.saveProgress(t.userID, t.date, total)
				if total == int(defaultDailyGoals[models.HabitSteps]) {
					EmitGoalCompleted(t.userID, models.HabitSteps)
				}
			}
		}
	}
}

// Offer hands a sample to the loop without blocking. Returns false once the
// tracker is cancelled or the buffer is full.
func (t *StepTracker) Offer(s MotionSample) bool {
	select {
	case <-t.ctx.Done():
		return false
	default:
	}
	select {
	case t.samples <- s:
		return true
	default:
		return false
	}
}

// Steps returns the running total for the tracked day.
func (t *StepTracker) Steps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Stop cancels the loop and waits for it to wind down.
func (t *StepTracker) Stop() {
	t.cancel()
	<-t.done
}

func (t *StepTracker) finish() {
	t.mu.Lock()
	total := t.total
	t.mu.Unlock()

	err := t.svc.db.Model(&models.StepSession{}).
		Where("user_id = ?", t.userID).
		Updates(map[string]interface{}{
			"tracking_active":   false,
			"accumulated_steps": total,
		}).Error
	if err != nil {
		utils.Log.Error().Err(err).Uint("user", t.userID).Msg("close step session")
	}
}

func (s *StepService) saveProgress(userID uint, date time.Time, total int) {
	if err := upsertStepTotal(s.db, userID, date, total); err != nil {
		utils.Log.Error().Err(err).Uint("user", userID).Msg("persist step total")
		return
	}
	err := s.db.Model(&models.StepSession{}).
		Where("user_id = ?", userID).
		Update("accumulated_steps", total).Error
	if err != nil {
		utils.Log.Error().Err(err).Uint("user", userID).Msg("persist step session")
	}
}
