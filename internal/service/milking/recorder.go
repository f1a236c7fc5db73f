package milking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
	"github.com/paladisupraja/dairy-portal/internal/repository/mongodb"
)

// RecordRequest carries one session write. Edit distinguishes the explicit
// "correct existing value" path from the default "fill empty slot" path.
type RecordRequest struct {
	TagNo         int64
	EmployeeID    string
	Date          time.Time
	Session       models.Session
	Quantity      float64
	ColostrumMilk bool
	Edit          bool
}

// Recorder is the single choke point for observation writes. Every write,
// add or edit, passes through here so the one-write-per-session-per-day rule
// cannot be bypassed by caller discipline.
type Recorder struct {
	store  mongodb.Repository
	logger *zap.Logger
}

// NewRecorder wires a new recorder instance.
func NewRecorder(store mongodb.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record validates and persists one session quantity.
//
// Adds are conditional at the storage layer: the write succeeds only while
// the targeted slot is still empty, so a duplicate add fails with
// DuplicateSessionError even against a concurrent writer. Edits overwrite the
// slot but require the observation to already exist.
func (r *Recorder) Record(ctx context.Context, req RecordRequest) (*models.MilkingObservation, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	obs, err := r.store.RecordSession(ctx, mongodb.SessionWrite{
		TagNo:         req.TagNo,
		Date:          models.Day(req.Date),
		Session:       req.Session,
		Quantity:      req.Quantity,
		EmployeeID:    req.EmployeeID,
		ColostrumMilk: req.ColostrumMilk,
		Overwrite:     req.Edit,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("observation recorded",
		zap.Int64("tag_no", req.TagNo),
		zap.String("date", models.Day(req.Date).Format(models.DateLayout)),
		zap.String("session", string(req.Session)),
		zap.Float64("quantity", req.Quantity),
		zap.Bool("edit", req.Edit))

	return obs, nil
}

// Lookup fetches the stored observation for one (animal, date) key. The edit
// screen uses it to pre-fill the current quantities before an overwrite.
func (r *Recorder) Lookup(ctx context.Context, tagNo int64, date time.Time) (*models.MilkingObservation, error) {
	if tagNo <= 0 {
		return nil, &models.ValidationError{Field: "animalTagNo", Reason: "must be a positive tag number"}
	}
	if date.IsZero() {
		return nil, &models.ValidationError{Field: "date", Reason: "must be a valid calendar date"}
	}
	return r.store.FindObservation(ctx, tagNo, models.Day(date))
}

func validate(req RecordRequest) error {
	if req.TagNo <= 0 {
		return &models.ValidationError{Field: "animalTagNo", Reason: "must be a positive tag number"}
	}
	if req.EmployeeID == "" {
		return &models.ValidationError{Field: "employeeId", Reason: "must not be empty"}
	}
	if req.Date.IsZero() {
		return &models.ValidationError{Field: "date", Reason: "must be a valid calendar date"}
	}
	if !req.Session.Valid() {
		return &models.ValidationError{Field: "session", Reason: `must be "Am" or "Pm"`}
	}
	if req.Quantity < 0 {
		return &models.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}
