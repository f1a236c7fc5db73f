package milking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
	"github.com/paladisupraja/dairy-portal/internal/repository/mongodb"
)

// fakeStore is an in-memory observation store with the same conditional
// write semantics as the MongoDB repository.
type fakeStore struct {
	data map[string]*models.MilkingObservation
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]*models.MilkingObservation{}}
}

func storeKey(tagNo int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", tagNo, models.Day(date).Format(models.DateLayout))
}

func (f *fakeStore) FindObservation(_ context.Context, tagNo int64, date time.Time) (*models.MilkingObservation, error) {
	obs, ok := f.data[storeKey(tagNo, date)]
	if !ok {
		return nil, models.ErrObservationNotFound
	}
	clone := *obs
	return &clone, nil
}

func (f *fakeStore) ListObservations(_ context.Context, tagNos []int64, start, end time.Time) ([]models.MilkingObservation, error) {
	var results []models.MilkingObservation
	for _, tag := range tagNos {
		for d := models.Day(start); !d.After(models.Day(end)); d = d.AddDate(0, 0, 1) {
			if obs, ok := f.data[storeKey(tag, d)]; ok {
				results = append(results, *obs)
			}
		}
	}
	return results, nil
}

func (f *fakeStore) RecordSession(_ context.Context, write mongodb.SessionWrite) (*models.MilkingObservation, error) {
	key := storeKey(write.TagNo, write.Date)
	obs, ok := f.data[key]

	if write.Overwrite {
		if !ok || obs.SessionQuantity(write.Session) == nil {
			return nil, models.ErrObservationNotFound
		}
	} else {
		if ok && obs.SessionQuantity(write.Session) != nil {
			return nil, &models.DuplicateSessionError{TagNo: write.TagNo, Date: models.Day(write.Date), Session: write.Session}
		}
		if !ok {
			obs = &models.MilkingObservation{TagNo: write.TagNo, Date: models.Day(write.Date)}
			f.data[key] = obs
		}
	}

	quantity := write.Quantity
	if write.Session == models.SessionAm {
		obs.AmQuantity = &quantity
	} else {
		obs.PmQuantity = &quantity
	}
	obs.EmployeeID = write.EmployeeID
	obs.ColostrumMilk = write.ColostrumMilk
	obs.UpdatedAt = time.Now().UTC()

	clone := *obs
	return &clone, nil
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	recorder := NewRecorder(newFakeStore(), nil)
	base := RecordRequest{
		TagNo:      601,
		EmployeeID: "emp-1",
		Date:       day("2026-01-15"),
		Session:    models.SessionAm,
		Quantity:   8,
	}

	cases := []struct {
		name   string
		mutate func(*RecordRequest)
	}{
		{"zero tag number", func(r *RecordRequest) { r.TagNo = 0 }},
		{"missing employee", func(r *RecordRequest) { r.EmployeeID = "" }},
		{"zero date", func(r *RecordRequest) { r.Date = time.Time{} }},
		{"lowercase session token", func(r *RecordRequest) { r.Session = "am" }},
		{"unknown session token", func(r *RecordRequest) { r.Session = "Noon" }},
		{"negative quantity", func(r *RecordRequest) { r.Quantity = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)

			_, err := recorder.Record(context.Background(), req)
			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestRecordAccumulatesBothSessions(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)

	obs, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionPm, Quantity: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 14.0, obs.Total())
	require.NotNil(t, obs.AmQuantity)
	require.NotNil(t, obs.PmQuantity)
	assert.Equal(t, 8.0, *obs.AmQuantity)
	assert.Equal(t, 6.0, *obs.PmQuantity)
}

func TestRecordRejectsDuplicateSession(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)

	_, err = recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-2", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 5,
	})
	var duplicateErr *models.DuplicateSessionError
	require.ErrorAs(t, err, &duplicateErr)
	assert.Equal(t, int64(601), duplicateErr.TagNo)
	assert.Equal(t, models.SessionAm, duplicateErr.Session)

	// The stored quantity is untouched by the rejected write.
	obs, err := store.FindObservation(ctx, 601, day("2026-01-15"))
	require.NoError(t, err)
	require.NotNil(t, obs.AmQuantity)
	assert.Equal(t, 8.0, *obs.AmQuantity)
	assert.Equal(t, "emp-1", obs.EmployeeID)
}

func TestRecordEditOverwritesExistingSlot(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)

	obs, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-2", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 7.5, Edit: true,
	})
	require.NoError(t, err)

	require.NotNil(t, obs.AmQuantity)
	assert.Equal(t, 7.5, *obs.AmQuantity)
	assert.Equal(t, "emp-2", obs.EmployeeID)
}

func TestRecordEditRequiresExistingObservation(t *testing.T) {
	recorder := NewRecorder(newFakeStore(), nil)

	_, err := recorder.Record(context.Background(), RecordRequest{
		TagNo: 602, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionPm, Quantity: 4, Edit: true,
	})
	require.ErrorIs(t, err, models.ErrObservationNotFound)
}

func TestRecordEditRequiresRecordedSessionSlot(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)

	// The observation exists, but the evening slot was never recorded; an
	// edit targets a value, not an empty slot.
	_, err = recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionPm, Quantity: 4, Edit: true,
	})
	require.ErrorIs(t, err, models.ErrObservationNotFound)

	obs, err := store.FindObservation(ctx, 601, day("2026-01-15"))
	require.NoError(t, err)
	assert.Nil(t, obs.PmQuantity)
}

func TestRecordFirstWritesOfDifferentSessionsNeverConflict(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	// Regardless of which first write lands first, a first write for the
	// other session must not be reported as a duplicate.
	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionPm, Quantity: 6,
	})
	require.NoError(t, err)

	obs, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-2", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 14.0, obs.Total())
}

func TestLookupReturnsStoredObservation(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	_, err := recorder.Record(ctx, RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2026-01-15"),
		Session: models.SessionAm, Quantity: 8,
	})
	require.NoError(t, err)

	obs, err := recorder.Lookup(ctx, 601, day("2026-01-15"))
	require.NoError(t, err)
	require.NotNil(t, obs.AmQuantity)
	assert.Equal(t, 8.0, *obs.AmQuantity)
	assert.Equal(t, "emp-1", obs.EmployeeID)
}

func TestLookupErrors(t *testing.T) {
	recorder := NewRecorder(newFakeStore(), nil)
	ctx := context.Background()

	_, err := recorder.Lookup(ctx, 601, day("2026-01-15"))
	require.ErrorIs(t, err, models.ErrObservationNotFound)

	var validationErr *models.ValidationError
	_, err = recorder.Lookup(ctx, 0, day("2026-01-15"))
	require.ErrorAs(t, err, &validationErr)

	_, err = recorder.Lookup(ctx, 601, time.Time{})
	require.ErrorAs(t, err, &validationErr)
}

func TestRecordAllowsHistoricalDates(t *testing.T) {
	recorder := NewRecorder(newFakeStore(), nil)

	obs, err := recorder.Record(context.Background(), RecordRequest{
		TagNo: 601, EmployeeID: "emp-1", Date: day("2020-06-01"),
		Session: models.SessionAm, Quantity: 3.25, ColostrumMilk: true,
	})
	require.NoError(t, err)
	assert.True(t, obs.ColostrumMilk)
	assert.Equal(t, 3.25, obs.Total())
}
