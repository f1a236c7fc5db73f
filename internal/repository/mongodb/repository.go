package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
)

// SessionWrite is one write against an observation's session slot.
type SessionWrite struct {
	TagNo         int64
	Date          time.Time
	Session       models.Session
	Quantity      float64
	EmployeeID    string
	ColostrumMilk bool
	// Overwrite marks the explicit edit path. A plain add is conditional on
	// the session slot being empty; an edit replaces whatever is stored.
	Overwrite bool
}

// Repository defines the observation store operations.
type Repository interface {
	FindObservation(ctx context.Context, tagNo int64, date time.Time) (*models.MilkingObservation, error)
	ListObservations(ctx context.Context, tagNos []int64, start, end time.Time) ([]models.MilkingObservation, error)
	RecordSession(ctx context.Context, write SessionWrite) (*models.MilkingObservation, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository and ensures the
// unique (tag_no, date) index the conditional upsert relies on.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "milking_observations",
	}

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "tag_no", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection().Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("failed to ensure observation index: %w", err)
	}

	return r, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// FindObservation loads the observation for one (animal, date) key.
func (r *MongoDBRepository) FindObservation(ctx context.Context, tagNo int64, date time.Time) (*models.MilkingObservation, error) {
	filter := bson.M{"tag_no": tagNo, "date": models.Day(date)}

	var obs models.MilkingObservation
	err := r.collection().FindOne(ctx, filter).Decode(&obs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrObservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find observation: %w", err)
	}
	return &obs, nil
}

// ListObservations returns every observation for the given animals within the
// inclusive date range. Sparse by nature; zero-filling is the caller's job.
func (r *MongoDBRepository) ListObservations(ctx context.Context, tagNos []int64, start, end time.Time) ([]models.MilkingObservation, error) {
	if len(tagNos) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"tag_no": bson.M{"$in": tagNos},
		"date":   bson.M{"$gte": models.Day(start), "$lte": models.Day(end)},
	}

	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	var results []models.MilkingObservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	return results, nil
}

// RecordSession writes one session quantity. The plain add path is a
// compare-and-set: the update only matches while the slot is still empty, and
// the otherwise-attempted insert trips the unique index when a concurrent or
// earlier write got there first. The edit path overwrites the slot but
// requires that session to have been recorded before.
func (r *MongoDBRepository) RecordSession(ctx context.Context, write SessionWrite) (*models.MilkingObservation, error) {
	day := models.Day(write.Date)
	field := sessionField(write.Session)

	update := bson.M{
		"$set": bson.M{
			field:            write.Quantity,
			"employee_id":    write.EmployeeID,
			"colostrum_milk": write.ColostrumMilk,
			"updated_at":     time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"tag_no": write.TagNo, "date": day},
	}

	filter := bson.M{"tag_no": write.TagNo, "date": day}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if write.Overwrite {
		// An edit corrects an existing value; the targeted slot must hold one.
		filter[field] = bson.M{"$ne": nil}
	} else {
		// Slot must still be empty; missing and null both match.
		filter[field] = nil
		opts = opts.SetUpsert(true)
	}

	var obs models.MilkingObservation
	err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&obs)
	if mongo.IsDuplicateKeyError(err) {
		// The document was inserted between the filter miss and our upsert.
		// That loser may still have an empty slot, e.g. two first writes for
		// different sessions on the same (tag, date); retry against the now
		// existing document with the same slot-empty condition. Only a no
		// match there means the slot is genuinely taken.
		retryOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.collection().FindOneAndUpdate(ctx, filter, update, retryOpts).Decode(&obs)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &models.DuplicateSessionError{TagNo: write.TagNo, Date: day, Session: write.Session}
		}
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Only the edit path can get here; adds either upsert or trip the
		// duplicate-key handling above.
		return nil, models.ErrObservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert observation: %w", err)
	}
	return &obs, nil
}

func sessionField(s models.Session) string {
	if s == models.SessionAm {
		return "am_quantity"
	}
	return "pm_quantity"
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
