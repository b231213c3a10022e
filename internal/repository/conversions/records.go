package conversions

import (
	"context"
	"fmt"
	"time"

	mg "versement_export/internal/config/connections/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ConversionRecordsCollection = "conversion_records"

// Record tracks the lifecycle of one conversion request:
// received → normalizing → validating → (failed|building) → packaging →
// (failed|ready). Terminal failures carry the aggregated validation report.
type Record struct {
	ID               string     `bson:"_id" json:"id"`
	Status           string     `bson:"status" json:"status"`
	Errors           *string    `bson:"errors,omitempty" json:"errors,omitempty"`
	OriginalFilename *string    `bson:"original_filename,omitempty" json:"original_filename,omitempty"`
	SourcePath       *string    `bson:"source_path,omitempty" json:"source_path,omitempty"`
	SourceBucket     *string    `bson:"source_bucket,omitempty" json:"source_bucket,omitempty"`
	SourceKey        *string    `bson:"source_key,omitempty" json:"source_key,omitempty"`
	SourceSizeBytes  *int64     `bson:"source_size_bytes,omitempty" json:"source_size_bytes,omitempty"`
	ArtifactBucket   *string    `bson:"artifact_bucket,omitempty" json:"artifact_bucket,omitempty"`
	ArtifactKey      *string    `bson:"artifact_key,omitempty" json:"artifact_key,omitempty"`
	ArtifactFilename *string    `bson:"artifact_filename,omitempty" json:"artifact_filename,omitempty"`
	RecordCount      int        `bson:"record_count" json:"record_count"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

func Insert(ctx context.Context, m *mg.Mongo, rec Record) error {
	if m == nil || m.Client == nil || m.Database == nil {
		return mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = "received"
	}

	_, err := m.Database.Collection(ConversionRecordsCollection).
		InsertOne(ctx, rec, options.InsertOne())
	return err
}

// SetState updates the lifecycle status; message is stored only when
// non-empty (terminal failures).
func SetState(ctx context.Context, m *mg.Mongo, id, status, message string) error {
	if m == nil || m.Database == nil {
		return mongo.ErrClientDisconnected
	}

	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if message != "" {
		set["errors"] = message
	}

	_, err := m.Database.Collection(ConversionRecordsCollection).
		UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetArtifact records where the packaged archive landed.
func SetArtifact(ctx context.Context, m *mg.Mongo, id, bucket, key, filename string, records int) error {
	if m == nil || m.Database == nil {
		return mongo.ErrClientDisconnected
	}

	_, err := m.Database.Collection(ConversionRecordsCollection).
		UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"artifact_bucket":   bucket,
			"artifact_key":      key,
			"artifact_filename": filename,
			"record_count":      records,
			"updated_at":        time.Now().UTC(),
		}})
	return err
}

func FindByID(ctx context.Context, m *mg.Mongo, id string) (Record, error) {
	var out Record
	if m == nil || m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}

	err := m.Database.Collection(ConversionRecordsCollection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		return out, fmt.Errorf("conversion record not found: %w", err)
	}
	return out, nil
}

func List(ctx context.Context, m *mg.Mongo, filter bson.M, limit, skip int64) ([]Record, int64, error) {
	if m == nil || m.Database == nil {
		return nil, 0, mongo.ErrClientDisconnected
	}
	coll := m.Database.Collection(ConversionRecordsCollection)
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	recs := make([]Record, 0)
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(recs))
	}
	return recs, total, nil
}
