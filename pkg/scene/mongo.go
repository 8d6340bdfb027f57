package scene

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/marker"
)

// MongoConfig locates the scene collections.
type MongoConfig struct {
	URI      string
	Database string

	// Regions holds one RegionDoc per region, keyed by name.
	Regions string

	// Markers holds one MarkerDoc per object plus a "region" field naming
	// its owner.
	Markers string

	// Timeout bounds the initial connect and ping. Zero means 10s.
	Timeout time.Duration
}

// Default collection names.
const (
	DefaultRegionsCollection = "regions"
	DefaultMarkersCollection = "markers"
)

// MongoSource is a marker.Source backed by MongoDB.
type MongoSource struct {
	client  *mongo.Client
	regions *mongo.Collection
	markers *mongo.Collection
}

// markerRecord is the stored form of a marker.
type markerRecord struct {
	MarkerDoc `bson:",inline"`
	Region    string `bson:"region"`
}

// NewMongoSource connects to MongoDB and verifies the connection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo: database name required")
	}
	if cfg.Regions == "" {
		cfg.Regions = DefaultRegionsCollection
	}
	if cfg.Markers == "" {
		cfg.Markers = DefaultMarkersCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "mongo ping")
	}

	db := client.Database(cfg.Database)
	return &MongoSource{
		client:  client,
		regions: db.Collection(cfg.Regions),
		markers: db.Collection(cfg.Markers),
	}, nil
}

// Regions lists stored regions sorted by name.
func (s *MongoSource) Regions(ctx context.Context) ([]marker.Region, error) {
	cur, err := s.regions.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list regions")
	}
	var docs []RegionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode regions")
	}

	out := make([]marker.Region, 0, len(docs))
	for _, d := range docs {
		if err := d.validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "stored region")
		}
		out = append(out, d.Region())
	}
	return out, nil
}

// Markers returns the markers stored for the named region.
func (s *MongoSource) Markers(ctx context.Context, region string) ([]marker.Marker, error) {
	var rd RegionDoc
	err := s.regions.FindOne(ctx, bson.M{"name": region}).Decode(&rd)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", region)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load region %q", region)
	}
	if err := rd.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "stored region")
	}

	cur, err := s.markers.Find(ctx, bson.M{"region": region})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list markers of %q", region)
	}
	var recs []markerRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode markers of %q", region)
	}

	r := rd.Region()
	out := make([]marker.Marker, 0, len(recs))
	for _, rec := range recs {
		if err := rec.validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "region %q", region)
		}
		out = append(out, rec.Marker(&r))
	}
	return out, nil
}

// Import replaces the stored scene with doc.
func (s *MongoSource) Import(ctx context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if _, err := s.regions.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "clear regions")
	}
	if _, err := s.markers.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "clear markers")
	}

	for _, rd := range doc.Regions {
		if _, err := s.regions.InsertOne(ctx, rd); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "insert region %q", rd.Name)
		}
		if len(rd.Markers) == 0 {
			continue
		}
		recs := make([]any, len(rd.Markers))
		for i, md := range rd.Markers {
			recs[i] = markerRecord{MarkerDoc: md, Region: rd.Name}
		}
		if _, err := s.markers.InsertMany(ctx, recs); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "insert markers of %q", rd.Name)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ marker.Source = (*MongoSource)(nil)
