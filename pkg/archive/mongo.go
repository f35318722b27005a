package archive

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/structlab/structlab/pkg/errors"
)

// MongoConfig configures a MongoDB-backed archive store.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database defaults to "structlab".
	Database string

	// Collection defaults to "archives".
	Collection string
}

// MongoStore persists archive entries in a MongoDB collection, keyed by
// name. Use for deployments where archives must outlive the process.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "structlab"
	}
	if cfg.Collection == "" {
		cfg.Collection = "archives"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the entry by name.
func (m *MongoStore) Save(ctx context.Context, e Entry) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": e.Name}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save archive %q", e.Name)
	}
	return nil
}

// Load retrieves an entry by name.
func (m *MongoStore) Load(ctx context.Context, name string) (Entry, error) {
	var e Entry
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return Entry{}, errors.New(errors.ErrCodeArchiveNotFound, "archive %q not found", name)
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "load archive %q", name)
	}
	return e, nil
}

// List returns the stored names in lexical order.
func (m *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := m.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list archives")
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode archive name")
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list archives")
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an entry by name.
func (m *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete archive %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeArchiveNotFound, "archive %q not found", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
