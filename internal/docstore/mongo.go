package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type NewMongoStoreParams struct {
	URI            string
	DBName         string
	TracingEnabled bool
	ConnectTimeout time.Duration
}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB; the connection is established once and
// shared by every collection handed out by the store.
func NewMongoStore(ctx context.Context, params NewMongoStoreParams) (*MongoStore, error) {
	opts := options.Client().ApplyURI(params.URI)
	if params.ConnectTimeout > 0 {
		opts.SetConnectTimeout(params.ConnectTimeout)
		opts.SetServerSelectionTimeout(params.ConnectTimeout)
	}
	if params.TracingEnabled {
		opts.SetMonitor(otelmongo.NewMonitor())
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(params.DBName),
	}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func toBSON(filter Filter) (bson.M, error) {
	if _, _, err := filter.split(); err != nil {
		return nil, err
	}
	m := make(bson.M, len(filter))
	for k, v := range filter {
		m[k] = v
	}
	return m, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	f, err := toBSON(filter)
	if err != nil {
		return err
	}

	err = c.coll.FindOne(ctx, f).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, limit int64, out any) error {
	f, err := toBSON(filter)
	if err != nil {
		return err
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := c.coll.Find(ctx, f, opts)
	if err != nil {
		return err
	}
	// All closes the cursor
	return cursor.All(ctx, out)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Document) error {
	if doc.DocumentID().IsZero() {
		return fmt.Errorf("%w: document without id", ErrInvalidID)
	}
	_, err := c.coll.InsertOne(ctx, doc)
	return mapMongoErr(err)
}

func (c *mongoCollection) InsertMany(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	toInsert := make([]any, 0, len(docs))
	for _, doc := range docs {
		if doc.DocumentID().IsZero() {
			return fmt.Errorf("%w: document without id", ErrInvalidID)
		}
		toInsert = append(toInsert, doc)
	}
	_, err := c.coll.InsertMany(ctx, toInsert)
	return mapMongoErr(err)
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set map[string]any) (bool, error) {
	if err := checkSet(set); err != nil {
		return false, err
	}
	f, err := toBSON(filter)
	if err != nil {
		return false, err
	}

	res, err := c.coll.UpdateOne(ctx, f, bson.M{"$set": set})
	if err != nil {
		return false, mapMongoErr(err)
	}
	return res.MatchedCount > 0, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) (bool, error) {
	f, err := toBSON(filter)
	if err != nil {
		return false, err
	}

	res, err := c.coll.DeleteOne(ctx, f)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	f, err := toBSON(filter)
	if err != nil {
		return 0, err
	}

	res, err := c.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) EnsureUniqueIndex(ctx context.Context, field string, sparse bool) error {
	opts := options.Index().SetUnique(true).SetName("ux_" + field)
	if sparse {
		opts.SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}})
	}

	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: opts,
	})
	return err
}

func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, err)
	}
	return err
}
