// Package mongostore implements the docstore port on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/repository/docstore"
)

// Database wraps a connected client and one named database.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection and selects the named database.
func Connect(ctx context.Context, uri, name string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("connected to mongodb", zap.String("db", name))
	return New(client, name), nil
}

// New wraps an existing client. The caller owns the client lifecycle unless Close is used.
func New(client *mongo.Client, name string) *Database {
	return &Database{client: client, db: client.Database(name)}
}

func (d *Database) Driver() string {
	return "mongo"
}

func (d *Database) Collection(name string) docstore.Collection {
	return &collection{coll: d.db.Collection(name)}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates ascending single-field indexes, keyed by collection name.
func (d *Database) EnsureIndexes(ctx context.Context, indexes map[string][]string) error {
	for collName, fields := range indexes {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, field := range fields {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
		}
		if len(models) == 0 {
			continue
		}
		if _, err := d.db.Collection(collName).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) Name() string {
	return c.coll.Name()
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter, dst any) error {
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNoDocument
	}
	return err
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter, dst any) error {
	cursor, err := c.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return err
	}
	return cursor.All(ctx, dst)
}

func (c *collection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (c *collection) ReplaceOne(ctx context.Context, filter docstore.Filter, doc any) (int64, error) {
	res, err := c.coll.ReplaceOne(ctx, toBSON(filter), doc)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter docstore.Filter, set map[string]any) (int64, error) {
	update := bson.D{
		{Key: "$set", Value: bson.M(set)},
		{Key: "$inc", Value: bson.D{{Key: docstore.VersionField, Value: 1}}},
	}
	res, err := c.coll.UpdateOne(ctx, toBSON(filter), update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func toBSON(filter docstore.Filter) bson.D {
	doc := bson.D{}
	if id, ok := filter.ID(); ok {
		doc = append(doc, bson.E{Key: "_id", Value: id})
	}
	for _, cond := range filter.Conditions() {
		doc = append(doc, bson.E{Key: cond.Field, Value: cond.Value})
	}
	if expected, ok := filter.Version(); ok {
		doc = append(doc, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: docstore.VersionField, Value: expected}},
			bson.D{{Key: docstore.VersionField, Value: bson.D{{Key: "$exists", Value: false}}}},
		}})
	}
	return doc
}
