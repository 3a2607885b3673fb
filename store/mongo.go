package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/log"
)

type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the unique indexes listed in UniqueIndexes.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	for collection, fields := range UniqueIndexes {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, f := range fields {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: f, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		}

		_, err := m.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Logger.Error("unable to create index", zap.String("collection", collection), zap.Error(err))
			return err
		}
	}

	return nil
}

func (m *Mongo) Find(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Record, error) {
	filter, err := Filter(field, op, value)
	if err != nil {
		return nil, err
	}

	cursor, err := m.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		log.Logger.Error("database error", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabase, err)
	}
	defer cursor.Close(context.Background())

	var out []Record
	for cursor.Next(ctx) {
		r := Record{}
		if err := cursor.Decode(&r); err != nil {
			log.Logger.Error("decode error", zap.String("collection", collection), zap.Error(err))
			return nil, fmt.Errorf("%w: %s", errs.ErrDatabase, err)
		}
		out = append(out, r)
	}
	if err := cursor.Err(); err != nil {
		log.Logger.Error("cursor error", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabase, err)
	}

	return out, nil
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) error {
	_, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrAlreadyExists
		}

		log.Logger.Error("failed inserting document", zap.String("collection", collection), zap.Error(err))
		return fmt.Errorf("%w: %s", errs.ErrDatabase, err)
	}

	return nil
}

func (m *Mongo) Update(ctx context.Context, collection, field string, value interface{}, set Record) (int64, error) {
	res, err := m.db.Collection(collection).UpdateMany(ctx, bson.M{field: value}, bson.M{"$set": bson.M(set)})
	if err != nil {
		log.Logger.Error("database error", zap.String("collection", collection), zap.Error(err))
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabase, err)
	}

	return res.MatchedCount, nil
}

func (m *Mongo) Delete(ctx context.Context, collection, field string, value interface{}) (int64, error) {
	res, err := m.db.Collection(collection).DeleteMany(ctx, bson.M{field: value})
	if err != nil {
		log.Logger.Error("database error", zap.String("collection", collection), zap.Error(err))
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabase, err)
	}

	return res.DeletedCount, nil
}

// Filter translates a single-field predicate into a mongo filter document.
func Filter(field string, op Operator, value interface{}) (bson.M, error) {
	var cond interface{}
	switch op {
	case Eq:
		cond = bson.M{"$eq": value}
	case Ne:
		cond = bson.M{"$ne": value}
	case Lt:
		cond = bson.M{"$lt": value}
	case Lte:
		cond = bson.M{"$lte": value}
	case Gt:
		cond = bson.M{"$gt": value}
	case Gte:
		cond = bson.M{"$gte": value}
	case In:
		cond = bson.M{"$in": value}
	case ArrayContains:
		cond = bson.M{"$elemMatch": bson.M{"$eq": value}}
	default:
		return nil, errs.ErrInvalidOperator
	}

	return bson.M{field: cond}, nil
}
