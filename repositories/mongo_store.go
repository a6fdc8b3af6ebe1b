package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/fieldtrack_backend/models"
)

const defaultMongoTimeout = 10 * time.Second

// MongoStore is the durable backend: one MongoDB collection per document type.
type MongoStore[T Document] struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoStore[T Document](db *mongo.Database, collection string, timeout time.Duration) *MongoStore[T] {
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	return &MongoStore[T]{
		collection: db.Collection(collection),
		timeout:    timeout,
	}
}

func (r *MongoStore[T]) Insert(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, models.NotFound(r.collection.Name(), id)
	}
	return doc, err
}

func (r *MongoStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find()
	if q.SortField != "" {
		dir := 1
		if q.SortDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.SortField, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := r.collection.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update is a read-modify-replace; concurrent writers to the same document are
// serialised by the services that need it.
func (r *MongoStore[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var zero T
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := mutate(&doc); err != nil {
		return zero, err
	}
	if doc.GetID() != id {
		return zero, fmt.Errorf("%s: update may not change _id", r.collection.Name())
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return zero, err
	}
	if res.MatchedCount == 0 {
		return zero, models.NotFound(r.collection.Name(), id)
	}
	return doc, nil
}

func (r *MongoStore[T]) Upsert(ctx context.Context, match map[string]string, doc T) (T, error) {
	var stored T
	fields, err := toFields(doc)
	if err != nil {
		return stored, err
	}
	id := fields["_id"]
	delete(fields, "_id")

	filter := bson.M{}
	for k, v := range match {
		filter[k] = v
	}
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"_id": id},
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return stored, err
	}
	err = r.collection.FindOne(ctx, filter).Decode(&stored)
	return stored, err
}

func (r *MongoStore[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.NotFound(r.collection.Name(), id)
	}
	return nil
}

func (r *MongoStore[T]) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}
	for k, v := range q.Equals {
		filter[k] = v
	}
	if q.TimeField != "" && (q.From != "" || q.To != "") {
		bounds := bson.M{}
		if q.From != "" {
			bounds["$gte"] = q.From
		}
		if q.To != "" {
			bounds["$lte"] = q.To
		}
		filter[q.TimeField] = bounds
	}
	return filter
}
