package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ParticipantsColName = "participants"
	ListingsColName     = "listings"
)

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the secondary indexes used by the proximity queries.
// Participants and listings are keyed by _id, which mongo already indexes.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	participants, err := mdb.GetCollection(ctx, ParticipantsColName)
	if err != nil {
		return NewStorageError("ensure indexes", err)
	}
	_, err = participants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetName("role_idx"),
	})
	if err != nil {
		return NewStorageError("ensure participant indexes", err)
	}

	listings, err := mdb.GetCollection(ctx, ListingsColName)
	if err != nil {
		return NewStorageError("ensure indexes", err)
	}
	_, err = listings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("user_id_idx"),
	})
	if err != nil {
		return NewStorageError("ensure listing indexes", err)
	}

	return nil
}

func (mdb *MongodbRepo) UpsertParticipant(ctx context.Context, p *Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}

	col, err := mdb.GetCollection(ctx, ParticipantsColName)
	if err != nil {
		return NewStorageError("upsert participant", err)
	}

	p.LastActive = mdb.now()

	// replacing by _id is atomic for a single document
	opts := options.Replace().SetUpsert(true)
	if _, err := col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		return NewStorageError("upsert participant", err)
	}

	return nil
}

func (mdb *MongodbRepo) InsertListing(ctx context.Context, l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}

	col, err := mdb.GetCollection(ctx, ListingsColName)
	if err != nil {
		return NewStorageError("insert listing", err)
	}

	doc := *l
	doc.CreatedAt = mdb.now()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &ConflictError{Entity: "listing", ID: l.ID}
		}
		return NewStorageError("insert listing", err)
	}

	l.CreatedAt = doc.CreatedAt
	return nil
}

func (mdb *MongodbRepo) QueryParticipantsByRole(ctx context.Context, role Role) ([]Participant, error) {
	col, err := mdb.GetCollection(ctx, ParticipantsColName)
	if err != nil {
		return nil, NewStorageError("query participants", err)
	}

	filter := bson.M{
		"role": role,
		"lat":  bson.M{"$ne": nil},
		"lng":  bson.M{"$ne": nil},
	}
	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, NewStorageError("query participants", err)
	}
	defer cursor.Close(ctx)

	participants := []Participant{}
	for cursor.Next(ctx) {
		var p Participant
		if err := cursor.Decode(&p); err != nil {
			return nil, NewStorageError("decode participant", err)
		}
		p.LastActive = p.LastActive.UTC()
		participants = append(participants, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, NewStorageError("query participants", err)
	}

	return participants, nil
}

func (mdb *MongodbRepo) QueryListingsWithOwnerName(ctx context.Context) ([]ListingWithOwner, error) {
	col, err := mdb.GetCollection(ctx, ListingsColName)
	if err != nil {
		return nil, NewStorageError("query listings", err)
	}

	// left join: a listing whose owner is gone keeps an absent user_name
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         ParticipantsColName,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"user_name": bson.M{"$arrayElemAt": bson.A{"$owner.name", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"owner": 0}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, NewStorageError("query listings", err)
	}
	defer cursor.Close(ctx)

	listings := []ListingWithOwner{}
	for cursor.Next(ctx) {
		var l ListingWithOwner
		if err := cursor.Decode(&l); err != nil {
			return nil, NewStorageError("decode listing", err)
		}
		l.CreatedAt = l.CreatedAt.UTC()
		listings = append(listings, l)
	}
	if err := cursor.Err(); err != nil {
		return nil, NewStorageError("query listings", err)
	}

	return listings, nil
}

func (mdb *MongodbRepo) Ping(ctx context.Context) error {
	if mdb.mongodbClient == nil {
		return NewStorageError("ping", fmt.Errorf("mongodb client is not initialized"))
	}
	if err := mdb.mongodbClient.Ping(ctx, readpref.Primary()); err != nil {
		return NewStorageError("ping", err)
	}
	return nil
}

func (mdb *MongodbRepo) Close(ctx context.Context) error {
	if mdb.mongodbClient == nil {
		return nil
	}
	if err := mdb.mongodbClient.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	mdb.mongodbClient = nil
	return nil
}
