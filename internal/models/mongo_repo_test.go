package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/nearwork/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongodbRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	seen := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("upsert replaces by id", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		p := worker("w-1", "Ama", 5.6, -0.18)
		if err := repo.UpsertParticipant(ctx, p); err != nil {
			mt.Fatalf("UpsertParticipant failed: %v", err)
		}
		if p.LastActive.IsZero() {
			mt.Error("expected LastActive to be stamped")
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "update" {
			mt.Fatalf("expected an update command, got %+v", evt)
		}
		if coll, _ := evt.Command.Lookup("update").StringValueOK(); coll != models.ParticipantsColName {
			mt.Errorf("expected update on %s, got %q", models.ParticipantsColName, coll)
		}
		if upsert, ok := evt.Command.Lookup("updates", "0", "upsert").BooleanOK(); !ok || !upsert {
			mt.Error("expected the replacement to upsert")
		}
		if id, _ := evt.Command.Lookup("updates", "0", "q", "_id").StringValueOK(); id != "w-1" {
			mt.Errorf("expected replacement keyed by _id w-1, got %q", id)
		}
		if name, _ := evt.Command.Lookup("updates", "0", "u", "name").StringValueOK(); name != "Ama" {
			mt.Errorf("expected full replacement document, got name %q", name)
		}
	})

	mt.Run("invalid participant never reaches the server", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())

		p := worker("w-1", "Ama", 5.6, -0.18)
		p.Role = "manager"
		if err := repo.UpsertParticipant(ctx, p); !models.IsValidation(err) {
			mt.Fatalf("expected ValidationError, got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Errorf("expected no command, got %s", evt.CommandName)
		}
	})

	mt.Run("duplicate listing id is a conflict", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.listings index: _id_ dup key",
		}))

		l := &models.Listing{ID: "l-1", OwnerID: "w-1", Title: "Painter", Lat: 1, Lng: 1}
		err := repo.InsertListing(ctx, l)
		if !models.IsConflict(err) {
			mt.Fatalf("expected ConflictError, got %v", err)
		}
		if !l.CreatedAt.IsZero() {
			mt.Error("CreatedAt must not be set on a rejected listing")
		}
	})

	mt.Run("other write failures are storage errors", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		err := repo.InsertListing(ctx, &models.Listing{ID: "l-1", OwnerID: "w-1", Title: "Painter", Lat: 1, Lng: 1})
		if !models.IsStorage(err) {
			mt.Fatalf("expected StorageError, got %v", err)
		}
	})

	mt.Run("role query filters on location", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.participants", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "w-1"},
			{Key: "name", Value: "Ama"},
			{Key: "role", Value: "worker"},
			{Key: "lat", Value: 5.6},
			{Key: "lng", Value: -0.18},
			{Key: "last_active", Value: seen},
		}))

		got, err := repo.QueryParticipantsByRole(ctx, models.RoleWorker)
		if err != nil {
			mt.Fatalf("QueryParticipantsByRole failed: %v", err)
		}
		if len(got) != 1 {
			mt.Fatalf("expected 1 participant, got %d", len(got))
		}
		p := got[0]
		if p.ID != "w-1" || p.Role != models.RoleWorker || p.Lat == nil || *p.Lat != 5.6 {
			mt.Errorf("unexpected participant %+v", p)
		}
		if !p.LastActive.Equal(seen) || p.LastActive.Location() != time.UTC {
			mt.Errorf("expected LastActive %v in UTC, got %v", seen, p.LastActive)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "find" {
			mt.Fatalf("expected a find command, got %+v", evt)
		}
		if role, _ := evt.Command.Lookup("filter", "role").StringValueOK(); role != "worker" {
			mt.Errorf("expected role filter worker, got %q", role)
		}
		for _, field := range []string{"lat", "lng"} {
			if v := evt.Command.Lookup("filter", field, "$ne"); v.Type != bson.TypeNull {
				mt.Errorf("expected %s $ne null filter, got %v", field, v)
			}
		}
	})

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.participants", mtest.FirstBatch))

		got, err := repo.QueryParticipantsByRole(ctx, models.RoleEmployer)
		if err != nil {
			mt.Fatalf("QueryParticipantsByRole failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	mt.Run("listings join owner names", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		listing := func(id, owner string, extra ...bson.E) bson.D {
			doc := bson.D{
				{Key: "_id", Value: id},
				{Key: "user_id", Value: owner},
				{Key: "title", Value: "Job " + id},
				{Key: "description", Value: ""},
				{Key: "category", Value: models.DefaultCategory},
				{Key: "lat", Value: 1.5},
				{Key: "lng", Value: 2.5},
				{Key: "created_at", Value: seen},
			}
			return append(doc, extra...)
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.listings", mtest.FirstBatch,
			listing("l-1", "w-1", bson.E{Key: "user_name", Value: "Ama"}),
			listing("l-2", "ghost"),
			listing("l-3", "gone", bson.E{Key: "user_name", Value: nil}),
		))

		got, err := repo.QueryListingsWithOwnerName(ctx)
		if err != nil {
			mt.Fatalf("QueryListingsWithOwnerName failed: %v", err)
		}
		if len(got) != 3 {
			mt.Fatalf("expected 3 listings, got %d", len(got))
		}
		if got[0].OwnerName == nil || *got[0].OwnerName != "Ama" {
			mt.Errorf("expected owner name Ama, got %v", got[0].OwnerName)
		}
		if got[0].OwnerID != "w-1" || got[0].Lat != 1.5 || !got[0].CreatedAt.Equal(seen) {
			mt.Errorf("listing fields not decoded: %+v", got[0].Listing)
		}
		for _, l := range got[1:] {
			if l.OwnerName != nil {
				mt.Errorf("%s: expected nil owner name for dangling owner, got %q", l.ID, *l.OwnerName)
			}
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "aggregate" {
			mt.Fatalf("expected an aggregate command, got %+v", evt)
		}
		if from, _ := evt.Command.Lookup("pipeline", "0", "$lookup", "from").StringValueOK(); from != models.ParticipantsColName {
			mt.Errorf("expected $lookup from %s, got %q", models.ParticipantsColName, from)
		}
		if src, _ := evt.Command.Lookup("pipeline", "1", "$addFields", "user_name", "$arrayElemAt", "0").StringValueOK(); src != "$owner.name" {
			mt.Errorf("expected user_name from the first joined owner, got %q", src)
		}
	})

	mt.Run("ping", func(mt *mtest.T) {
		repo := models.MongodbNewRepo(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := repo.Ping(ctx); err != nil {
			mt.Errorf("Ping failed: %v", err)
		}
	})
}
