package models

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// LocationStore persists participant and listing location state. Every
// implementation validates its input and returns the typed errors in
// errors.go.
type LocationStore interface {
	// UpsertParticipant inserts the participant or replaces the record with the
	// same id, stamping LastActive with the current time.
	UpsertParticipant(ctx context.Context, p *Participant) error
	// InsertListing appends a listing, stamping CreatedAt. A duplicate id is a
	// ConflictError and leaves the stored record untouched.
	InsertListing(ctx context.Context, l *Listing) error
	// QueryParticipantsByRole returns located participants with the role, in no
	// particular order.
	QueryParticipantsByRole(ctx context.Context, role Role) ([]Participant, error)
	// QueryListingsWithOwnerName returns every listing with its owner's current
	// name when the owner resolves.
	QueryListingsWithOwnerName(ctx context.Context) ([]ListingWithOwner, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// fromValidator converts the first validator failure into a ValidationError.
func fromValidator(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "is required")
	case "oneof":
		return NewValidationError(field, "must be one of [%s]", fe.Param())
	default:
		return NewValidationError(field, "failed %s validation", fe.Tag())
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

type SqliteRepo struct {
	db  *sql.DB
	now func() time.Time
}

func SqliteNewRepo(db *sql.DB) *SqliteRepo {
	return &SqliteRepo{
		db:  db,
		now: utcNow,
	}
}

// SetClock replaces the time source used for LastActive and CreatedAt.
func (sq *SqliteRepo) SetClock(now func() time.Time) {
	sq.now = now
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	now            func() time.Time
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		now:            utcNow,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
	now           func() time.Time
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
		now:           utcNow,
	}
}

var (
	_ LocationStore = (*SqliteRepo)(nil)
	_ LocationStore = (*SupabaseRepo)(nil)
	_ LocationStore = (*MongodbRepo)(nil)
)
