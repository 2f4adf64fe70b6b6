package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

const (
	ParticipantsTable = "participants"
	ListingsTable     = "listings"
)

// SqliteSchema creates the two tables the store reads and writes. Listings
// reference participants by id without a foreign key so a listing can outlive
// its owner.
const SqliteSchema = `
CREATE TABLE IF NOT EXISTS participants (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('worker', 'employer')),
	lat REAL,
	lng REAL,
	last_active DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participants_role ON participants(role);

CREATE TABLE IF NOT EXISTS listings (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'General',
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_user_id ON listings(user_id);
`

// Migrate creates the schema if it does not exist yet.
func (sq *SqliteRepo) Migrate(ctx context.Context) error {
	if _, err := sq.db.ExecContext(ctx, SqliteSchema); err != nil {
		return NewStorageError("migrate", err)
	}
	return nil
}

func (sq *SqliteRepo) UpsertParticipant(ctx context.Context, p *Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.LastActive = sq.now()

	var lat, lng sql.NullFloat64
	if p.Lat != nil {
		lat = sql.NullFloat64{Float64: *p.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: *p.Lng, Valid: true}
	}

	// a single statement keeps replace-or-insert atomic per id
	_, err := sq.db.ExecContext(ctx, `
		INSERT INTO participants (id, name, role, lat, lng, last_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			lat = excluded.lat,
			lng = excluded.lng,
			last_active = excluded.last_active`,
		p.ID, p.Name, string(p.Role), lat, lng, p.LastActive,
	)
	if err != nil {
		return NewStorageError("upsert participant", err)
	}

	return nil
}

func (sq *SqliteRepo) InsertListing(ctx context.Context, l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}

	createdAt := sq.now()

	_, err := sq.db.ExecContext(ctx, `
		INSERT INTO listings (id, user_id, title, description, category, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OwnerID, l.Title, l.Description, l.Category, l.Lat, l.Lng, createdAt,
	)
	if err != nil {
		if isSqliteConflict(err) {
			return &ConflictError{Entity: "listing", ID: l.ID}
		}
		return NewStorageError("insert listing", err)
	}

	l.CreatedAt = createdAt
	return nil
}

func (sq *SqliteRepo) QueryParticipantsByRole(ctx context.Context, role Role) ([]Participant, error) {
	rows, err := sq.db.QueryContext(ctx, `
		SELECT id, name, role, lat, lng, last_active
		FROM participants
		WHERE role = ? AND lat IS NOT NULL AND lng IS NOT NULL`,
		string(role),
	)
	if err != nil {
		return nil, NewStorageError("query participants", err)
	}
	defer rows.Close()

	participants := []Participant{}
	for rows.Next() {
		var (
			p          Participant
			roleStr    string
			lat, lng   sql.NullFloat64
			lastActive time.Time
		)
		if err := rows.Scan(&p.ID, &p.Name, &roleStr, &lat, &lng, &lastActive); err != nil {
			return nil, NewStorageError("scan participant", err)
		}
		p.Role = Role(roleStr)
		if lat.Valid && lng.Valid {
			p.Lat, p.Lng = &lat.Float64, &lng.Float64
		}
		p.LastActive = lastActive.UTC()
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("query participants", err)
	}

	return participants, nil
}

func (sq *SqliteRepo) QueryListingsWithOwnerName(ctx context.Context) ([]ListingWithOwner, error) {
	rows, err := sq.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.title, l.description, l.category, l.lat, l.lng, l.created_at, p.name
		FROM listings l
		LEFT JOIN participants p ON p.id = l.user_id`,
	)
	if err != nil {
		return nil, NewStorageError("query listings", err)
	}
	defer rows.Close()

	listings := []ListingWithOwner{}
	for rows.Next() {
		var (
			l         ListingWithOwner
			ownerName sql.NullString
			createdAt time.Time
		)
		err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category,
			&l.Lat, &l.Lng, &createdAt, &ownerName)
		if err != nil {
			return nil, NewStorageError("scan listing", err)
		}
		l.CreatedAt = createdAt.UTC()
		if ownerName.Valid {
			name := ownerName.String
			l.OwnerName = &name
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("query listings", err)
	}

	return listings, nil
}

func (sq *SqliteRepo) Ping(ctx context.Context) error {
	if err := sq.db.PingContext(ctx); err != nil {
		return NewStorageError("ping", err)
	}
	return nil
}

func (sq *SqliteRepo) Close(ctx context.Context) error {
	if err := sq.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite: %w", err)
	}
	return nil
}

func isSqliteConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
