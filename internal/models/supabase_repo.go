package models

import (
	"context"
	"encoding/json"
	"strings"
)

// The supabase project is expected to carry the tables in SqliteSchema, with
// last_active and created_at as timestamptz.

func (su *SupabaseRepo) UpsertParticipant(ctx context.Context, p *Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.LastActive = su.now()

	// PostgREST turns this into INSERT ... ON CONFLICT (id) DO UPDATE
	_, _, err := su.supabaseClient.
		From(ParticipantsTable).
		Upsert(p, "id", "minimal", "").
		Execute()
	if err != nil {
		return NewStorageError("upsert participant", err)
	}

	return nil
}

func (su *SupabaseRepo) InsertListing(ctx context.Context, l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}

	doc := *l
	doc.CreatedAt = su.now()

	_, _, err := su.supabaseClient.
		From(ListingsTable).
		Insert(doc, false, "", "minimal", "").
		Execute()
	if err != nil {
		if isPostgresConflict(err) {
			return &ConflictError{Entity: "listing", ID: l.ID}
		}
		return NewStorageError("insert listing", err)
	}

	l.CreatedAt = doc.CreatedAt
	return nil
}

func (su *SupabaseRepo) QueryParticipantsByRole(ctx context.Context, role Role) ([]Participant, error) {
	data, _, err := su.supabaseClient.
		From(ParticipantsTable).
		Select("id,name,role,lat,lng,last_active", "", false).
		Eq("role", string(role)).
		Not("lat", "is", "null").
		Not("lng", "is", "null").
		Execute()
	if err != nil {
		return nil, NewStorageError("query participants", err)
	}

	participants := []Participant{}
	if err := json.Unmarshal(data, &participants); err != nil {
		return nil, NewStorageError("decode participants", err)
	}
	for i := range participants {
		participants[i].LastActive = participants[i].LastActive.UTC()
	}

	return participants, nil
}

func (su *SupabaseRepo) QueryListingsWithOwnerName(ctx context.Context) ([]ListingWithOwner, error) {
	data, _, err := su.supabaseClient.
		From(ListingsTable).
		Select("id,user_id,title,description,category,lat,lng,created_at", "", false).
		Execute()
	if err != nil {
		return nil, NewStorageError("query listings", err)
	}

	var rows []Listing
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, NewStorageError("decode listings", err)
	}

	names, err := su.ownerNames(ownerIDs(rows))
	if err != nil {
		return nil, err
	}

	return joinOwnerNames(rows, names), nil
}

// ownerNames resolves the current name of each owner id. The join happens
// client side because listings carry no foreign key PostgREST could embed
// through.
func (su *SupabaseRepo) ownerNames(ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	data, _, err := su.supabaseClient.
		From(ParticipantsTable).
		Select("id,name", "", false).
		In("id", ids).
		Execute()
	if err != nil {
		return nil, NewStorageError("query listing owners", err)
	}

	var owners []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &owners); err != nil {
		return nil, NewStorageError("decode listing owners", err)
	}
	for _, o := range owners {
		names[o.ID] = o.Name
	}

	return names, nil
}

func (su *SupabaseRepo) Ping(ctx context.Context) error {
	_, _, err := su.supabaseClient.
		From(ParticipantsTable).
		Select("id", "", false).
		Range(0, 0, "").
		Execute()
	if err != nil {
		return NewStorageError("ping", err)
	}
	return nil
}

// Close drops the client reference; the REST client holds no connection.
func (su *SupabaseRepo) Close(ctx context.Context) error {
	su.supabaseClient = nil
	return nil
}

// ownerIDs returns the distinct non-empty owner ids of rows in first-seen order.
func ownerIDs(rows []Listing) []string {
	seen := make(map[string]bool, len(rows))
	ids := make([]string, 0, len(rows))
	for _, l := range rows {
		if l.OwnerID == "" || seen[l.OwnerID] {
			continue
		}
		seen[l.OwnerID] = true
		ids = append(ids, l.OwnerID)
	}
	return ids
}

// joinOwnerNames pairs each listing with its owner's name. Owners missing from
// names leave OwnerName nil.
func joinOwnerNames(rows []Listing, names map[string]string) []ListingWithOwner {
	listings := make([]ListingWithOwner, 0, len(rows))
	for _, l := range rows {
		l.CreatedAt = l.CreatedAt.UTC()
		item := ListingWithOwner{Listing: l}
		if name, ok := names[l.OwnerID]; ok {
			item.OwnerName = &name
		}
		listings = append(listings, item)
	}
	return listings
}

func isPostgresConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(strings.ToLower(msg), "duplicate key")
}
