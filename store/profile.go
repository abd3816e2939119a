package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"clientgraph/ent/migrate"
)

var profileColumns = []string{"id", "bio", "client_id"}

// ProfileStore is the accessor for the profile table.
type ProfileStore struct {
	config
}

// ProfileID matches profiles by primary key.
func ProfileID(id string) *entsql.Predicate {
	return entsql.EQ("id", id)
}

// ProfileClientID matches profiles owned by the given client.
func ProfileClientID(clientID string) *entsql.Predicate {
	return entsql.EQ("client_id", clientID)
}

// FindUnique returns the profile with the given id, or nil if there is none.
func (s *ProfileStore) FindUnique(ctx context.Context, id string) (*Profile, error) {
	b := s.builder()
	rows, err := s.query(ctx, b.Select(profileColumns...).
		From(b.Table(migrate.ProfileTableName)).
		Where(ProfileID(id)).
		Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to query profile %s: %w", id, err)
	}
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile %s: %w", id, err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

// FindMany returns the profiles matching all predicates, oldest first.
// Without predicates it returns every profile.
func (s *ProfileStore) FindMany(ctx context.Context, where ...*entsql.Predicate) ([]*Profile, error) {
	b := s.builder()
	sel := b.Select(profileColumns...).
		From(b.Table(migrate.ProfileTableName)).
		OrderBy("created_at", "id")
	if len(where) > 0 {
		sel.Where(entsql.And(where...))
	}
	rows, err := s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return profiles, nil
}

// Create inserts a profile linked to clientID. The client must exist;
// otherwise a NotFoundError is returned. A second profile for the same
// client fails with a ConstraintError. Use Store.CreateProfile to run the
// check and the insert in one transaction.
func (s *ProfileStore) Create(ctx context.Context, bio, clientID string) (*Profile, error) {
	owner, err := (&ClientStore{config: s.config}).FindUnique(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &NotFoundError{label: migrate.ClientTableName, id: clientID}
	}
	p := &Profile{ID: defaultID(migrate.ProfileTableName), Bio: bio, ClientID: owner.ID}
	_, err = s.exec(ctx, s.builder().Insert(migrate.ProfileTableName).
		Columns("id", "bio", "client_id", "created_at").
		Values(p.ID, p.Bio, p.ClientID, defaultCreatedAt(migrate.ProfileTableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", wrapConstraint(err))
	}
	return p, nil
}

// Delete removes the profile with the given id. It fails with a
// NotFoundError when no row matches.
func (s *ProfileStore) Delete(ctx context.Context, id string) error {
	n, err := s.DeleteMany(ctx, ProfileID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{label: migrate.ProfileTableName, id: id}
	}
	return nil
}

// DeleteMany removes the profiles matching all predicates and returns
// how many were deleted.
func (s *ProfileStore) DeleteMany(ctx context.Context, where ...*entsql.Predicate) (int, error) {
	del := s.builder().Delete(migrate.ProfileTableName)
	if len(where) > 0 {
		del.Where(entsql.And(where...))
	}
	res, err := s.exec(ctx, del)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profiles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted profiles: %w", err)
	}
	return int(n), nil
}

// QueryClient returns the client owning the profile. It loads the profile
// first and returns nil when the profile does not exist.
func (s *ProfileStore) QueryClient(ctx context.Context, id string) (*Client, error) {
	p, err := s.FindUnique(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return (&ClientStore{config: s.config}).FindUnique(ctx, p.ClientID)
}

func scanProfiles(rows *entsql.Rows) ([]*Profile, error) {
	defer rows.Close()
	profiles := make([]*Profile, 0)
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(&p.ID, &p.Bio, &p.ClientID); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
