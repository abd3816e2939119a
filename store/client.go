package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"clientgraph/ent/migrate"
)

var clientColumns = []string{"id", "name", "email"}

// ClientStore is the accessor for the client table.
type ClientStore struct {
	config
}

// ClientID matches clients by primary key.
func ClientID(id string) *entsql.Predicate {
	return entsql.EQ("id", id)
}

// FindUnique returns the client with the given id, or nil if there is none.
func (s *ClientStore) FindUnique(ctx context.Context, id string) (*Client, error) {
	b := s.builder()
	rows, err := s.query(ctx, b.Select(clientColumns...).
		From(b.Table(migrate.ClientTableName)).
		Where(ClientID(id)).
		Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to query client %s: %w", id, err)
	}
	clients, err := scanClients(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan client %s: %w", id, err)
	}
	if len(clients) == 0 {
		return nil, nil
	}
	return clients[0], nil
}

// FindMany returns the clients matching all predicates, oldest first.
// Without predicates it returns every client.
func (s *ClientStore) FindMany(ctx context.Context, where ...*entsql.Predicate) ([]*Client, error) {
	b := s.builder()
	sel := b.Select(clientColumns...).
		From(b.Table(migrate.ClientTableName)).
		OrderBy("created_at", "id")
	if len(where) > 0 {
		sel.Where(entsql.And(where...))
	}
	rows, err := s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	clients, err := scanClients(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan clients: %w", err)
	}
	return clients, nil
}

// Create inserts a client. The id and created_at come from the schema defaults.
func (s *ClientStore) Create(ctx context.Context, name, email string) (*Client, error) {
	c := &Client{ID: defaultID(migrate.ClientTableName), Name: name, Email: email}
	_, err := s.exec(ctx, s.builder().Insert(migrate.ClientTableName).
		Columns("id", "name", "email", "created_at").
		Values(c.ID, c.Name, c.Email, defaultCreatedAt(migrate.ClientTableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", wrapConstraint(err))
	}
	return c, nil
}

// Delete removes the client with the given id. It fails with a
// NotFoundError when no row matches.
func (s *ClientStore) Delete(ctx context.Context, id string) error {
	n, err := s.DeleteMany(ctx, ClientID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{label: migrate.ClientTableName, id: id}
	}
	return nil
}

// DeleteMany removes the clients matching all predicates and returns
// how many were deleted.
func (s *ClientStore) DeleteMany(ctx context.Context, where ...*entsql.Predicate) (int, error) {
	del := s.builder().Delete(migrate.ClientTableName)
	if len(where) > 0 {
		del.Where(entsql.And(where...))
	}
	res, err := s.exec(ctx, del)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clients: %w", wrapConstraint(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted clients: %w", err)
	}
	return int(n), nil
}

// QueryProfile returns the profiles owned by the client. It loads the
// client first and returns nil when the client does not exist.
func (s *ClientStore) QueryProfile(ctx context.Context, id string) ([]*Profile, error) {
	c, err := s.FindUnique(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return (&ProfileStore{config: s.config}).FindMany(ctx, ProfileClientID(c.ID))
}

func scanClients(rows *entsql.Rows) ([]*Client, error) {
	defer rows.Close()
	clients := make([]*Client, 0)
	for rows.Next() {
		c := &Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func defaultID(table string) string {
	id, _ := migrate.Default(table, "id").(string)
	return id
}

func defaultCreatedAt(table string) time.Time {
	t, _ := migrate.Default(table, "created_at").(time.Time)
	return t.UTC()
}
