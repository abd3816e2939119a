// Package store is the data access layer for clients and their profiles.
// Each table has a typed accessor; relations are traversed with explicit
// two-step queries over the foreign key.
package store

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"clientgraph/ent/migrate"
)

// Client is a row of the client table.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is a row of the profile table.
type Profile struct {
	ID       string `json:"id"`
	Bio      string `json:"bio"`
	ClientID string `json:"client_id"`
}

// Store groups the per-table accessors over one connection or transaction.
type Store struct {
	Client  *ClientStore
	Profile *ProfileStore

	cfg config
	// drv is nil on transaction-bound stores.
	drv *entsql.Driver
}

type config struct {
	dialect string
	eq      dialect.ExecQuerier
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dialectName, dsn string) (*Store, error) {
	drv, err := entsql.Open(dialectName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", dialectName, err)
	}
	if err := drv.DB().PingContext(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialectName, err)
	}
	return New(drv), nil
}

// New returns a Store on top of an open driver.
func New(drv *entsql.Driver) *Store {
	return newStore(config{dialect: drv.Dialect(), eq: drv}, drv)
}

func newStore(cfg config, drv *entsql.Driver) *Store {
	return &Store{
		Client:  &ClientStore{config: cfg},
		Profile: &ProfileStore{config: cfg},
		cfg:     cfg,
		drv:     drv,
	}
}

// Migrate creates the client and profile tables if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if s.drv == nil {
		return errors.New("store: migrate is not allowed within a transaction")
	}
	if err := migrate.Create(ctx, s.drv); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.drv == nil {
		return nil
	}
	return s.drv.Close()
}

// WithTx runs fn on a transaction-bound Store. The transaction is committed
// when fn returns nil and rolled back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.drv == nil {
		return errors.New("store: cannot start a transaction within a transaction")
	}
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(newStore(config{dialect: s.cfg.dialect, eq: tx}, nil)); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteClient deletes the profiles referencing the client and then the
// client itself in one transaction. It returns the deleted client.
func (s *Store) DeleteClient(ctx context.Context, id string) (*Client, error) {
	var deleted *Client
	err := s.WithTx(ctx, func(tx *Store) error {
		c, err := tx.Client.FindUnique(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return &NotFoundError{label: migrate.ClientTableName, id: id}
		}
		if _, err := tx.Profile.DeleteMany(ctx, ProfileClientID(id)); err != nil {
			return err
		}
		if err := tx.Client.Delete(ctx, id); err != nil {
			return err
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// CreateProfile checks the owning client and inserts the profile in one
// transaction, so a concurrent DeleteClient yields a NotFoundError rather
// than a foreign key failure.
func (s *Store) CreateProfile(ctx context.Context, bio, clientID string) (*Profile, error) {
	var created *Profile
	err := s.WithTx(ctx, func(tx *Store) error {
		p, err := tx.Profile.Create(ctx, bio, clientID)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c config) builder() *entsql.DialectBuilder {
	return entsql.Dialect(c.dialect)
}

func (c config) query(ctx context.Context, q entsql.Querier) (*entsql.Rows, error) {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := c.eq.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c config) exec(ctx context.Context, q entsql.Querier) (entsql.Result, error) {
	query, args := q.Query()
	var res entsql.Result
	if err := c.eq.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// NotFoundError returns when a row required by an operation does not exist.
type NotFoundError struct {
	label string
	id    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.label, e.id)
}

// IsNotFound returns a boolean indicating whether the error is a not found error.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// ConstraintError returns when trying to create a row that violates a
// unique or foreign key constraint.
type ConstraintError struct {
	msg  string
	wrap error
}

func (e *ConstraintError) Error() string {
	return "store: constraint failed: " + e.msg
}

func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// IsConstraintError returns a boolean indicating whether the error is a constraint failure.
func IsConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}

func wrapConstraint(err error) error {
	if sqlgraph.IsConstraintError(err) {
		return &ConstraintError{msg: err.Error(), wrap: err}
	}
	return err
}
