// Package migrate derives the relational tables from the entity schema
// and creates them on a database.
package migrate

import (
	"context"
	"fmt"
	"reflect"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"

	entschema "clientgraph/ent/schema"
)

// Table names.
const (
	ClientTableName  = "client"
	ProfileTableName = "profile"
)

// Entity binds a schema type to the table that stores it.
type Entity struct {
	Table  string
	Schema ent.Interface
}

var (
	// ClientTable holds the schema information for the "client" table.
	ClientTable *schema.Table
	// ProfileTable holds the schema information for the "profile" table.
	ProfileTable *schema.Table
	// Tables holds all the tables in the schema, parents first.
	Tables []*schema.Table

	entities = []Entity{
		{Table: ClientTableName, Schema: entschema.Client{}},
		{Table: ProfileTableName, Schema: entschema.Profile{}},
	}
	// defaults holds the field default functions per table and column.
	defaults map[string]map[string]reflect.Value
)

func init() {
	tables, err := Build(entities...)
	if err != nil {
		panic(err)
	}
	Tables = tables
	ClientTable, ProfileTable = tables[0], tables[1]
	defaults = collectDefaults(entities...)
}

// Default returns a fresh value for the column's schema default,
// e.g. a new id or the current time. It returns nil when the field
// declares no default function.
func Default(table, column string) any {
	fn, ok := defaults[table][column]
	if !ok {
		return nil
	}
	return fn.Call(nil)[0].Interface()
}

func collectDefaults(entities ...Entity) map[string]map[string]reflect.Value {
	out := make(map[string]map[string]reflect.Value, len(entities))
	for _, e := range entities {
		cols := make(map[string]reflect.Value)
		for _, f := range e.Schema.Fields() {
			d := f.Descriptor()
			if d.Default == nil {
				continue
			}
			fn := reflect.ValueOf(d.Default)
			if fn.Kind() != reflect.Func || fn.Type().NumIn() != 0 || fn.Type().NumOut() != 1 {
				continue
			}
			cols[d.Name] = fn
		}
		out[e.Table] = cols
	}
	return out
}

// Build converts entity field and edge descriptors into tables.
// Inverse edges bound to a field become foreign keys on that field's column.
func Build(entities ...Entity) ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities))
	byType := make(map[string]*schema.Table, len(entities))
	for _, e := range entities {
		t := &schema.Table{Name: e.Table}
		for _, f := range e.Schema.Fields() {
			d := f.Descriptor()
			if d.Err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", e.Table, d.Name, d.Err)
			}
			c := &schema.Column{
				Name:     d.Name,
				Type:     d.Info.Type,
				Unique:   d.Unique,
				Nullable: d.Optional,
			}
			t.Columns = append(t.Columns, c)
			if d.Name == "id" {
				t.PrimaryKey = []*schema.Column{c}
			}
		}
		if len(t.PrimaryKey) == 0 {
			return nil, fmt.Errorf("table %s: missing id field", e.Table)
		}
		tables = append(tables, t)
		byType[typeName(e.Schema)] = t
	}

	for i, e := range entities {
		t := tables[i]
		for _, ed := range e.Schema.Edges() {
			d := ed.Descriptor()
			if !d.Inverse || d.Field == "" {
				continue
			}
			ref, ok := byType[d.Type]
			if !ok {
				return nil, fmt.Errorf("edge %s.%s: unknown type %q", e.Table, d.Name, d.Type)
			}
			col := columnByName(t, d.Field)
			if col == nil {
				return nil, fmt.Errorf("edge %s.%s: missing column %q", e.Table, d.Name, d.Field)
			}
			col.Unique = col.Unique || d.Unique
			col.Nullable = !d.Required
			t.ForeignKeys = append(t.ForeignKeys, &schema.ForeignKey{
				Symbol:     fmt.Sprintf("%s_%s_%s", t.Name, ref.Name, d.RefName),
				Columns:    []*schema.Column{col},
				RefTable:   ref,
				RefColumns: ref.PrimaryKey,
				OnDelete:   schema.NoAction,
			})
		}
	}
	return tables, nil
}

// Create runs the auto migration for all tables. Existing tables are
// altered in place and nothing is dropped.
func Create(ctx context.Context, drv dialect.Driver, opts ...schema.MigrateOption) error {
	m, err := schema.NewMigrate(drv, opts...)
	if err != nil {
		return fmt.Errorf("ent/migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}

func typeName(s ent.Interface) string {
	return reflect.Indirect(reflect.ValueOf(s)).Type().Name()
}

func columnByName(t *schema.Table, name string) *schema.Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}
