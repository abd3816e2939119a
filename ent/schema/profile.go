package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"
)

// Profile holds the schema definition for the Profile entity.
type Profile struct {
	ent.Schema
}

// Fields of the Profile.
func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").DefaultFunc(uuid.NewString).Immutable(),
		field.String("bio"),
		field.String("client_id"),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// Edges of the Profile.
func (Profile) Edges() []ent.Edge {
	return []ent.Edge{
		// A profile belongs to exactly one client through client_id.
		// The column is unique, so a client owns zero or one profile.
		edge.From("client", Client.Type).
			Ref("profile").
			Field("client_id").
			Unique().
			Required(),
	}
}
