package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"
)

// Client holds the schema definition for the Client entity.
type Client struct {
	ent.Schema
}

// Fields of the Client.
func (Client) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").DefaultFunc(uuid.NewString).Immutable(),
		field.String("name"),
		field.String("email"),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// Edges of the Client.
func (Client) Edges() []ent.Edge {
	return []ent.Edge{
		// A client has at most one profile (one-to-one relationship)
		edge.To("profile", Profile.Type).Unique(),
	}
}
