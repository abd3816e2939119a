// Package handler declares the GraphQL schema for clients and profiles
// and resolves its fields through the store.
package handler

import (
	"context"

	"github.com/graphql-go/graphql"

	"clientgraph/store"
)

// Resolver implements the field resolvers of the client/profile schema.
type Resolver struct {
	Store *store.Store
}

// NewResolver returns a Resolver reading and writing through s.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{Store: s}
}

// Schema assembles the object and root types into an executable schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	clientType, profileType := r.objectTypes()
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(clientType, profileType),
		Mutation: r.mutationType(clientType, profileType),
	})
}

// objectTypes declares client and profile. Each refers to the other,
// so their fields are thunks resolved when the schema is built.
func (r *Resolver) objectTypes() (clientType, profileType *graphql.Object) {
	clientType = graphql.NewObject(graphql.ObjectConfig{
		Name: "client",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":    &graphql.Field{Type: graphql.String},
				"name":  &graphql.Field{Type: graphql.String},
				"email": &graphql.Field{Type: graphql.String},
				"profile": &graphql.Field{
					Type:    graphql.NewList(profileType),
					Resolve: r.clientProfile,
				},
			}
		}),
	})
	profileType = graphql.NewObject(graphql.ObjectConfig{
		Name: "profile",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":  &graphql.Field{Type: graphql.String},
				"bio": &graphql.Field{Type: graphql.String},
				"client": &graphql.Field{
					Type:    clientType,
					Resolve: r.profileClient,
				},
			}
		}),
	})
	return clientType, profileType
}

func (r *Resolver) queryType(clientType, profileType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"singleClient": &graphql.Field{
				Type:    clientType,
				Args:    requiredStrings("id"),
				Resolve: r.singleClient,
			},
			"manyClients": &graphql.Field{
				Type:    graphql.NewList(clientType),
				Resolve: r.manyClients,
			},
			"singleProfile": &graphql.Field{
				Type:    profileType,
				Args:    requiredStrings("id"),
				Resolve: r.singleProfile,
			},
			"manyProfiles": &graphql.Field{
				Type:    graphql.NewList(profileType),
				Resolve: r.manyProfiles,
			},
		},
	})
}

func (r *Resolver) mutationType(clientType, profileType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createClient": &graphql.Field{
				Type:    clientType,
				Args:    requiredStrings("name", "email"),
				Resolve: r.createClient,
			},
			"createProfile": &graphql.Field{
				Type:    profileType,
				Args:    requiredStrings("bio", "client_id"),
				Resolve: r.createProfile,
			},
			"deleteClient": &graphql.Field{
				Type:    clientType,
				Args:    requiredStrings("id"),
				Resolve: r.deleteClient,
			},
		},
	})
}

func requiredStrings(names ...string) graphql.FieldConfigArgument {
	args := make(graphql.FieldConfigArgument, len(names))
	for _, name := range names {
		args[name] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	}
	return args
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func contextOf(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}
