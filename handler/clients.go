package handler

import (
	"github.com/graphql-go/graphql"
	log "go-micro.dev/v5/logger"

	"clientgraph/store"
)

// singleClient handles fetching a client by ID. Unknown IDs resolve to null.
func (r *Resolver) singleClient(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p, "id")
	log.Infof("Received SingleClient request for ID: %s", id)

	c, err := r.Store.Client.FindUnique(contextOf(p), id)
	if err != nil {
		log.Errorf("Failed to get client: %v", err)
		return nil, apiError("singleClient", err)
	}
	if c == nil {
		log.Infof("Client not found: %s", id)
		return nil, nil
	}
	return c, nil
}

// manyClients handles listing all clients
func (r *Resolver) manyClients(p graphql.ResolveParams) (interface{}, error) {
	log.Info("Received ManyClients request")

	clients, err := r.Store.Client.FindMany(contextOf(p))
	if err != nil {
		log.Errorf("Failed to list clients: %v", err)
		return nil, apiError("manyClients", err)
	}
	log.Infof("Listed %d clients", len(clients))
	return clients, nil
}

// createClient handles the creation of a new client
func (r *Resolver) createClient(p graphql.ResolveParams) (interface{}, error) {
	name, email := stringArg(p, "name"), stringArg(p, "email")
	log.Infof("Received CreateClient request for name: %s, email: %s", name, email)

	c, err := r.Store.Client.Create(contextOf(p), name, email)
	if err != nil {
		log.Errorf("Failed to create client: %v", err)
		return nil, apiError("createClient", err)
	}
	log.Infof("Client created successfully: %s", c.ID)
	return c, nil
}

// deleteClient removes the client's profile and then the client, in one
// transaction, and returns the deleted record.
func (r *Resolver) deleteClient(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p, "id")
	log.Infof("Received DeleteClient request for ID: %s", id)

	c, err := r.Store.DeleteClient(contextOf(p), id)
	if store.IsNotFound(err) {
		log.Infof("Client not found for deletion: %s", id)
		return nil, apiError("deleteClient", err)
	}
	if err != nil {
		log.Errorf("Failed to delete client: %v", err)
		return nil, apiError("deleteClient", err)
	}
	log.Infof("Client deleted successfully: %s", c.ID)
	return c, nil
}

// clientProfile resolves client.profile. The list holds at most one profile.
func (r *Resolver) clientProfile(p graphql.ResolveParams) (interface{}, error) {
	c, ok := p.Source.(*store.Client)
	if !ok || c == nil {
		return nil, nil
	}
	profiles, err := r.Store.Client.QueryProfile(contextOf(p), c.ID)
	if err != nil {
		log.Errorf("Failed to load profile of client %s: %v", c.ID, err)
		return nil, apiError("client.profile", err)
	}
	return profiles, nil
}
