package handler

import (
	"github.com/graphql-go/graphql"
	log "go-micro.dev/v5/logger"

	"clientgraph/store"
)

// singleProfile handles fetching a profile by ID. Unknown IDs resolve to null.
func (r *Resolver) singleProfile(p graphql.ResolveParams) (interface{}, error) {
	id := stringArg(p, "id")
	log.Infof("Received SingleProfile request for ID: %s", id)

	pr, err := r.Store.Profile.FindUnique(contextOf(p), id)
	if err != nil {
		log.Errorf("Failed to get profile: %v", err)
		return nil, apiError("singleProfile", err)
	}
	if pr == nil {
		log.Infof("Profile not found: %s", id)
		return nil, nil
	}
	return pr, nil
}

// manyProfiles handles listing all profiles
func (r *Resolver) manyProfiles(p graphql.ResolveParams) (interface{}, error) {
	log.Info("Received ManyProfiles request")

	profiles, err := r.Store.Profile.FindMany(contextOf(p))
	if err != nil {
		log.Errorf("Failed to list profiles: %v", err)
		return nil, apiError("manyProfiles", err)
	}
	log.Infof("Listed %d profiles", len(profiles))
	return profiles, nil
}

// createProfile links a new profile to an existing client
func (r *Resolver) createProfile(p graphql.ResolveParams) (interface{}, error) {
	bio, clientID := stringArg(p, "bio"), stringArg(p, "client_id")
	log.Infof("Received CreateProfile request for client: %s", clientID)

	pr, err := r.Store.CreateProfile(contextOf(p), bio, clientID)
	if store.IsConstraintError(err) {
		log.Errorf("Constraint violation: %v", err)
		return nil, apiError("createProfile", err)
	}
	if err != nil {
		log.Errorf("Failed to create profile: %v", err)
		return nil, apiError("createProfile", err)
	}
	log.Infof("Profile created successfully: %s", pr.ID)
	return pr, nil
}

// profileClient resolves profile.client through the profile's client_id.
func (r *Resolver) profileClient(p graphql.ResolveParams) (interface{}, error) {
	pr, ok := p.Source.(*store.Profile)
	if !ok || pr == nil {
		return nil, nil
	}
	c, err := r.Store.Profile.QueryClient(contextOf(p), pr.ID)
	if err != nil {
		log.Errorf("Failed to load client of profile %s: %v", pr.ID, err)
		return nil, apiError("profile.client", err)
	}
	if c == nil {
		return nil, nil
	}
	return c, nil
}
