// Package server serves an executable GraphQL schema as a go-micro web service.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	log "go-micro.dev/v5/logger"
	"go-micro.dev/v5/registry"
	"go-micro.dev/v5/web"
)

const serviceName = "clientgraph"

// Options configures the web service.
type Options struct {
	Addr     string
	GraphiQL bool
	// Registry selects the service registry: "memory" keeps registration
	// in process, anything else uses the go-micro default (mdns).
	Registry string
}

// New returns a web service serving schema. Run blocks until ctx is done
// or the process receives SIGINT/SIGTERM.
func New(ctx context.Context, schema *graphql.Schema, opts Options) web.Service {
	options := []web.Option{
		web.Name(serviceName),
		web.Version("latest"),
		web.Address(opts.Addr),
		web.Handler(Handler(schema, opts.GraphiQL)),
		web.Context(ctx),
		web.HandleSignal(true),
		web.Metadata(map[string]string{
			"StartTime": time.Now().String(),
		}),
		web.BeforeStart(func() error {
			log.Info("Client graph service starting...")
			return nil
		}),
		web.AfterStart(func() error {
			log.Infof("Client graph service running on %s", opts.Addr)
			return nil
		}),
		web.AfterStop(func() error {
			log.Info("Client graph service stopped")
			return nil
		}),
	}
	if opts.Registry == "memory" {
		options = append(options, web.Registry(registry.NewMemoryRegistry()))
	}
	return web.NewService(options...)
}

// Handler routes GraphQL requests on / and /graphql and answers /health.
func Handler(schema *graphql.Schema, graphiql bool) http.Handler {
	gql := gqlhandler.New(&gqlhandler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: graphiql,
	})

	mux := http.NewServeMux()
	mux.Handle("/", gql)
	mux.Handle("/graphql", gql)
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
