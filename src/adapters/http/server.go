package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"accountgraph/src/services/relationships"

	"time"
)

// Server representa o servidor HTTP da API
type Server struct {
	logger              *slog.Logger
	server              *http.Server
	mux                 *http.ServeMux
	port                int
	relationshipService *relationships.RelationshipService
}

// NewServer cria uma nova instância do servidor
func NewServer(
	logger *slog.Logger,
	port int,
	relationshipService *relationships.RelationshipService,
) *Server {
	server := &Server{
		mux:                 http.NewServeMux(),
		port:                port,
		logger:              logger,
		relationshipService: relationshipService,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Rotas de Leitura
	server.mux.HandleFunc("GET /v1/accounts/{id}/relationships", server.GetRelationships)
	server.mux.HandleFunc("GET /v1/accounts/{id}/relationships/ancestors", server.GetAncestors)
	server.mux.HandleFunc("GET /v1/accounts/{id}/relationships/descendants", server.GetDescendants)
	server.mux.HandleFunc("GET /v1/accounts/{id}/hierarchy", server.GetHierarchy)
	server.mux.HandleFunc("GET /v1/relationships/check-circular", server.CheckCircular)

	// Rotas de Escrita
	server.mux.HandleFunc("POST /v1/accounts/{id}/relationships", server.AddRelationship)
	server.mux.HandleFunc("DELETE /v1/accounts/{id}/relationships/{relationshipId}", server.RemoveRelationship)
	server.mux.HandleFunc("DELETE /v1/accounts/{id}/relationships", server.RemoveAccountRelationships)

	return server
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
