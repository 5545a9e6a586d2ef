package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/pkg/result"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listQueries(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queries := make([]Query, 0, len(s.queries))
	for _, q := range s.queries {
		queries = append(queries, q)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"queries": queries,
		"count":   len(queries),
	})
}

func (s *Server) executeQuery(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.RLock()
	q, exists := s.queries[name]
	s.mu.RUnlock()

	if !exists {
		http.Error(w, "query not found", http.StatusNotFound)
		return
	}

	opts := append([]result.Option{
		result.WithLogger(s.logger),
		result.WithTypeProcessors(result.DefaultTypeProcessors),
	}, q.resultOpts...)
	rows, err := result.Query(r.Context(), s.db, q.SQL, nil, opts...)
	if err != nil {
		s.logger.Error("query failed", zap.String("name", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	all, err := rows.All()
	if err != nil {
		s.logger.Error("fetch failed", zap.String("name", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]map[string]any, 0, len(all))
	for _, rr := range all {
		doc, err := rr.AsMap()
		if err != nil {
			// Duplicate labels cannot round trip through a JSON object.
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		docs = append(docs, doc)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"query": q.SQL,
		"count": len(docs),
		"rows":  docs,
	})
}
