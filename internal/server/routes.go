package server

import "net/http"

// Routes registers every handler and wraps the mux with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/api/facets", s.HandleFacets)
	mux.HandleFunc("/api/view", s.HandleView)
	mux.HandleFunc("/api/features", s.HandleFeatures)
	mux.HandleFunc("/api/reload", s.HandleReload)
	mux.HandleFunc("/tiles/", s.HandleTile)
	mux.Handle("/metrics", s.Metrics.Handler())
	mux.HandleFunc("/favicon.ico", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
