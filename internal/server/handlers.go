// Package server translates browser events into filter and render calls
// and serves the page, its API and mirrored tiles.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/obras"
	"github.com/woozymasta/obrasmap/internal/processor"
	"github.com/woozymasta/obrasmap/internal/view"

	"github.com/rs/zerolog/log"
)

const (
	etagCap     = 64
	maxViewport = 10000
	mirrorURL   = "/tiles/{z}/{x}/{y}.webp"
)

type status struct {
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

type tilesInfo struct {
	URL        string   `json:"url"`
	Subdomains []string `json:"subdomains,omitempty"`
}

type configResponse struct {
	Labels      config.Labels    `json:"labels"`
	Tiles       tilesInfo        `json:"tiles"`
	Title       string           `json:"title"`
	Attribution string           `json:"attribution"`
	Initial     view.InitialView `json:"initial"`
	status
}

type facetsResponse struct {
	Localities []obras.Option `json:"localidades"`
	Organisms  []obras.Option `json:"organismos"`
	Types      []obras.Option `json:"tipos"`
	status
}

type viewResponse struct {
	Markers []view.Marker `json:"markers"`
	Filter  obras.Filter  `json:"filter"`
	Camera  view.Camera   `json:"camera"`
	Count   int           `json:"count"`
	status
}

func (s *ServerContext) status() status {
	_, loaded := s.Store.Features()
	st := status{Loaded: loaded}
	if err := s.Store.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// HandleConfig serves the client bootstrap settings.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	tiles := tilesInfo{URL: s.Config.Tiles.URL, Subdomains: s.Config.Tiles.Subdomains}
	if s.Config.Tiles.Mirror {
		tiles = tilesInfo{URL: mirrorURL}
	}

	writeJSON(w, http.StatusOK, configResponse{
		Title:       s.Config.Title,
		Attribution: s.Config.Attribution,
		Initial:     s.Controller.Options().Initial,
		Tiles:       tiles,
		Labels:      s.Config.Labels,
		status:      s.status(),
	})
}

// HandleFacets serves the selector options. While the dataset is not loaded
// only the wildcard entries are returned.
func (s *ServerContext) HandleFacets(w http.ResponseWriter, r *http.Request) {
	facets, _ := s.Controller.Facets()
	labels := s.Config.Labels

	writeJSON(w, http.StatusOK, facetsResponse{
		Localities: obras.Options(facets.Localities, labels.AllLocalities),
		Organisms:  obras.Options(facets.Organisms, labels.AllOrganisms),
		Types:      obras.Options(facets.Types, labels.AllTypes),
		status:     s.status(),
	})
}

// HandleView filters the dataset and returns the markers and camera to show.
// Without parameters it is the cleared-filters view.
func (s *ServerContext) HandleView(w http.ResponseWriter, r *http.Request) {
	filter := s.parseFilter(r)
	size := parseSize(r)

	mv := view.NewMapView(s.Controller.Options().Initial)
	n, ok := s.Controller.Apply(mv, filter, size)
	if ok {
		s.Metrics.views.WithLabelValues(string(mv.Camera().Mode)).Inc()
		s.Metrics.results.Observe(float64(n))
	}

	writeJSON(w, http.StatusOK, viewResponse{
		Markers: mv.Markers(),
		Filter:  filter,
		Camera:  mv.Camera(),
		Count:   n,
		status:  s.status(),
	})
}

// HandleFeatures returns the filtered works as GeoJSON.
func (s *ServerContext) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	matched, _ := s.Controller.Select(s.parseFilter(r))

	w.Header().Set("Content-Type", "application/geo+json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(obras.ToCollection(matched))
}

// HandleReload runs the data source again.
func (s *ServerContext) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, s.status())
		return
	}

	writeJSON(w, http.StatusOK, s.status())
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/favicon.ico" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleTile serves mirrored tiles, falling back to a transparent tile.
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	// Path: /tiles/{z}/{x}/{y}.webp
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || !strings.HasSuffix(parts[3], ".webp") {
		http.NotFound(w, r)
		return
	}

	coords := [3]uint32{}
	for i, p := range []string{parts[1], parts[2], strings.TrimSuffix(parts[3], ".webp")} {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		coords[i] = uint32(v)
	}

	path := processor.TilePath(s.Config.Tiles.Dir, coords[0], coords[1], coords[2])
	if s.serveFile(w, r, path, "image/webp") {
		return
	}

	// cache transparent tile
	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(s.TransparentTile)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, filepath.Clean(path))
	return true
}

// parseFilter reads the selector state from the query string. Configured
// wildcard labels ("Todas", "Todos") are accepted in place of All.
func (s *ServerContext) parseFilter(r *http.Request) obras.Filter {
	q := r.URL.Query()
	labels := s.Config.Labels

	pick := func(keys ...string) string {
		for _, k := range keys {
			if v := q.Get(k); v != "" {
				if labels.IsWildcardLabel(v) {
					return obras.All
				}
				return v
			}
		}
		return ""
	}

	return obras.Filter{
		Locality: pick("localidad", "locality"),
		Organism: pick("organismo", "organism"),
		Type:     pick("tipo", "type"),
		Search:   q.Get("q"),
	}
}

func parseSize(r *http.Request) view.Size {
	q := r.URL.Query()
	w, errW := strconv.ParseFloat(q.Get("w"), 64)
	h, errH := strconv.ParseFloat(q.Get("h"), 64)

	if errW != nil || errH != nil || w <= 0 || h <= 0 || w > maxViewport || h > maxViewport {
		return view.DefaultSize
	}
	return view.Size{Width: w, Height: h}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}
