package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/recipes/internal/domain"
	"github.com/pbaille/recipes/internal/importer"
	"github.com/pbaille/recipes/internal/keyedarchive"
	"github.com/pbaille/recipes/internal/plist"
	"github.com/pbaille/recipes/internal/store"
)

const (
	// maxArchiveSize bounds uploaded archives (32MB)
	maxArchiveSize = 32 << 20

	// importTimeout bounds an upload's import once the body is read
	importTimeout = 5 * time.Minute
)

// Server handles HTTP requests for the recipe database
type Server struct {
	store      *store.Store
	addr       string
	importOpts []importer.Option
	decodeOpts []keyedarchive.Option
}

// New creates a new API server
func New(s *store.Store, addr string) *Server {
	return &Server{store: s, addr: addr}
}

// WithImportOptions sets the options used for uploaded archives
func (s *Server) WithImportOptions(decode []keyedarchive.Option, imp []importer.Option) *Server {
	s.decodeOpts = decode
	s.importOpts = imp
	return s
}

// Handler returns the routed handler without starting a listener
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Recipes
	mux.HandleFunc("GET /categories", s.listCategories)
	mux.HandleFunc("GET /recipes", s.listRecipes)
	mux.HandleFunc("GET /recipes/{id}", s.getRecipe)
	mux.HandleFunc("GET /ingredients", s.listIngredients)

	// Search
	mux.HandleFunc("GET /search", s.searchRecipes)

	// Imports
	mux.HandleFunc("POST /imports", s.importArchive)
	mux.HandleFunc("POST /imports/preview", s.previewArchive)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run starts the HTTP server, accepting HTTP/2 without TLS
func (s *Server) Run() error {
	log.Printf("starting server on %s", s.addr)
	return http.ListenAndServe(s.addr, h2c.NewHandler(s.Handler(), &http2.Server{}))
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	category := r.URL.Query().Get("category")

	recipes, err := s.store.ListRecipes(category, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	// Support prefix matching
	id, err := s.store.ResolveRecipeID(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	recipe, err := s.store.GetRecipe(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.ListIngredients()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ingredients": ingredients,
	})
}

func (s *Server) searchRecipes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	recipes, err := s.store.SearchRecipes(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"query":   query,
	})
}

// ImportResponse is the response for an archive import
type ImportResponse struct {
	Boxes    int `json:"boxes"`
	Imported int `json:"imported"`
}

func (s *Server) importArchive(w http.ResponseWriter, r *http.Request) {
	boxes, ok := s.readArchive(w, r)
	if !ok {
		return
	}

	imp, err := importer.New(s.store, boxes, s.importOpts...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// A client hanging up must not leave the archive half imported.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), importTimeout)
	defer cancel()

	err = imp.Run(ctx, func(i *importer.RecipeImporter) {
		log.Printf("import: %.0f%% (%d/%d recipes)", i.PercentDone()*100, i.NumImported(), i.Total())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, ImportResponse{Boxes: len(boxes), Imported: imp.NumImported()})
}

func (s *Server) previewArchive(w http.ResponseWriter, r *http.Request) {
	boxes, ok := s.readArchive(w, r)
	if !ok {
		return
	}

	out, err := yaml.Marshal(map[string][]domain.RecipeBox{"recipe_boxes": boxes})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// readArchive decodes the request body as a recipe archive. It writes the
// error response itself and reports whether the caller should continue.
func (s *Server) readArchive(w http.ResponseWriter, r *http.Request) ([]domain.RecipeBox, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxArchiveSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "archive body is required")
		return nil, false
	}
	if len(body) > maxArchiveSize {
		writeError(w, http.StatusRequestEntityTooLarge, "archive too large")
		return nil, false
	}

	raw, err := plist.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	boxes, err := importer.Decode(raw, s.decodeOpts...)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return boxes, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "recipe not found")
	case errors.Is(err, store.ErrAmbiguous):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
