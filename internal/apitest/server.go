// Package apitest runs an in-memory stand-in for the marketplace REST API.
// It records every request so tests can assert on method, path, headers and
// body, and it can be told to fail the next call to a path.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// DefaultToken is the bearer token the fake accepts unless Token is changed.
const DefaultToken = "test-token"

const maxMemory = 32 << 20

// Resource names a seeded collection.
type Resource string

const (
	Areas      Resource = "areas"
	Places     Resource = "places"
	StoreTypes Resource = "store-types"
	Stores     Resource = "stores"
	Users      Resource = "users"
	Settings   Resource = "settings"
)

// File is a multipart file part as received.
type File struct {
	Filename    string
	ContentType string
	Size        int
}

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	Form   url.Values
	Files  map[string]File
}

// Bearer returns the token from the Authorization header.
func (r Request) Bearer() string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}

// JSON decodes the recorded JSON body into a generic map.
func (r Request) JSON() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type failure struct {
	status  int
	message string
}

type account struct {
	email    string
	phone    string
	password string
}

// Server is the fake API. It is safe for concurrent use.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	token       string
	requests    []Request
	failures    map[string][]failure
	collections map[Resource]*collection
	accounts    []account
	profile     map[string]any
	uploads     int
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		token:       DefaultToken,
		failures:    map[string][]failure{},
		collections: map[Resource]*collection{},
		profile: map[string]any{
			"id":    int64(1),
			"name":  "Admin",
			"email": "admin@example.com",
			"phone": "0100000000",
			"role":  map[string]any{"id": int64(1), "role": "admin"},
		},
	}
	for _, res := range []Resource{Areas, Places, StoreTypes, Stores, Users, Settings} {
		s.collections[res] = &collection{}
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// SetToken changes the token that login hands out and protected routes
// accept.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Seed inserts items and returns their assigned ids.
func (s *Server) Seed(res Resource, items ...map[string]any) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, toInt64(s.collections[res].insert(item)["id"]))
	}
	return ids
}

// Item returns a copy of a stored item.
func (s *Server) Item(res Resource, id int64) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, _ := s.collections[res].find(id)
	if item == nil {
		return nil, false
	}
	return copyMap(item), true
}

// Len returns the number of stored items.
func (s *Server) Len(res Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[res].items)
}

// AddAccount registers login credentials. Login returns the profile.
func (s *Server) AddAccount(email, phone, password string) {
	s.mu.Lock()
	s.accounts = append(s.accounts, account{email: email, phone: phone, password: password})
	s.mu.Unlock()
}

// Profile returns a copy of the operator profile.
func (s *Server) Profile() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.profile)
}

// FailNext makes the next request to method and path answer with status and
// a {"message": message} body.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
	s.mu.Unlock()
}

// Requests returns every recorded call in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count reports how many calls matched method and path.
func (s *Server) Count(method, path string) int {
	return len(s.Find(method, path))
}

// Find returns the calls that matched method and path.
func (s *Server) Find(method, path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Mutations returns the recorded non-GET calls.
func (s *Server) Mutations() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

// Reset forgets recorded requests but keeps data.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})

	r.Get("/areas", s.listAreas)
	r.Get("/areas/{id}", s.show(Areas))
	r.Get("/areas/place/{id}", s.areasByPlace)
	r.Get("/places", s.list(Places))
	r.Get("/places/{id}", s.show(Places))
	r.Get("/store-types", s.list(StoreTypes))
	r.Get("/store-types/{id}", s.show(StoreTypes))
	r.Get("/stores", s.list(Stores))
	r.Get("/stores/show/{id}", s.show(Stores))
	r.Get("/stores/type/{id}", s.storesByType)
	r.Get("/users/profile/{id}", s.show(Users))
	r.Get("/settings", s.currentSetting)
	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)

		r.Post("/areas/create", s.create(Areas))
		r.Put("/areas/{id}", s.update(Areas))
		r.Delete("/areas/{id}", s.remove(Areas))

		r.Post("/places/create", s.createPlace)
		r.Put("/places/{id}", s.updatePlace)
		r.Delete("/places/{id}", s.remove(Places))

		r.Post("/store-types/create", s.create(StoreTypes))
		r.Put("/store-types/update/{id}", s.update(StoreTypes))
		r.Delete("/store-types/{id}", s.remove(StoreTypes))

		r.Post("/stores/create", s.createStore)
		r.Put("/stores/update/{id}", s.update(Stores))
		r.Delete("/stores/{id}", s.remove(Stores))
		r.Patch("/stores/toggle-status/{id}", s.flip("is_active"))
		r.Patch("/stores/{id}/verify", s.flip("is_verified"))
		r.Patch("/stores/{id}/featured", s.flip("is_featured"))

		r.Get("/users", s.listUsers)
		r.Get("/users/statistics", s.userStatistics)
		r.Get("/users/role/{name}", s.usersByRole)
		r.Get("/users/{id}", s.show(Users))
		r.Delete("/users/{id}", s.remove(Users))

		r.Post("/settings/create", s.create(Settings))
		r.Put("/settings/update/{id}", s.update(Settings))
		r.Patch("/settings/maintenance/{id}", s.update(Settings))

		r.Get("/auth/get-profile", s.getProfile)
		r.Put("/auth/update-profile", s.updateProfile)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		rec := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		}
		if isMultipart(r) {
			parsed := r.Clone(r.Context())
			parsed.Body = io.NopCloser(bytes.NewReader(body))
			if err := parsed.ParseMultipartForm(maxMemory); err == nil {
				rec.Form = parsed.MultipartForm.Value
				rec.Files = map[string]File{}
				for name, headers := range parsed.MultipartForm.File {
					if len(headers) == 0 {
						continue
					}
					h := headers[0]
					rec.Files[name] = File{
						Filename:    h.Filename,
						ContentType: h.Header.Get("Content-Type"),
						Size:        int(h.Size),
					}
				}
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		queued := s.failures[key]
		var fail *failure
		if len(queued) > 0 {
			fail = &queued[0]
			s.failures[key] = queued[1:]
		}
		s.mu.Unlock()

		if fail != nil {
			writeMessage(w, fail.status, fail.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{Header: r.Header}
		if token := rec.Bearer(); token == "" || token != s.Token() {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
