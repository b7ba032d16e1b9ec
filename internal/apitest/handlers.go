package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	intFields  = map[string]bool{"place_id": true, "store_type_id": true, "role_id": true, "user_id": true}
	boolFields = map[string]bool{"maintenance_mode": true, "is_active": true, "is_verified": true, "is_featured": true}
)

func (s *Server) list(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		items := s.collections[res].list()
		s.mu.Unlock()
		writeData(w, http.StatusOK, items)
	}
}

func (s *Server) show(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		item, found := s.Item(res, id)
		if !found {
			writeMessage(w, http.StatusNotFound, notFound(res))
			return
		}
		writeData(w, http.StatusOK, item)
	}
}

func (s *Server) create(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := s.payload(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		item := copyMap(s.collections[res].insert(payload))
		s.mu.Unlock()
		writeData(w, http.StatusCreated, item)
	}
}

func (s *Server) update(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		payload, err := s.payload(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		item := s.collections[res].update(id, payload)
		var out map[string]any
		if item != nil {
			out = copyMap(item)
		}
		s.mu.Unlock()
		if out == nil {
			writeMessage(w, http.StatusNotFound, notFound(res))
			return
		}
		writeData(w, http.StatusOK, out)
	}
}

func (s *Server) remove(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		removed := s.collections[res].remove(id)
		s.mu.Unlock()
		if !removed {
			writeMessage(w, http.StatusNotFound, notFound(res))
			return
		}
		writeMessage(w, http.StatusOK, "deleted")
	}
}

func (s *Server) listAreas(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.collections[Areas].list()
	for _, item := range items {
		s.attachPlaceLocked(item)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, items)
}

func (s *Server) areasByPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	var out []map[string]any
	for _, item := range s.collections[Areas].list() {
		if toInt64(item["place_id"]) == id {
			s.attachPlaceLocked(item)
			out = append(out, item)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) attachPlaceLocked(area map[string]any) {
	place, _ := s.collections[Places].find(toInt64(area["place_id"]))
	if place == nil {
		return
	}
	area["place"] = map[string]any{"id": place["id"], "name": place["name"], "address": place["address"]}
}

func (s *Server) createPlace(w http.ResponseWriter, r *http.Request) {
	payload, err := s.payload(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	ids := payload["store_type_ids"]
	delete(payload, "store_type_ids")
	item := s.collections[Places].insert(payload)
	item["storeTypes"] = s.linksLocked(toInt64(item["id"]), ids)
	out := copyMap(item)
	s.mu.Unlock()
	writeData(w, http.StatusCreated, out)
}

func (s *Server) updatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payload, err := s.payload(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	ids, hasIDs := payload["store_type_ids"]
	delete(payload, "store_type_ids")
	item := s.collections[Places].update(id, payload)
	var out map[string]any
	if item != nil {
		if hasIDs {
			item["storeTypes"] = s.linksLocked(id, ids)
		}
		out = copyMap(item)
	}
	s.mu.Unlock()
	if out == nil {
		writeMessage(w, http.StatusNotFound, notFound(Places))
		return
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) linksLocked(placeID int64, raw any) []map[string]any {
	values, _ := raw.([]any)
	links := make([]map[string]any, 0, len(values))
	for i, v := range values {
		typeID := toInt64(v)
		link := map[string]any{"id": int64(i + 1), "place_id": placeID, "store_type_id": typeID}
		if st, _ := s.collections[StoreTypes].find(typeID); st != nil {
			link["storeType"] = map[string]any{"id": st["id"], "name_ar": st["name_ar"], "name_en": st["name_en"]}
		}
		links = append(links, link)
	}
	return links
}

func (s *Server) createStore(w http.ResponseWriter, r *http.Request) {
	payload, err := s.payload(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, flag := range []string{"is_active", "is_verified", "is_featured"} {
		if _, ok := payload[flag]; !ok {
			payload[flag] = flag == "is_active"
		}
	}
	s.mu.Lock()
	item := copyMap(s.collections[Stores].insert(payload))
	s.mu.Unlock()
	writeData(w, http.StatusCreated, item)
}

func (s *Server) storesByType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := []map[string]any{}
	for _, item := range s.collections[Stores].list() {
		if toInt64(item["store_type_id"]) == id {
			out = append(out, item)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]any{"stores": out})
}

func (s *Server) flip(flag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		item, _ := s.collections[Stores].find(id)
		var value bool
		if item != nil {
			current, _ := item[flag].(bool)
			value = !current
			item[flag] = value
		}
		s.mu.Unlock()
		if item == nil {
			writeMessage(w, http.StatusNotFound, notFound(Stores))
			return
		}
		writeData(w, http.StatusOK, map[string]any{flag: value})
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	roleID := toInt64(r.URL.Query().Get("role_id"))
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

	s.mu.Lock()
	out := []map[string]any{}
	for _, item := range s.collections[Users].list() {
		if roleID > 0 && toInt64(item["role_id"]) != roleID {
			continue
		}
		if search != "" && !matchesUser(item, search) {
			continue
		}
		out = append(out, item)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func matchesUser(item map[string]any, search string) bool {
	for _, field := range []string{"name", "email", "phone"} {
		if v, _ := item[field].(string); strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

func (s *Server) usersByRole(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	out := []map[string]any{}
	for _, item := range s.collections[Users].list() {
		if roleName(item) == name {
			out = append(out, item)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) userStatistics(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := s.collections[Users].list()
	stores := s.collections[Stores].list()
	s.mu.Unlock()

	byRole := map[string]int64{}
	owners := map[int64]bool{}
	for _, st := range stores {
		owners[toInt64(st["user_id"])] = true
	}
	var withStore int64
	for _, u := range users {
		if name := roleName(u); name != "" {
			byRole[name]++
		}
		if owners[toInt64(u["id"])] {
			withStore++
		}
	}
	writeData(w, http.StatusOK, map[string]any{
		"total_users":      len(users),
		"users_by_role":    byRole,
		"users_with_store": withStore,
	})
}

func roleName(user map[string]any) string {
	role, _ := user["role"].(map[string]any)
	name, _ := role["role"].(string)
	return name
}

func (s *Server) currentSetting(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.collections[Settings].list()
	s.mu.Unlock()
	if len(items) == 0 {
		writeData(w, http.StatusOK, nil)
		return
	}
	writeData(w, http.StatusOK, items[0])
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		matched := (body.Email != "" && body.Email == acc.email) || (body.Phone != "" && body.Phone == acc.phone)
		if matched && body.Password == acc.password {
			writeJSON(w, http.StatusOK, map[string]any{"user": copyMap(s.profile), "token": s.token})
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	user := map[string]any{"name": body.Name, "role": map[string]any{"id": int64(4), "role": "user"}}
	acc := account{password: body.Password}
	if strings.Contains(body.Identifier, "@") {
		user["email"], acc.email = body.Identifier, body.Identifier
	} else {
		user["phone"], acc.phone = body.Identifier, body.Identifier
	}

	s.mu.Lock()
	for _, existing := range s.accounts {
		if (acc.email != "" && existing.email == acc.email) || (acc.phone != "" && existing.phone == acc.phone) {
			s.mu.Unlock()
			writeMessage(w, http.StatusConflict, "User already exists")
			return
		}
	}
	s.accounts = append(s.accounts, acc)
	stored := copyMap(s.collections[Users].insert(user))
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"user": stored})
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": s.Profile()})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	payload, err := s.payload(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	for k, v := range payload {
		s.profile[k] = v
	}
	out := copyMap(s.profile)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": out})
}

// payload reads a JSON or multipart body into a map. Multipart ids and flags
// are coerced to numbers and booleans, and files become stored URLs.
func (s *Server) payload(r *http.Request) (map[string]any, error) {
	out := map[string]any{}
	if !isMultipart(r) {
		if r.ContentLength == 0 {
			return out, nil
		}
		if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("invalid json body: %w", err)
		}
		return out, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	for name, values := range r.MultipartForm.Value {
		if len(values) == 0 {
			continue
		}
		out[name] = coerce(name, values[0])
	}
	for name, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		s.mu.Lock()
		s.uploads++
		n := s.uploads
		s.mu.Unlock()
		out[name] = fmt.Sprintf("https://cdn.example.test/uploads/%d/%s", n, headers[0].Filename)
	}
	return out, nil
}

func coerce(name, value string) any {
	switch {
	case intFields[name]:
		return toInt64(value)
	case boolFields[name]:
		b, _ := strconv.ParseBool(value)
		return b
	default:
		return value
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func notFound(res Resource) string {
	return fmt.Sprintf("%s not found", strings.TrimSuffix(string(res), "s"))
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
