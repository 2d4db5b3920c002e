// Package fakebaas serves in-memory stand-ins for the BaaS and media CDN
// HTTP APIs, for tests.
package fakebaas

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	json "github.com/json-iterator/go"
)

// BaaS is an in-memory stand-in for the BaaS REST API, good enough for
// the queries the api package sends.
type BaaS struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]interface{}
	order    map[string][]string
	files    map[string]bool
	accounts map[string]map[string]string
	sessions map[string]string
	seq      int
	requests []string

	// fail, when set, may answer a request with an error status
	fail func(r *http.Request) int
}

func New() *BaaS {
	return &BaaS{
		docs:     make(map[string]map[string]map[string]interface{}),
		order:    make(map[string][]string),
		files:    make(map[string]bool),
		accounts: make(map[string]map[string]string),
		sessions: make(map[string]string),
	}
}

func (f *BaaS) nextTime() string {
	f.seq++
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(f.seq) * time.Second).Format("2006-01-02T15:04:05.000Z")
}

// Put inserts a document directly and returns its id
func (f *BaaS) Put(col, id string, data map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		id = baas.UniqueID()
	}
	f.insert(col, id, data)
	return id
}

func (f *BaaS) insert(col, id string, data map[string]interface{}) map[string]interface{} {
	if f.docs[col] == nil {
		f.docs[col] = make(map[string]map[string]interface{})
	}
	now := f.nextTime()
	doc := map[string]interface{}{}
	for k, v := range data {
		doc[k] = v
	}
	doc["$id"] = id
	doc["$collectionId"] = col
	doc["$databaseId"] = "db"
	doc["$createdAt"] = now
	doc["$updatedAt"] = now
	f.docs[col][id] = doc
	f.order[col] = append(f.order[col], id)
	return doc
}

// SeedUser stores a profile the way SignUp would
func (f *BaaS) SeedUser(id, username string) {
	f.Put("users", id, map[string]interface{}{
		"userId":    id,
		"username":  username,
		"name":      strings.ToUpper(username),
		"followers": []interface{}{},
		"following": []interface{}{},
	})
}

func (f *BaaS) Doc(col, id string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[col][id]
}

func (f *BaaS) Count(col string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[col])
}

func (f *BaaS) HasFile(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[id]
}

// Mutations counts create, update and delete requests on a collection
func (f *BaaS) Mutations(col string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		parts := strings.SplitN(r, " ", 2)
		if parts[0] != http.MethodGet && parts[1] == col {
			n++
		}
	}
	return n
}

func (f *BaaS) SetFail(fn func(r *http.Request) int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fn
}

func (f *BaaS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail != nil {
		if status := fail(r); status != 0 {
			writeError(w, status, "forced failure")
			return
		}
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1"), "/"), "/")
	switch {
	case parts[0] == "databases" && len(parts) >= 5:
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+parts[3])
		f.mu.Unlock()
		id := ""
		if len(parts) == 6 {
			id = parts[5]
		}
		f.documents(w, r, parts[3], id)
	case parts[0] == "storage" && len(parts) >= 4:
		id := ""
		if len(parts) == 5 {
			id = parts[4]
		}
		f.storage(w, r, parts[2], id)
	case parts[0] == "account":
		f.account(w, r, strings.Join(parts[1:], "/"))
	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"message": msg, "code": status, "type": "fake_error"})
}

type fakeQuery struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute"`
	Values    []interface{} `json:"values"`
}

func (f *BaaS) documents(w http.ResponseWriter, r *http.Request, col, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && id == "":
		var body struct {
			DocumentID  string                 `json:"documentId"`
			Data        map[string]interface{} `json:"data"`
			Permissions []string               `json:"permissions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, exists := f.docs[col][body.DocumentID]; exists {
			writeError(w, http.StatusConflict, "document already exists")
			return
		}
		doc := f.insert(col, body.DocumentID, body.Data)
		doc["$permissions"] = body.Permissions
		writeJSON(w, http.StatusCreated, doc)

	case r.Method == http.MethodGet && id == "":
		f.list(w, r, col)

	case r.Method == http.MethodGet:
		doc, ok := f.docs[col][id]
		if !ok {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case r.Method == http.MethodPatch:
		doc, ok := f.docs[col][id]
		if !ok {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for k, v := range body.Data {
			doc[k] = v
		}
		doc["$updatedAt"] = f.nextTime()
		writeJSON(w, http.StatusOK, doc)

	case r.Method == http.MethodDelete:
		if _, ok := f.docs[col][id]; !ok {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		delete(f.docs[col], id)
		ids := f.order[col][:0]
		for _, v := range f.order[col] {
			if v != id {
				ids = append(ids, v)
			}
		}
		f.order[col] = ids
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (f *BaaS) list(w http.ResponseWriter, r *http.Request, col string) {
	var queries []fakeQuery
	for _, raw := range r.URL.Query()["queries[]"] {
		var q fakeQuery
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid query")
			return
		}
		queries = append(queries, q)
	}

	var matched []map[string]interface{}
	for _, id := range f.order[col] {
		doc := f.docs[col][id]
		if matchAll(doc, queries) {
			matched = append(matched, doc)
		}
	}

	for i := len(queries) - 1; i >= 0; i-- {
		q := queries[i]
		if q.Method != "orderAsc" && q.Method != "orderDesc" {
			continue
		}
		desc := q.Method == "orderDesc"
		sort.SliceStable(matched, func(a, b int) bool {
			x, y := str(matched[a][q.Attribute]), str(matched[b][q.Attribute])
			if desc {
				return x > y
			}
			return x < y
		})
	}

	total := len(matched)
	limit := 25
	for _, q := range queries {
		switch q.Method {
		case "cursorAfter":
			cursor := str(q.Values[0])
			for i, doc := range matched {
				if doc["$id"] == cursor {
					matched = matched[i+1:]
					break
				}
			}
		case "offset":
			n := int(q.Values[0].(float64))
			if n > len(matched) {
				n = len(matched)
			}
			matched = matched[n:]
		case "limit":
			limit = int(q.Values[0].(float64))
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": total, "documents": matched})
}

func str(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func matchAll(doc map[string]interface{}, queries []fakeQuery) bool {
	for _, q := range queries {
		val := doc[q.Attribute]
		switch q.Method {
		case "equal":
			if !anyEqual(val, q.Values) {
				return false
			}
		case "notEqual":
			if anyEqual(val, q.Values) {
				return false
			}
		case "contains":
			if !containsAny(val, q.Values) {
				return false
			}
		case "startsWith":
			if !strings.HasPrefix(str(val), str(q.Values[0])) {
				return false
			}
		case "search":
			if !strings.Contains(strings.ToLower(str(val)), strings.ToLower(str(q.Values[0]))) {
				return false
			}
		case "isNull":
			if val != nil {
				return false
			}
		}
	}
	return true
}

func anyEqual(val interface{}, values []interface{}) bool {
	for _, v := range values {
		if str(val) == str(v) {
			return true
		}
	}
	return false
}

func containsAny(val interface{}, values []interface{}) bool {
	switch list := val.(type) {
	case []interface{}:
		for _, item := range list {
			if anyEqual(item, values) {
				return true
			}
		}
	case string:
		for _, v := range values {
			if strings.Contains(list, str(v)) {
				return true
			}
		}
	}
	return false
}

func (f *BaaS) storage(w http.ResponseWriter, r *http.Request, bucket, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && id == "":
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		file.Close()
		fileID := r.FormValue("fileId")
		f.files[fileID] = true
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"$id":          fileID,
			"bucketId":     bucket,
			"name":         header.Filename,
			"sizeOriginal": header.Size,
		})
	case r.Method == http.MethodDelete:
		if !f.files[id] {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		delete(f.files, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (f *BaaS) account(w http.ResponseWriter, r *http.Request, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]string
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch) {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	current := f.sessions[r.Header.Get("X-Appwrite-Session")]

	switch {
	case r.Method == http.MethodPost && path == "":
		for _, acc := range f.accounts {
			if acc["email"] == body["email"] {
				writeError(w, http.StatusConflict, "user already exists")
				return
			}
		}
		f.accounts[body["userId"]] = body
		writeJSON(w, http.StatusCreated, map[string]interface{}{"$id": body["userId"], "email": body["email"], "name": body["name"]})

	case r.Method == http.MethodPost && path == "sessions/email":
		for id, acc := range f.accounts {
			if acc["email"] == body["email"] && acc["password"] == body["password"] {
				secret := "secret-" + id
				f.sessions[secret] = id
				writeJSON(w, http.StatusCreated, map[string]interface{}{"$id": "sess-" + id, "userId": id, "secret": secret, "current": true})
				return
			}
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")

	case r.Method == http.MethodGet && path == "":
		acc, ok := f.accounts[current]
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing scope")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"$id": current, "email": acc["email"], "name": acc["name"]})

	case r.Method == http.MethodPatch && path == "name":
		acc, ok := f.accounts[current]
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing scope")
			return
		}
		acc["name"] = body["name"]
		writeJSON(w, http.StatusOK, map[string]interface{}{"$id": current, "email": acc["email"], "name": acc["name"]})

	case r.Method == http.MethodPost && path == "jwt":
		if _, ok := f.accounts[current]; !ok {
			writeError(w, http.StatusUnauthorized, "missing scope")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"jwt": fakeJWT(current)})

	case r.Method == http.MethodPatch && path == "password":
		acc, ok := f.accounts[current]
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing scope")
			return
		}
		if acc["password"] != body["oldPassword"] {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		acc["password"] = body["password"]
		writeJSON(w, http.StatusOK, map[string]interface{}{"$id": current, "email": acc["email"], "name": acc["name"]})

	case r.Method == http.MethodDelete && path == "sessions/current":
		delete(f.sessions, r.Header.Get("X-Appwrite-Session"))
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

// fakeJWT builds an unsigned-looking token carrying the claims the BaaS sets
func fakeJWT(userID string) string {
	enc := base64.RawURLEncoding
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	claims, _ := json.Marshal(map[string]interface{}{
		"userId":    userID,
		"sessionId": "sess-" + userID,
		"exp":       time.Now().Add(15 * time.Minute).Unix(),
	})
	return enc.EncodeToString(header) + "." + enc.EncodeToString(claims) + "." + enc.EncodeToString([]byte("fake"))
}

// CDN answers video uploads with a fixed duration and records destroys
type CDN struct {
	mu        sync.Mutex
	duration  float64
	uploads   int
	destroyed []string
}

func (c *CDN) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/video/upload"):
		c.uploads++
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"public_id":     "reels/clip" + strconv.Itoa(c.uploads),
			"secure_url":    "https://cdn.test/clip.mp4",
			"resource_type": "video",
			"format":        "mp4",
			"duration":      c.duration,
			"bytes":         1024,
		})
	case strings.HasSuffix(r.URL.Path, "/video/destroy"):
		_ = r.ParseForm()
		c.destroyed = append(c.destroyed, r.FormValue("public_id"))
		writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

func (c *CDN) SetDuration(d float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
}

func (c *CDN) DestroyedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.destroyed...)
}

func (c *CDN) UploadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploads
}

// NewCDN returns a fake CDN reporting uploads of the given duration
func NewCDN(duration float64) *CDN {
	return &CDN{duration: duration}
}
