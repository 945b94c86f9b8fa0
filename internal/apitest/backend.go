package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/timex"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type userRecord struct {
	user     models.User
	password string
}

type documentRecord struct {
	meta    models.Document
	content []byte
}

type override struct {
	status int
	body   string
}

// Backend holds the fake server state. All methods are safe for concurrent use.
type Backend struct {
	mu     sync.Mutex
	secret []byte
	now    func() time.Time
	nextID int64

	users     map[int64]*userRecord
	vehicles  map[int64]*models.Vehicle
	updates   map[int64][]models.VehicleUpdate
	documents map[int64]*documentRecord
	triggers  []*models.EmailTrigger
	inbox     []models.EmailTrigger
	failing   map[int64]string
	overrides map[string]override

	brands    *refTable[models.CarBrand]
	carModels *refTable[models.CarModel]
	companies *refTable[models.RentACar]
	locations *refTable[models.StoreLocation]

	authHeaders []string
	hits        map[string]int
}

func New() *Backend {
	b := &Backend{
		secret:    []byte("apitest-secret"),
		now:       time.Now,
		users:     map[int64]*userRecord{},
		vehicles:  map[int64]*models.Vehicle{},
		updates:   map[int64][]models.VehicleUpdate{},
		documents: map[int64]*documentRecord{},
		failing:   map[int64]string{},
		overrides: map[string]override{},
		hits:      map[string]int{},
	}
	b.initRefTables()
	return b
}

// NewServer starts b on an httptest server closed at test cleanup.
func NewServer(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) stamp() timex.Time {
	return timex.NewTime(b.now().UTC().Truncate(time.Second))
}

func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", b.health)
		r.Post("/auth/login", b.login)
		r.Post("/auth/register", b.register)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			b.authRoutes(r)
			b.vehicleRoutes(r)
			b.documentRoutes(r)
			b.triggerRoutes(r)

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)
				b.brands.routes(r)
				b.carModels.routes(r)
				b.companies.routes(r)
				b.locations.routes(r)
			})
		})
	})
	return r
}

// record keeps every Authorization header and serves registered overrides.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
		key := r.Method + " " + r.URL.Path
		b.hits[key]++
		o, ok := b.overrides[key]
		b.mu.Unlock()

		if ok {
			w.WriteHeader(o.status)
			_, _ = w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Override makes method+path (e.g. "GET", "/api/dashboard/stats") answer
// with a fixed status and raw body.
func (b *Backend) Override(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = override{status: status, body: body}
}

func (b *Backend) ClearOverrides() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = map[string]override{}
}

// AuthHeaders returns the Authorization header of every request seen.
func (b *Backend) AuthHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

// Hits counts requests for method+path.
func (b *Backend) Hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

// IssueToken returns a valid token for the user without a login round trip.
func (b *Backend) IssueToken(userID int64, validity time.Duration) string {
	tok, err := generateToken(userID, b.secret, validity)
	if err != nil {
		panic(err)
	}
	return tok
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "API está funcionando corretamente"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"message": fmt.Sprintf(format, args...)})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
