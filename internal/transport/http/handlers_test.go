package httpt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"
	httpt "github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/transport/http"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testVIN = "1HGCM82633A123456"

// Minimal in-memory doubles. The transport tests drive the real services
// over httptest; only the storage and broker edges are faked.

type memStore struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	vehicles map[uuid.UUID]*entity.Vehicle
	parts    map[uuid.UUID][]*entity.Part
	contacts map[uuid.UUID]*entity.Contact
	users    map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[uuid.UUID]*entity.Order),
		vehicles: make(map[uuid.UUID]*entity.Vehicle),
		parts:    make(map[uuid.UUID][]*entity.Part),
		contacts: make(map[uuid.UUID]*entity.Contact),
		users:    make(map[string]*entity.User),
	}
}

func (s *memStore) Create(
	_ context.Context, _ postgres.QueryExecuter, order *entity.Order,
) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *order
	s.orders[order.OrderUID] = &stored
	return &stored, nil
}

func (s *memStore) GetByOrderUID(_ context.Context, uid uuid.UUID) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[uid]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	copied := *order
	copied.Vehicle = nil
	copied.Parts = nil
	copied.Contact = nil
	return &copied, nil
}

func (s *memStore) ListUIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var uids []uuid.UUID
	for uid, order := range s.orders {
		if order.UserID != nil && *order.UserID == userID {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

type vehicleStore struct{ s *memStore }

func (v vehicleStore) Create(
	_ context.Context, _ postgres.QueryExecuter, uid uuid.UUID, vehicle *entity.Vehicle,
) (*entity.Vehicle, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	stored := *vehicle
	v.s.vehicles[uid] = &stored
	return &stored, nil
}

func (v vehicleStore) GetByOrderUID(_ context.Context, uid uuid.UUID) (*entity.Vehicle, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	vehicle, ok := v.s.vehicles[uid]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return vehicle, nil
}

type partStore struct{ s *memStore }

func (p partStore) Create(
	_ context.Context, _ postgres.QueryExecuter, uid uuid.UUID, parts []*entity.Part,
) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.parts[uid] = parts
	return nil
}

func (p partStore) GetListByOrderUID(_ context.Context, uid uuid.UUID) ([]*entity.Part, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	parts, ok := p.s.parts[uid]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return parts, nil
}

type contactStore struct{ s *memStore }

func (c contactStore) Create(
	_ context.Context, _ postgres.QueryExecuter, uid uuid.UUID, contact *entity.Contact,
) (*entity.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	stored := *contact
	c.s.contacts[uid] = &stored
	return &stored, nil
}

func (c contactStore) GetByOrderUID(_ context.Context, uid uuid.UUID) (*entity.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	contact, ok := c.s.contacts[uid]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return contact, nil
}

type userStore struct{ s *memStore }

func (u userStore) Create(
	_ context.Context, _ postgres.QueryExecuter, user *entity.User,
) (*entity.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, exists := u.s.users[user.Email]; exists {
		return nil, entity.ErrEmailTaken
	}
	stored := *user
	u.s.users[user.Email] = &stored
	return &stored, nil
}

func (u userStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[email]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return user, nil
}

func (u userStore) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, entity.ErrDataNotFound
}

type passthroughTx struct{}

func (passthroughTx) ExecuteInTransaction(
	_ context.Context, _ string, fn func(tx postgres.QueryExecuter) error,
) error {
	return fn(&postgres.TxQueryExecuter{})
}

type mapCache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V
}

func newMapCache[K comparable, V any]() *mapCache[K, V] {
	return &mapCache[K, V]{items: make(map[K]V)}
}

func (c *mapCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache[K, V]) Put(key K, value V, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *mapCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

func (c *mapCache[K, V]) Has(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *mapCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *mapCache[K, V]) Capacity() int                     { return 1 << 20 }
func (c *mapCache[K, V]) Purge()                            {}
func (c *mapCache[K, V]) StartCleanup(time.Duration)        {}
func (c *mapCache[K, V]) StopCleanup()                      {}
func (c *mapCache[K, V]) SetOnEvicted(func(key K, value V)) {}

type nopNotifier struct{}

func (nopNotifier) NotifyOrderCreated(context.Context, *entity.OrderCreatedEvent) error {
	return nil
}

type nopHTTPMetrics struct{}

func (nopHTTPMetrics) Request(string, string, int, time.Duration)     {}
func (nopHTTPMetrics) SlowRequest(string, string, int, time.Duration) {}

type nopWizardMetrics struct{}

func (nopWizardMetrics) StepAdvanced(string) {}
func (nopWizardMetrics) StepBack(string)     {}
func (nopWizardMetrics) StepRejected(string) {}
func (nopWizardMetrics) Submission(string)   {}

type testServer struct {
	engine *gin.Engine
	auth   *service.AuthService
	store  *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	log := logger.NewNop()

	auth := service.NewAuthService(
		userStore{store},
		passthroughTx{},
		log,
		config.Auth{
			JWTSecret:  "0123456789abcdef",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	)

	orders := service.NewOrderService(
		store,
		vehicleStore{store},
		partStore{store},
		contactStore{store},
		userStore{store},
		passthroughTx{},
		nopNotifier{},
		auth,
		log,
		newMapCache[uuid.UUID, *service.Draft](),
		30*time.Minute,
		newMapCache[uuid.UUID, *entity.Order](),
		30*time.Minute,
	)

	handler := httpt.NewOrderHandler(orders, auth, log, nopHTTPMetrics{}, nopWizardMetrics{})

	return &testServer{engine: handler.Engine(), auth: auth, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type draftBody struct {
	DraftID  string `json:"draft_id"`
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
	Category string `json:"category"`
}

type issuesBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (b issuesBody) has(field string) bool {
	for _, e := range b.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func guestContactBody() map[string]any {
	return map[string]any{
		"name":        gofakeit.Name(),
		"email":       gofakeit.Email(),
		"phone":       "9261234567",
		"countryCode": "+7",
	}
}

func guestOrderBody() map[string]any {
	return map[string]any{
		"vehicle": map[string]any{
			"category": "passenger",
			"vin":      testVIN,
		},
		"parts": []map[string]any{
			{"name": "brake pads", "quantity": 2},
		},
		"contactInfo": guestContactBody(),
	}
}

func TestWizardFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/wizard", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	draft := decode[draftBody](t, rec)
	require.NotEmpty(t, draft.DraftID)
	require.Equal(t, 1, draft.Step)
	require.Equal(t, "category", draft.StepName)

	base := "/api/wizard/" + draft.DraftID

	rec = ts.do(t, http.MethodPost, base+"/category", "", map[string]any{"category": "passenger"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, decode[draftBody](t, rec).Step)

	rec = ts.do(t, http.MethodPost, base+"/vehicle", "", map[string]any{
		"inputMethod": "vin",
		"vin":         testVIN,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, decode[draftBody](t, rec).Step)

	rec = ts.do(t, http.MethodPost, base+"/parts", "", map[string]any{
		"rows": []map[string]any{{"name": "oil filter", "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, decode[draftBody](t, rec).Step)

	rec = ts.do(t, http.MethodPost, base+"/submit", "", guestContactBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed struct {
		Order struct {
			OrderUID string `json:"order_uid"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.Order.OrderUID)

	// A consumed draft is gone.
	rec = ts.do(t, http.MethodPost, base+"/submit", "", guestContactBody())
	require.Equal(t, http.StatusNotFound, rec.Code)

	// The guest order stays fetchable by its uid.
	rec = ts.do(t, http.MethodGet, "/api/orders/"+placed.Order.OrderUID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWizard_VehicleValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	draft := decode[draftBody](t, ts.do(t, http.MethodPost, "/api/wizard", "", nil))
	base := "/api/wizard/" + draft.DraftID

	rec := ts.do(t, http.MethodPost, base+"/category", "", map[string]any{"category": "passenger"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, base+"/vehicle", "", map[string]any{
		"inputMethod": "vin",
		"vin":         "TOOSHORT",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, decode[issuesBody](t, rec).has("vin"))

	rec = ts.do(t, http.MethodPost, base+"/vehicle", "", map[string]any{
		"inputMethod": "manual",
		"make":        "VW",
		"model":       "Golf",
		"year":        "201",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, decode[issuesBody](t, rec).has("year"))
}

func TestWizard_ChineseRejectsVINMode(t *testing.T) {
	ts := newTestServer(t)

	draft := decode[draftBody](t, ts.do(t, http.MethodPost, "/api/wizard", "", nil))
	base := "/api/wizard/" + draft.DraftID

	rec := ts.do(t, http.MethodPost, base+"/category", "", map[string]any{"category": "chinese"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, base+"/vehicle/mode", "", map[string]any{"inputMethod": "vin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, decode[issuesBody](t, rec).has("inputMethod"))
}

func TestWizard_BackNavigation(t *testing.T) {
	ts := newTestServer(t)

	draft := decode[draftBody](t, ts.do(t, http.MethodPost, "/api/wizard", "", nil))
	base := "/api/wizard/" + draft.DraftID

	ts.do(t, http.MethodPost, base+"/category", "", map[string]any{"category": "commercial"})
	rec := ts.do(t, http.MethodPost, base+"/back", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[draftBody](t, rec)
	require.Equal(t, 1, body.Step)
	require.Equal(t, "commercial", body.Category, "category survives going back")
}

func TestWizard_UnknownDraft(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/wizard/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/wizard/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuestOrder_OneShot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/guest-order", "", guestOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGuestOrder_DuplicateEmailConflict(t *testing.T) {
	ts := newTestServer(t)

	email := gofakeit.Email()
	reg := map[string]any{"name": gofakeit.Name(), "email": email, "password": "secret1"}
	rec := ts.do(t, http.MethodPost, "/api/register", "", reg)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := guestOrderBody()
	contact := body["contactInfo"].(map[string]any)
	contact["email"] = email
	body["createAccount"] = true
	body["password"] = "secret1"

	rec = ts.do(t, http.MethodPost, "/api/guest-order", "", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.True(t, decode[issuesBody](t, rec).has("email"))
}

func TestOrders_RequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/orders", "", guestOrderBody())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrders_AuthenticatedFlow(t *testing.T) {
	ts := newTestServer(t)

	reg := map[string]any{"name": gofakeit.Name(), "email": gofakeit.Email(), "password": "secret1"}
	rec := ts.do(t, http.MethodPost, "/api/register", "", reg)
	require.Equal(t, http.StatusCreated, rec.Code)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)

	body := guestOrderBody()
	delete(body["contactInfo"].(map[string]any), "email")
	rec = ts.do(t, http.MethodPost, "/api/orders", auth.Token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed struct {
		Order struct {
			OrderUID string `json:"order_uid"`
			UserID   string `json:"user_id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.Order.UserID)

	// The owner sees the order; anonymous callers do not.
	rec = ts.do(t, http.MethodGet, "/api/orders/"+placed.Order.OrderUID, auth.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/orders/"+placed.Order.OrderUID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/user", auth.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		OrderUIDs []string `json:"order_uids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Len(t, profile.OrderUIDs, 1)
	require.Equal(t, placed.Order.OrderUID, profile.OrderUIDs[0])
}

func TestLogin_WrongCredentials(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"email":    fmt.Sprintf("nobody-%s@example.com", uuid.NewString()[:8]),
		"password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
