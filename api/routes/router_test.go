package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/internal/identity"
	"github.com/andresreyes/spotlists-backend/internal/lists"
	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/internal/users"
	pkgauth "github.com/andresreyes/spotlists-backend/pkg/auth"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/andresreyes/spotlists-backend/pkg/db/models"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/placeprovider"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/pagination"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

type stubUserSource struct {
	byUID map[string]*models.User
}

func (s stubUserSource) FindByUID(_ context.Context, uid string) (*models.User, error) {
	if user, ok := s.byUID[uid]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubUserService struct {
	getFn func(ctx context.Context, requestor visibility.Requestor, id int64) (users.UserDTO, error)
}

func (s stubUserService) Register(context.Context, users.CreateUserInput) (users.UserDTO, error) {
	return users.UserDTO{}, nil
}

func (s stubUserService) Get(ctx context.Context, requestor visibility.Requestor, id int64) (users.UserDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, requestor, id)
	}
	return users.UserDTO{ID: id}, nil
}

func (s stubUserService) List(context.Context, int, int) ([]users.UserDTO, int64, error) {
	return nil, 0, nil
}

func (s stubUserService) Update(_ context.Context, _ visibility.Requestor, id int64, _ users.UpdateUserInput) (users.UserDTO, error) {
	return users.UserDTO{ID: id}, nil
}

func (s stubUserService) Delete(context.Context, visibility.Requestor, int64) error {
	return nil
}

type stubPlaceService struct{}

func (stubPlaceService) Get(_ context.Context, id int64) (places.PlaceDTO, error) {
	return places.PlaceDTO{ID: id}, nil
}

func (stubPlaceService) List(context.Context, int, int) ([]places.PlaceDTO, int64, error) {
	return nil, 0, nil
}

func (stubPlaceService) ImportRecord(context.Context, placeprovider.PlaceRecord) (places.PlaceDTO, error) {
	return places.PlaceDTO{}, nil
}

type stubListService struct {
	total int64
	getFn func(ctx context.Context, requestor visibility.Requestor, id int64) (lists.ListWithPlacesDTO, error)
}

func (s stubListService) List(_ context.Context, offset, limit int) ([]lists.ListDTO, int64, error) {
	if s.total == 0 {
		return nil, 0, nil
	}
	remaining := int(s.total) - offset
	if remaining < 0 {
		remaining = 0
	}
	if remaining > limit {
		remaining = limit
	}
	rows := make([]lists.ListDTO, remaining)
	for i := range rows {
		rows[i] = lists.ListDTO{ID: int64(offset + i + 1), Name: fmt.Sprintf("List %d", offset+i+1)}
	}
	return rows, s.total, nil
}

func (s stubListService) Get(ctx context.Context, requestor visibility.Requestor, id int64) (lists.ListWithPlacesDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, requestor, id)
	}
	return lists.ListWithPlacesDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "List Not Found")
}

func (s stubListService) Create(_ context.Context, _ visibility.Requestor, in lists.CreateListInput) (lists.ListDTO, error) {
	return lists.ListDTO{ID: 1, Name: in.Name}, nil
}

func (s stubListService) Update(context.Context, visibility.Requestor, int64, lists.UpdateListInput) (lists.ListDTO, error) {
	return lists.ListDTO{}, nil
}

func (s stubListService) Delete(context.Context, visibility.Requestor, int64) error {
	return nil
}

func (s stubListService) UserLists(context.Context, visibility.Requestor, int64, int, int) ([]lists.ListDTO, int64, error) {
	return nil, 0, nil
}

func (s stubListService) AddPlace(context.Context, visibility.Requestor, int64, lists.AddPlaceInput) (lists.ListItemDTO, error) {
	return lists.ListItemDTO{}, nil
}

func (s stubListService) RemovePlace(context.Context, visibility.Requestor, int64, int64) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		HTTP: config.HTTPConfig{
			BaseURL:        "http://api.test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		IDToken: config.IDTokenConfig{
			Secret: "test-secret",
			Issuer: "spotlists-test",
			Leeway: 30 * time.Second,
		},
		Pagination: config.PaginationConfig{DefaultLimit: 10, UserListsLimit: 5, MaxLimit: 100},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, deps Deps) http.Handler {
	t.Helper()

	if deps.Resolver == nil {
		verifier, err := pkgauth.NewVerifier(cfg.IDToken)
		if err != nil {
			t.Fatalf("build verifier: %v", err)
		}
		resolver, err := identity.NewResolver(identity.ResolverParams{
			Verifier: verifier,
			Users: stubUserSource{byUID: map[string]*models.User{
				"uid-7": {ID: 7, UID: "uid-7"},
			}},
		})
		if err != nil {
			t.Fatalf("build resolver: %v", err)
		}
		deps.Resolver = resolver
	}
	if deps.UsersService == nil {
		deps.UsersService = stubUserService{}
	}
	if deps.PlacesSvc == nil {
		deps.PlacesSvc = stubPlaceService{}
	}
	if deps.ListsSvc == nil {
		deps.ListsSvc = stubListService{}
	}

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, deps)
}

func mintToken(t *testing.T, cfg *config.Config, subject string) string {
	t.Helper()
	token, err := pkgauth.MintIDToken(cfg.IDToken, subject, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestListsIndexPaginatesWithDefaults(t *testing.T) {
	router := newTestRouter(t, testConfig(), Deps{ListsSvc: stubListService{total: 12}})

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var page struct {
		pagination.Page
		Data []lists.ListDTO `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Page.Page != 1 || page.Limit != 10 {
		t.Fatalf("unexpected window page=%d limit=%d", page.Page.Page, page.Limit)
	}
	if page.TotalCount != 12 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals count=%d pages=%d", page.TotalCount, page.TotalPages)
	}
	if len(page.Data) != 10 {
		t.Fatalf("expected 10 rows on page 1, got %d", len(page.Data))
	}
	if page.Links.Next == nil || !strings.Contains(*page.Links.Next, "page=2") {
		t.Fatalf("expected next link to page 2, got %+v", page.Links)
	}
	if page.Links.Prev != nil {
		t.Fatalf("first page must have null prev link")
	}
}

func TestListsIndexSecondPage(t *testing.T) {
	router := newTestRouter(t, testConfig(), Deps{ListsSvc: stubListService{total: 12}})

	req := httptest.NewRequest(http.MethodGet, "/api/lists?page=2&limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var page struct {
		pagination.Page
		Data []lists.ListDTO `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 rows on page 2, got %d", len(page.Data))
	}
	if page.Links.Next != nil {
		t.Fatalf("last page must have null next link")
	}
	if page.Links.Prev == nil || !strings.Contains(*page.Links.Prev, "page=1") {
		t.Fatalf("expected prev link to page 1, got %+v", page.Links)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig(), Deps{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/lists"},
		{http.MethodPut, "/api/lists/1"},
		{http.MethodDelete, "/api/lists/1"},
		{http.MethodPost, "/api/lists/1/spots"},
		{http.MethodDelete, "/api/lists/1/spots/2"},
		{http.MethodPut, "/api/users/1"},
		{http.MethodDelete, "/api/users/1"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if body.Message != "Unauthorized" {
			t.Fatalf("%s %s: unexpected message %q", tc.method, tc.path, body.Message)
		}
	}
}

func TestListsCreateSucceedsWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, Deps{})

	req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(`{"name":"Ramen"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, "uid-7"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListsCreateRejectsUnknownSubject(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, Deps{})

	req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(`{"name":"Ramen"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, "uid-unknown"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestListsGetReadableAnonymously(t *testing.T) {
	svc := stubListService{
		getFn: func(_ context.Context, requestor visibility.Requestor, id int64) (lists.ListWithPlacesDTO, error) {
			if !requestor.IsAnonymous() {
				t.Fatalf("expected anonymous requestor")
			}
			return lists.ListWithPlacesDTO{ListDTO: lists.ListDTO{ID: id, Name: "Public"}}, nil
		},
	}
	router := newTestRouter(t, testConfig(), Deps{ListsSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/lists/4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHiddenListMaskedAs404(t *testing.T) {
	router := newTestRouter(t, testConfig(), Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/lists/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Message != "List Not Found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestHealthAndPingRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig(), Deps{})

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
