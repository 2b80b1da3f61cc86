package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/andresreyes/spotlists-backend/internal/lists"
	pkgerrors "github.com/andresreyes/spotlists-backend/pkg/errors"
	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

type stubListService struct {
	listFn        func(ctx context.Context, offset, limit int) ([]lists.ListDTO, int64, error)
	getFn         func(ctx context.Context, requestor visibility.Requestor, id int64) (lists.ListWithPlacesDTO, error)
	createFn      func(ctx context.Context, requestor visibility.Requestor, in lists.CreateListInput) (lists.ListDTO, error)
	updateFn      func(ctx context.Context, requestor visibility.Requestor, id int64, in lists.UpdateListInput) (lists.ListDTO, error)
	deleteFn      func(ctx context.Context, requestor visibility.Requestor, id int64) error
	userListsFn   func(ctx context.Context, requestor visibility.Requestor, userID int64, offset, limit int) ([]lists.ListDTO, int64, error)
	addPlaceFn    func(ctx context.Context, requestor visibility.Requestor, listID int64, in lists.AddPlaceInput) (lists.ListItemDTO, error)
	removePlaceFn func(ctx context.Context, requestor visibility.Requestor, listID, placeID int64) error
}

func (s stubListService) List(ctx context.Context, offset, limit int) ([]lists.ListDTO, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (s stubListService) Get(ctx context.Context, requestor visibility.Requestor, id int64) (lists.ListWithPlacesDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, requestor, id)
	}
	return lists.ListWithPlacesDTO{}, nil
}

func (s stubListService) Create(ctx context.Context, requestor visibility.Requestor, in lists.CreateListInput) (lists.ListDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, requestor, in)
	}
	return lists.ListDTO{}, nil
}

func (s stubListService) Update(ctx context.Context, requestor visibility.Requestor, id int64, in lists.UpdateListInput) (lists.ListDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, requestor, id, in)
	}
	return lists.ListDTO{}, nil
}

func (s stubListService) Delete(ctx context.Context, requestor visibility.Requestor, id int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, requestor, id)
	}
	return nil
}

func (s stubListService) UserLists(ctx context.Context, requestor visibility.Requestor, userID int64, offset, limit int) ([]lists.ListDTO, int64, error) {
	if s.userListsFn != nil {
		return s.userListsFn(ctx, requestor, userID, offset, limit)
	}
	return nil, 0, nil
}

func (s stubListService) AddPlace(ctx context.Context, requestor visibility.Requestor, listID int64, in lists.AddPlaceInput) (lists.ListItemDTO, error) {
	if s.addPlaceFn != nil {
		return s.addPlaceFn(ctx, requestor, listID, in)
	}
	return lists.ListItemDTO{}, nil
}

func (s stubListService) RemovePlace(ctx context.Context, requestor visibility.Requestor, listID, placeID int64) error {
	if s.removePlaceFn != nil {
		return s.removePlaceFn(ctx, requestor, listID, placeID)
	}
	return nil
}

func TestListsGetHiddenListIsMasked(t *testing.T) {
	svc := stubListService{
		getFn: func(_ context.Context, _ visibility.Requestor, _ int64) (lists.ListWithPlacesDTO, error) {
			return lists.ListWithPlacesDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "List Not Found")
		},
	}

	req := withIDParam(httptest.NewRequest(http.MethodGet, "/api/lists/9", nil), "id", "9")
	w := httptest.NewRecorder()
	ListsGet(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "List Not Found" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListsCreateReturns201(t *testing.T) {
	svc := stubListService{
		createFn: func(_ context.Context, _ visibility.Requestor, in lists.CreateListInput) (lists.ListDTO, error) {
			return lists.ListDTO{ID: 3, Name: in.Name, IsPrivate: in.IsPrivate, IsOrdered: in.IsOrdered}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(`{"name":"Tacos","is_private":true,"is_ordered":true}`))
	w := httptest.NewRecorder()
	ListsCreate(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var dto lists.ListDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode dto: %v", err)
	}
	if dto.Name != "Tacos" || !dto.IsPrivate || !dto.IsOrdered {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestListsUpdateDropsUnknownFields(t *testing.T) {
	var captured lists.UpdateListInput
	svc := stubListService{
		updateFn: func(_ context.Context, _ visibility.Requestor, _ int64, in lists.UpdateListInput) (lists.ListDTO, error) {
			captured = in
			if in.Empty() {
				return lists.ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Bad Request")
			}
			return lists.ListDTO{}, nil
		},
	}

	// Moderation flags are not part of the update surface; a payload carrying
	// only is_flagged decodes to an empty update and is rejected.
	req := withIDParam(httptest.NewRequest(http.MethodPut, "/api/lists/3", strings.NewReader(`{"is_flagged":false}`)), "id", "3")
	w := httptest.NewRecorder()
	ListsUpdate(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Bad Request" {
		t.Fatalf("unexpected message %q", msg)
	}
	if !captured.Empty() {
		t.Fatalf("unknown field leaked into update input %+v", captured)
	}
}

func TestListsAddPlaceReturns201(t *testing.T) {
	svc := stubListService{
		addPlaceFn: func(_ context.Context, _ visibility.Requestor, listID int64, in lists.AddPlaceInput) (lists.ListItemDTO, error) {
			return lists.ListItemDTO{ID: 11, ListID: listID, PlaceID: in.PlaceID}, nil
		},
	}

	req := withIDParam(httptest.NewRequest(http.MethodPost, "/api/lists/3/spots", strings.NewReader(`{"place_id":42}`)), "id", "3")
	w := httptest.NewRecorder()
	ListsAddPlace(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var dto lists.ListItemDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode dto: %v", err)
	}
	if dto.ListID != 3 || dto.PlaceID != 42 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestListsAddPlaceDuplicateConflict(t *testing.T) {
	svc := stubListService{
		addPlaceFn: func(_ context.Context, _ visibility.Requestor, _ int64, _ lists.AddPlaceInput) (lists.ListItemDTO, error) {
			return lists.ListItemDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "Place already in list")
		},
	}

	req := withIDParam(httptest.NewRequest(http.MethodPost, "/api/lists/3/spots", strings.NewReader(`{"place_id":42}`)), "id", "3")
	w := httptest.NewRecorder()
	ListsAddPlace(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Place already in list" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListsRemovePlaceReturns204(t *testing.T) {
	var gotList, gotPlace int64
	svc := stubListService{
		removePlaceFn: func(_ context.Context, _ visibility.Requestor, listID, placeID int64) error {
			gotList, gotPlace = listID, placeID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/lists/3/spots/42", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "3")
	rctx.URLParams.Add("placeId", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	ListsRemovePlace(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if gotList != 3 || gotPlace != 42 {
		t.Fatalf("unexpected target list=%d place=%d", gotList, gotPlace)
	}
}
