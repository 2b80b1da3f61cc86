package visibility

import (
	"testing"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

func publicUser(id int64) *models.User {
	return &models.User{ID: id}
}

func TestCanReadUserPublicVisibleToAnyone(t *testing.T) {
	target := publicUser(7)

	requestors := map[string]Requestor{
		"anonymous":     Anonymous(),
		"other user":    ForUser(publicUser(8)),
		"owner himself": ForUser(target),
	}

	for name, req := range requestors {
		if got := CanReadUser(req, target); got != Visible {
			t.Fatalf("%s: expected Visible, got %v", name, got)
		}
	}
}

func TestCanReadUserHiddenFlags(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
	}{
		{"private", &models.User{ID: 7, IsPrivate: true}},
		{"banned", &models.User{ID: 7, IsBanned: true}},
		{"archived", &models.User{ID: 7, IsArchived: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReadUser(Anonymous(), tc.user); got != Forbidden {
				t.Fatalf("anonymous: expected Forbidden, got %v", got)
			}
			if got := CanReadUser(ForUser(publicUser(99)), tc.user); got != Forbidden {
				t.Fatalf("non-owner: expected Forbidden, got %v", got)
			}
			if got := CanReadUser(ForUser(tc.user), tc.user); got != Visible {
				t.Fatalf("owner: expected Visible, got %v", got)
			}
		})
	}
}

func TestCanReadUserMissing(t *testing.T) {
	if got := CanReadUser(Anonymous(), nil); got != NotFoundMasked {
		t.Fatalf("expected NotFoundMasked for nil user, got %v", got)
	}
}

func TestCanReadListFlaggedHiddenFromEveryone(t *testing.T) {
	owner := publicUser(1)
	list := &models.List{ID: 5, UserID: 1, IsFlagged: true}

	if got := CanReadList(ForUser(owner), list, owner); got != NotFoundMasked {
		t.Fatalf("owner of flagged list: expected NotFoundMasked, got %v", got)
	}
	if got := CanReadList(Anonymous(), list, owner); got != NotFoundMasked {
		t.Fatalf("anonymous on flagged list: expected NotFoundMasked, got %v", got)
	}
}

func TestCanReadListOwnerSeesPrivate(t *testing.T) {
	owner := &models.User{ID: 1, IsPrivate: true}
	list := &models.List{ID: 5, UserID: 1, IsPrivate: true}

	if got := CanReadList(ForUser(owner), list, owner); got != Visible {
		t.Fatalf("owner: expected Visible, got %v", got)
	}
}

func TestCanReadListNonOwner(t *testing.T) {
	owner := publicUser(1)

	cases := []struct {
		name  string
		list  *models.List
		owner *models.User
		want  Decision
	}{
		{"public list visible owner", &models.List{ID: 5, UserID: 1}, owner, Visible},
		{"private list", &models.List{ID: 5, UserID: 1, IsPrivate: true}, owner, NotFoundMasked},
		{"owner hidden", &models.List{ID: 5, UserID: 1}, &models.User{ID: 1, IsBanned: true}, NotFoundMasked},
		{"missing list", nil, owner, NotFoundMasked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReadList(Anonymous(), tc.list, tc.owner); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCanWriteList(t *testing.T) {
	list := &models.List{ID: 5, UserID: 1}

	if got := CanWriteList(ForUser(publicUser(1)), list); got != Visible {
		t.Fatalf("owner: expected Visible, got %v", got)
	}
	if got := CanWriteList(ForUser(publicUser(2)), list); got != NotFoundMasked {
		t.Fatalf("non-owner: expected NotFoundMasked, got %v", got)
	}
	if got := CanWriteList(Anonymous(), list); got != NotFoundMasked {
		t.Fatalf("anonymous: expected NotFoundMasked, got %v", got)
	}
}

func TestCanReadPlaceMatrix(t *testing.T) {
	visible := &models.Place{ID: 1, IsOperational: true, IsApproved: true}
	if got := CanReadPlace(visible); got != Visible {
		t.Fatalf("expected Visible, got %v", got)
	}

	hidden := []*models.Place{
		{ID: 1, IsOperational: false, IsApproved: true},
		{ID: 1, IsOperational: true, IsApproved: false},
		{ID: 1, IsOperational: true, IsApproved: true, IsArchived: true},
		{ID: 1, IsOperational: true, IsApproved: true, IsFlagged: true},
		nil,
	}
	for i, place := range hidden {
		if got := CanReadPlace(place); got != NotFoundMasked {
			t.Fatalf("case %d: expected NotFoundMasked, got %v", i, got)
		}
	}
}

func TestCanListUserLists(t *testing.T) {
	hidden := &models.User{ID: 3, IsPrivate: true}

	if got := CanListUserLists(ForUser(hidden), hidden); got != Visible {
		t.Fatalf("owner: expected Visible, got %v", got)
	}
	if got := CanListUserLists(Anonymous(), hidden); got != NotFoundMasked {
		t.Fatalf("anonymous on private user: expected NotFoundMasked, got %v", got)
	}
	if got := CanListUserLists(Anonymous(), publicUser(3)); got != Visible {
		t.Fatalf("anonymous on public user: expected Visible, got %v", got)
	}
	if got := CanListUserLists(Anonymous(), nil); got != NotFoundMasked {
		t.Fatalf("missing user: expected NotFoundMasked, got %v", got)
	}
}

func TestRequestorIdentity(t *testing.T) {
	anon := Anonymous()
	if !anon.IsAnonymous() || anon.ID() != 0 || anon.Is(0) {
		t.Fatal("anonymous requestor must have no identity")
	}

	req := ForUser(publicUser(11))
	if req.IsAnonymous() || req.ID() != 11 || !req.Is(11) || req.Is(12) {
		t.Fatal("authenticated requestor identity mismatch")
	}
}
