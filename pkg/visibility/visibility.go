// Package visibility holds the pure decision logic governing which resources
// a requestor may see or modify. Every endpoint must route its access checks
// through these predicates so the flag matrix is applied identically
// everywhere; no I/O happens here.
package visibility

import "github.com/andresreyes/spotlists-backend/pkg/db/models"

// Requestor is the identity attributed to an inbound request after token
// resolution: either anonymous or a loaded local user. It is built once per
// request and never mutated afterwards.
type Requestor struct {
	user *models.User
}

// Anonymous returns the unauthenticated requestor.
func Anonymous() Requestor {
	return Requestor{}
}

// ForUser returns a requestor bound to the given local user.
func ForUser(user *models.User) Requestor {
	return Requestor{user: user}
}

// IsAnonymous reports whether no local user is attached.
func (r Requestor) IsAnonymous() bool {
	return r.user == nil
}

// User returns the attached local user, nil when anonymous.
func (r Requestor) User() *models.User {
	return r.user
}

// ID returns the local user id, 0 when anonymous.
func (r Requestor) ID() int64 {
	if r.user == nil {
		return 0
	}
	return r.user.ID
}

// Is reports whether the requestor is the authenticated user with the given id.
func (r Requestor) Is(userID int64) bool {
	return r.user != nil && r.user.ID == userID
}

// Decision is the tri-state outcome of a visibility check. NotFoundMasked
// instructs the caller to answer "not found" so restricted resources cannot
// be enumerated; Forbidden is reserved for cases where the target's existence
// is already known to the requestor.
type Decision int

const (
	Visible Decision = iota
	NotFoundMasked
	Forbidden
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Visible
}

// UserVisibleToPublic reports whether a user is visible to any requestor:
// not private, not banned, not archived.
func UserVisibleToPublic(user *models.User) bool {
	if user == nil {
		return false
	}
	return !user.IsPrivate && !user.IsBanned && !user.IsArchived
}

// CanReadUser gates direct user lookups. The owner always sees their own
// record. Non-owner failures are Forbidden rather than masked: the caller
// already holds a concrete user id, so there is no enumeration risk.
func CanReadUser(requestor Requestor, user *models.User) Decision {
	if user == nil {
		return NotFoundMasked
	}
	if requestor.Is(user.ID) {
		return Visible
	}
	if UserVisibleToPublic(user) {
		return Visible
	}
	return Forbidden
}

// CanReadList gates single-list reads. A flagged list is hidden from
// everyone, owner included. Otherwise the owner always sees their list;
// other requestors need the list public and its owner visible. All failures
// are masked as not-found.
func CanReadList(requestor Requestor, list *models.List, owner *models.User) Decision {
	if list == nil {
		return NotFoundMasked
	}
	if list.IsFlagged {
		return NotFoundMasked
	}
	if requestor.Is(list.UserID) {
		return Visible
	}
	if list.IsPrivate {
		return NotFoundMasked
	}
	if !UserVisibleToPublic(owner) {
		return NotFoundMasked
	}
	return Visible
}

// CanWriteList gates list mutations: only the authenticated owner may write.
// Non-owners get a masked not-found so list ids cannot be probed.
func CanWriteList(requestor Requestor, list *models.List) Decision {
	if list == nil {
		return NotFoundMasked
	}
	if requestor.Is(list.UserID) {
		return Visible
	}
	return NotFoundMasked
}

// PlaceVisible reports the generic reader predicate for places.
func PlaceVisible(place *models.Place) bool {
	if place == nil {
		return false
	}
	return place.IsOperational && !place.IsArchived && place.IsApproved && !place.IsFlagged
}

// CanReadPlace gates place lookups. Place visibility is not owner-scoped;
// a hidden place is indistinguishable from a missing one.
func CanReadPlace(place *models.Place) Decision {
	if PlaceVisible(place) {
		return Visible
	}
	return NotFoundMasked
}

// CanListUserLists gates the "lists owned by user X" collection. The owner
// sees all their lists including private ones; everyone else needs the owner
// to be publicly visible (the per-list filter is applied separately).
func CanListUserLists(requestor Requestor, target *models.User) Decision {
	if target == nil {
		return NotFoundMasked
	}
	if requestor.Is(target.ID) {
		return Visible
	}
	if UserVisibleToPublic(target) {
		return Visible
	}
	return NotFoundMasked
}
