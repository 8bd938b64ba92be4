package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Member is one person on a trip ledger. The ID is stable and locally
// generated; the Name is the display name and doubles as the key in the
// persisted external format, which makes renames lossy for historical
// records (see splitcodec).
type Member struct {
	ID   string
	Name string
}

// NewMember creates a member with a fresh unique id.
func NewMember(name string) Member {
	return Member{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// Roster is the ordered member set of one ledger, plus the identity the
// current session acts as.
type Roster struct {
	Members  []Member
	ActiveID string
}

// NewRoster builds a roster from display names, preserving order and
// dropping blanks. The first member becomes active.
func NewRoster(names []string) Roster {
	r := Roster{}
	for _, name := range names {
		if name == "" {
			continue
		}
		r.Members = append(r.Members, NewMember(name))
	}
	if len(r.Members) > 0 {
		r.ActiveID = r.Members[0].ID
	}
	return r
}

// Add appends a new member and returns it.
func (r *Roster) Add(name string) Member {
	m := NewMember(name)
	r.Members = append(r.Members, m)
	if r.ActiveID == "" {
		r.ActiveID = m.ID
	}
	return m
}

// Remove deletes a member by id. The last remaining member cannot be
// removed. Removing the active member reassigns active identity to the
// first remaining member.
func (r *Roster) Remove(id string) error {
	if len(r.Members) <= 1 {
		return fmt.Errorf("cannot remove the last member")
	}
	idx := -1
	for i, m := range r.Members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("member %s: %w", id, ErrUnknownMember)
	}
	r.Members = append(r.Members[:idx], r.Members[idx+1:]...)
	if r.ActiveID == id {
		r.ActiveID = r.Members[0].ID
	}
	return nil
}

// ByID looks up a member by id.
func (r *Roster) ByID(id string) (Member, bool) {
	for _, m := range r.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// ByName looks up a member by exact display name. Names are not
// guaranteed unique; the first match wins.
func (r *Roster) ByName(name string) (Member, bool) {
	for _, m := range r.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// DisplayName resolves an id to a display name, degrading to the raw id
// when the reference dangles.
func (r *Roster) DisplayName(id string) string {
	if m, ok := r.ByID(id); ok {
		return m.Name
	}
	return id
}

// IDs returns the member ids in roster order.
func (r *Roster) IDs() []string {
	ids := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.ID)
	}
	return ids
}
