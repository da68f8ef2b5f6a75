package models

import "sort"

// EditPatch is the last locally applied edit of a user. Nil fields keep the
// remote value.
type EditPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// ApplyTo returns u with the non-nil patch fields substituted.
func (p EditPatch) ApplyTo(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

func (p EditPatch) clone() EditPatch {
	return EditPatch{
		FirstName: cloneString(p.FirstName),
		LastName:  cloneString(p.LastName),
		Email:     cloneString(p.Email),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Overlay is the local record of deletions (tombstones) and edits laid over
// read-only remote data. The zero value is not usable; see NewOverlay.
type Overlay struct {
	Deleted map[int]struct{}
	Edits   map[int]EditPatch
}

func NewOverlay() Overlay {
	return Overlay{Deleted: map[int]struct{}{}, Edits: map[int]EditPatch{}}
}

func (o Overlay) IsDeleted(id int) bool {
	_, ok := o.Deleted[id]
	return ok
}

// DeletedIDs returns the tombstoned ids in ascending order.
func (o Overlay) DeletedIDs() []int {
	ids := make([]int, 0, len(o.Deleted))
	for id := range o.Deleted {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsEmpty reports whether the overlay has neither tombstones nor edits.
func (o Overlay) IsEmpty() bool {
	return len(o.Deleted) == 0 && len(o.Edits) == 0
}

// Clone returns a deep copy that shares no memory with o.
func (o Overlay) Clone() Overlay {
	c := Overlay{
		Deleted: make(map[int]struct{}, len(o.Deleted)),
		Edits:   make(map[int]EditPatch, len(o.Edits)),
	}
	for id := range o.Deleted {
		c.Deleted[id] = struct{}{}
	}
	for id, p := range o.Edits {
		c.Edits[id] = p.clone()
	}
	return c
}

// Apply reconciles remote users with the overlay: deleted ids are dropped and
// the remaining users are passed through their patch, if any. Order is
// preserved and the input slice is not modified.
func (o Overlay) Apply(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if o.IsDeleted(u.ID) {
			continue
		}
		if p, ok := o.Edits[u.ID]; ok {
			u = p.ApplyTo(u)
		}
		out = append(out, u)
	}
	return out
}
