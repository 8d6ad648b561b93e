package store

import (
	"strings"
	"time"
)

// StoreVersion is written into every index file.
const StoreVersion = "1"

// Profile is a named configuration document tracked by the global store.
// Identity is ID; Name is a secondary lookup key matched case-insensitively.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Index is the global store's record of known profiles and the active
// selection. ActiveProfileID may dangle after out-of-band edits; lookups
// treat a dangling reference as "not found" rather than failing.
type Index struct {
	StoreVersion    string    `json:"storeVersion"`
	ActiveProfileID string    `json:"activeProfileId,omitempty"`
	Profiles        []Profile `json:"profiles"`
}

// NewIndex returns a fresh empty index.
func NewIndex() *Index {
	return &Index{
		StoreVersion: StoreVersion,
		Profiles:     []Profile{},
	}
}

// Find returns the profile with the given id, or nil.
func (idx *Index) Find(id string) *Profile {
	for i := range idx.Profiles {
		if idx.Profiles[i].ID == id {
			return &idx.Profiles[i]
		}
	}
	return nil
}

// FindByName returns the profile with the given display name,
// matched case-insensitively, or nil.
func (idx *Index) FindByName(name string) *Profile {
	for i := range idx.Profiles {
		if strings.EqualFold(idx.Profiles[i].Name, name) {
			return &idx.Profiles[i]
		}
	}
	return nil
}

// IDs returns all profile ids in index order.
func (idx *Index) IDs() []string {
	ids := make([]string, len(idx.Profiles))
	for i, p := range idx.Profiles {
		ids[i] = p.ID
	}
	return ids
}

// remove deletes the profile with the given id and clears the active
// reference when it pointed at the removed profile. Returns false when
// the id is unknown.
func (idx *Index) remove(id string) bool {
	for i := range idx.Profiles {
		if idx.Profiles[i].ID == id {
			idx.Profiles = append(idx.Profiles[:i], idx.Profiles[i+1:]...)
			if idx.ActiveProfileID == id {
				idx.ActiveProfileID = ""
			}
			return true
		}
	}
	return false
}
