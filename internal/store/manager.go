package store

// Manager is the scope-independent contract shared by the global and
// project stores. Commands work against this interface after the scope
// and mode are resolved, so no mode branching leaks into handlers.
type Manager interface {
	// List returns the known ids for the scope.
	List() ([]string, error)
	// Get reads the raw config for an id; ErrNotFound when absent.
	Get(id string) (*RawConfig, error)
	// Add imports content under an id; re-adding replaces content.
	Add(id, content, ext string) error
	// Remove deletes an id, clearing the active reference if needed.
	Remove(id string) error
	// Activate records id as the active selection.
	Activate(id string) error
	// Active returns the active id, or "" when none is set.
	Active() (string, error)
	// ApplyTo backs up and overwrites the target file with the id's
	// content; returns the backup path ("" when no target existed).
	ApplyTo(id, targetPath string) (string, error)
}

// Global store adapter.

func (s *Store) List() ([]string, error) {
	return s.LoadIndex().IDs(), nil
}

func (s *Store) Get(id string) (*RawConfig, error) {
	return s.ProfileConfigRaw(id)
}

func (s *Store) Add(id, content, ext string) error {
	_, err := s.AddProfile(id, id, content, ext)
	return err
}

func (s *Store) Remove(id string) error {
	return s.DeleteProfile(id)
}

func (s *Store) Activate(id string) error {
	return s.ActivateProfile(id)
}

func (s *Store) Active() (string, error) {
	return s.LoadIndex().ActiveProfileID, nil
}

func (s *Store) ApplyTo(id, targetPath string) (string, error) {
	return s.Apply(id, targetPath)
}

// Project store adapter.

func (p *ProjectStore) List() ([]string, error) {
	return p.ListProfiles(), nil
}

func (p *ProjectStore) Get(id string) (*RawConfig, error) {
	return p.ProfileConfigRaw(id)
}

func (p *ProjectStore) Add(id, content, ext string) error {
	_, err := p.SaveProfileConfigRaw(id, content, ext)
	return err
}

func (p *ProjectStore) Remove(id string) error {
	return p.DeleteProfile(id)
}

func (p *ProjectStore) Activate(id string) error {
	return p.ActivateProfile(id)
}

func (p *ProjectStore) Active() (string, error) {
	return p.LoadRC().ActiveProfileID, nil
}

func (p *ProjectStore) ApplyTo(id, targetPath string) (string, error) {
	return p.Apply(id, targetPath)
}

var (
	_ Manager = (*Store)(nil)
	_ Manager = (*ProjectStore)(nil)
)
