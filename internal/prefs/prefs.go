// Package prefs persists the user's scene selections between runs in a bbolt database.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/engine/light"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	bolt "go.etcd.io/bbolt"
)

var (
	prefsBucket = []byte("prefs")
	sceneKey    = []byte("scene")
)

// Prefs are the selections restored on start.
type Prefs struct {
	Mode         int         `json:"mode"`
	CentralModel int         `json:"centralModel"`
	DrawGround   bool        `json:"drawGround"`
	DrawSpheres  bool        `json:"drawSpheres"`
	Light        light.Light `json:"light"`
}

// FromState extracts the persisted subset of a scene state.
func FromState(st scene.State) Prefs {
	return Prefs{
		Mode:         st.Mode,
		CentralModel: st.CentralModel,
		DrawGround:   st.DrawGround,
		DrawSpheres:  st.DrawSpheres,
		Light:        st.Light,
	}
}

// Apply overlays p onto st. The result is validated by the caller.
func (p Prefs) Apply(st scene.State) scene.State {
	st.Mode = p.Mode
	st.CentralModel = p.CentralModel
	st.DrawGround = p.DrawGround
	st.DrawSpheres = p.DrawSpheres
	st.Light = p.Light
	return st
}

// Store is a bbolt backed preference store.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at path, creating parent directories as needed.
//
// Parameters:
//   - path: the database file
//
// Returns:
//   - *Store: the opened store
//   - error: error if the file cannot be opened or initialized
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create prefs directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open prefs %s: %w", path, err)
	}
	if err = createBucket(db, prefsBucket); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createBucket(db *bolt.DB, name []byte) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// Load returns the saved preferences.
//
// Returns:
//   - Prefs: the saved preferences, zero when none were saved
//   - bool: true if preferences were found
//   - error: error if the stored value cannot be read or decoded
func (s *Store) Load() (Prefs, bool, error) {
	var p Prefs
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(prefsBucket).Get(sceneKey)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return Prefs{}, false, fmt.Errorf("failed to load prefs: %w", err)
	}
	return p, found, nil
}

// Save replaces the saved preferences.
//
// Parameters:
//   - p: the preferences to save
//
// Returns:
//   - error: error if encoding or the write transaction fails
func (s *Store) Save(p Prefs) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Put(sceneKey, encoded)
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
