package sessionstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"clubes/internal/domain/session"
)

// Fixed keys of the persisted client state.
const (
	KeyToken       = "token"
	KeyRol         = "rol"
	KeyClubID      = "club_id"
	KeyClubNombre  = "club_nombre"
	KeyClaseID     = "clase_id"
	KeyClaseNombre = "clase_nombre"
	KeyModo        = "modo"
	KeyUserID      = "user_id"
	KeyUserName    = "user_name"
)

// Keys lists every key the store accepts.
var Keys = []string{
	KeyToken, KeyRol, KeyClubID, KeyClubNombre, KeyClaseID, KeyClaseNombre, KeyModo, KeyUserID, KeyUserName,
}

var bucketName = []byte("Session")

// ErrUnknownKey is returned by Set for keys outside Keys.
var ErrUnknownKey = errors.New("clave de sesión desconocida")

// Store persists one client session in a bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the session file and its bucket.
// PRE: path is writable
// POST: the bucket exists
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the persisted session. Missing keys are empty strings.
func (s *Store) Load() (session.Session, error) {
	var sess session.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("session bucket not found")
		}
		get := func(k string) string { return string(b.Get([]byte(k))) }
		sess = session.Session{
			Token:       get(KeyToken),
			Rol:         get(KeyRol),
			ClubID:      get(KeyClubID),
			ClubNombre:  get(KeyClubNombre),
			ClaseID:     get(KeyClaseID),
			ClaseNombre: get(KeyClaseNombre),
			Modo:        get(KeyModo),
			UserID:      get(KeyUserID),
			UserName:    get(KeyUserName),
		}
		return nil
	})
	return sess, err
}

// Save overwrites every key with the session's values in one transaction.
// Empty fields are removed rather than stored.
func (s *Store) Save(sess session.Session) error {
	values := map[string]string{
		KeyToken:       sess.Token,
		KeyRol:         sess.Rol,
		KeyClubID:      sess.ClubID,
		KeyClubNombre:  sess.ClubNombre,
		KeyClaseID:     sess.ClaseID,
		KeyClaseNombre: sess.ClaseNombre,
		KeyModo:        sess.Modo,
		KeyUserID:      sess.UserID,
		KeyUserName:    sess.UserName,
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("session bucket not found")
		}
		for k, v := range values {
			if err := put(b, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Set writes a single key. An empty value removes the key.
func (s *Store) Set(key, value string) error {
	if !known(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("session bucket not found")
		}
		return put(b, key, value)
	})
}

// Clear removes every key together.
// POST: Load returns the zero Session
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}

func put(b *bbolt.Bucket, key, value string) error {
	if value == "" {
		return b.Delete([]byte(key))
	}
	return b.Put([]byte(key), []byte(value))
}

func known(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
