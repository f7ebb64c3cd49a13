package session

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists the current session
type Store interface {
	Load() (*domain.Session, error)
	Save(s *domain.Session) error
	Clear() error
	Close() error
}

// MemoryStore keeps the session for the life of the process
type MemoryStore struct {
	mu sync.Mutex
	s  *domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Save(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.s = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

var (
	bucketName = []byte("session")
	currentKey = []byte("current")
)

// BoltStore keeps the session in a bbolt file so sign-in survives between runs
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the session file at path
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open session store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create session bucket")
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Load() (*domain.Session, error) {
	var s *domain.Session
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get(currentKey)
		if raw == nil {
			return nil
		}
		s = &domain.Session{}
		return json.Unmarshal(raw, s)
	})
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	return s, nil
}

func (b *BoltStore) Save(s *domain.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrap(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(currentKey, raw)
	}), "save session")
}

func (b *BoltStore) Clear() error {
	return errors.Wrap(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(currentKey)
	}), "clear session")
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
