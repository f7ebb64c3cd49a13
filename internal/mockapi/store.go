package mockapi

import (
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/talkincode/shopdesk/internal/domain"
	"golang.org/x/text/cases"
)

type userRow struct {
	domain.User
	PasswordHash []byte
}

type photo struct {
	ContentType string
	Data        []byte
}

// Store is the in-memory backend state. Tables are ordered by id.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	products   *btree.BTreeG[domain.Product]
	categories *btree.BTreeG[domain.Category]
	brands     *btree.BTreeG[domain.Brand]
	users      *btree.BTreeG[userRow]
	photos     map[string]photo
	revoked    map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		products:   btree.NewG(16, func(a, b domain.Product) bool { return a.ID < b.ID }),
		categories: btree.NewG(16, func(a, b domain.Category) bool { return a.ID < b.ID }),
		brands:     btree.NewG(16, func(a, b domain.Brand) bool { return a.ID < b.ID }),
		users:      btree.NewG(16, func(a, b userRow) bool { return a.ID < b.ID }),
		photos:     map[string]photo{},
		revoked:    map[string]struct{}{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

var folder = cases.Fold()

func fold(v string) string {
	return folder.String(strings.TrimSpace(v))
}

// containsFold reports whether needle occurs in hay, ignoring case
func containsFold(hay, needle string) bool {
	return strings.Contains(fold(hay), fold(needle))
}
