package directory

import (
	"errors"
	"iter"
	"slices"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

var ErrIndexOutOfRange = errors.New("store index out of range")

// Store is the client-side ordered copy of the server's employees. It holds only
// committed records (each has a server ID) and does no validation or I/O.
type Store struct {
	records []dto.Employee
}

func NewStore(records ...dto.Employee) *Store {
	return &Store{records: slices.Clone(records)}
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) At(i int) (dto.Employee, bool) {
	if i < 0 || i >= len(s.records) {
		return dto.Employee{}, false
	}
	return s.records[i], true
}

// IndexOf returns the position of the record with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.records, func(e dto.Employee) bool { return e.ID == id })
}

func (s *Store) Append(e dto.Employee) {
	s.records = append(s.records, e)
}

func (s *Store) ReplaceAt(i int, e dto.Employee) error {
	if i < 0 || i >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.records[i] = e
	return nil
}

func (s *Store) RemoveAt(i int) error {
	if i < 0 || i >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// Reset replaces the whole content, used when seeding from the server.
func (s *Store) Reset(records []dto.Employee) {
	s.records = slices.Clone(records)
}

// All yields the current records with their positions. The sequence reads the
// store when iterated, so it can be ranged over again after a mutation.
func (s *Store) All() iter.Seq2[int, dto.Employee] {
	return func(yield func(int, dto.Employee) bool) {
		for i, e := range s.records {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the records.
func (s *Store) Snapshot() []dto.Employee {
	return slices.Clone(s.records)
}
