package directory

import (
	"iter"
	"strings"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

// Row is a visible table row. Index addresses the Store, not the filtered view.
type Row struct {
	Index    int
	Employee dto.Employee
}

// Filter yields the records whose name contains query, ignoring case, in store
// order. An empty query yields the whole store.
func Filter(s *Store, query string) iter.Seq2[int, dto.Employee] {
	q := strings.ToLower(query)

	return func(yield func(int, dto.Employee) bool) {
		for i, e := range s.All() {
			if q != "" && !strings.Contains(strings.ToLower(e.Name), q) {
				continue
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// Rows collects a filtered sequence.
func Rows(seq iter.Seq2[int, dto.Employee]) []Row {
	var out []Row
	for i, e := range seq {
		out = append(out, Row{Index: i, Employee: e})
	}
	return out
}
