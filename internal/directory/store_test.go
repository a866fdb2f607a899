package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

func collect(s *Store) []dto.Employee {
	var out []dto.Employee
	for _, e := range s.All() {
		out = append(out, e)
	}
	return out
}

func TestStore_AppendReplaceRemove(t *testing.T) {
	s := NewStore()
	s.Append(employee("1", "Amy"))
	s.Append(employee("2", "Bob"))
	require.Equal(t, 2, s.Len())

	require.NoError(t, s.ReplaceAt(1, employee("2", "Bobby")))
	got, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, "Bobby", got.Name)

	require.NoError(t, s.RemoveAt(0))
	assert.Equal(t, []dto.Employee{employee("2", "Bobby")}, s.Snapshot())
}

func TestStore_OutOfRangeLeavesStoreUnchanged(t *testing.T) {
	s := NewStore(employee("1", "Amy"))
	before := s.Snapshot()

	assert.ErrorIs(t, s.ReplaceAt(1, employee("9", "Zed")), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.ReplaceAt(-1, employee("9", "Zed")), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveAt(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveAt(-1), ErrIndexOutOfRange)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("store changed (-before +after):\n%s", diff)
	}

	_, ok := s.At(3)
	assert.False(t, ok)
}

func TestStore_AllIsRestartable(t *testing.T) {
	s := NewStore(employee("1", "Amy"), employee("2", "Bob"))
	seq := s.All()

	first := 0
	for range seq {
		first++
	}
	s.Append(employee("3", "Cat"))

	second := 0
	for range seq {
		second++
	}

	assert.Equal(t, 2, first)
	assert.Equal(t, 3, second)
}

func TestStore_AllStopsEarly(t *testing.T) {
	s := NewStore(employee("1", "Amy"), employee("2", "Bob"), employee("3", "Cat"))

	var seen []string
	for _, e := range s.All() {
		seen = append(seen, e.ID)
		if e.ID == "2" {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestStore_IndexOf(t *testing.T) {
	s := NewStore(employee("1", "Amy"), employee("2", "Bob"))

	assert.Equal(t, 1, s.IndexOf("2"))
	assert.Equal(t, -1, s.IndexOf("3"))
	assert.Equal(t, -1, s.IndexOf(""))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	seed := []dto.Employee{employee("1", "Amy")}
	s := NewStore(seed...)
	seed[0].Name = "Changed"

	snap := s.Snapshot()
	snap[0].Name = "Other"

	got, _ := s.At(0)
	assert.Equal(t, "Amy", got.Name)
}
