package directory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

func validRecord(t *testing.T, e dto.Employee) validation.ValidRecord {
	t.Helper()

	rec, err := testValidator().Validate(draftOf(e))
	require.NoError(t, err)
	return rec
}

func newTestReconciler(remote *fakeRemote, seed ...dto.Employee) (*Reconciler, *Store) {
	s := NewStore(seed...)
	return NewReconciler(s, remote, testValidator(), zerolog.Nop()), s
}

func TestReconciler_CreateRoundTrip(t *testing.T) {
	remote := &fakeRemote{createID: "7"}
	r, s := newTestReconciler(remote)

	d := employee("", "Jane Doe")
	require.NoError(t, r.Create(context.Background(), validRecord(t, d)))

	assert.Equal(t, []dto.Employee{d.WithID("7")}, s.Snapshot())
	assert.Equal(t, []string{"create"}, remote.calls)
}

func TestReconciler_CreateFailureLeavesStore(t *testing.T) {
	remote := &fakeRemote{createErr: errBackendDown}
	r, s := newTestReconciler(remote, employee("1", "Amy"))
	before := s.Snapshot()

	err := r.Create(context.Background(), validRecord(t, employee("", "Jane Doe")))

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, OpCreate, rce.Op)
	assert.ErrorIs(t, err, errBackendDown)
	assert.Empty(t, cmp.Diff(before, s.Snapshot()))
}

func TestReconciler_CreateRejectsBadServerRecord(t *testing.T) {
	r, s := newTestReconciler(&fakeRemote{createID: "1"}, employee("1", "Amy"))
	before := s.Snapshot()

	err := r.Create(context.Background(), validRecord(t, employee("", "Jane Doe")))
	assert.ErrorIs(t, err, ErrInvalidRemoteRecord)
	assert.Empty(t, cmp.Diff(before, s.Snapshot()))
}

func TestReconciler_RejectedCreateLogsReturnedID(t *testing.T) {
	var buf bytes.Buffer
	s := NewStore(employee("1", "Amy"))
	r := NewReconciler(s, &fakeRemote{createID: "1"}, testValidator(), zerolog.New(&buf))

	err := r.Create(context.Background(), validRecord(t, employee("", "Jane Doe")))
	require.ErrorIs(t, err, ErrInvalidRemoteRecord)

	assert.Contains(t, buf.String(), `"returned_id":"1"`)
	assert.Contains(t, buf.String(), "server may have stored it")
	assert.Equal(t, 1, s.Len())
}

func TestReconciler_FetchDoesNotTouchStore(t *testing.T) {
	remote := &fakeRemote{list: []dto.Employee{employee("2", "Bob")}}
	r, s := newTestReconciler(remote, employee("1", "Amy"))

	rows, err := r.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.Employee{employee("1", "Amy")}, s.Snapshot())

	r.Seed(rows)
	assert.Equal(t, []dto.Employee{employee("2", "Bob")}, s.Snapshot())
}

func TestReconciler_RejectsUnvalidatedRecord(t *testing.T) {
	remote := &fakeRemote{}
	r, _ := newTestReconciler(remote, employee("1", "Amy"))

	_, err := r.PrepareCreate(validation.ValidRecord{})
	assert.ErrorIs(t, err, ErrNotValidated)
	_, err = r.PrepareUpdate(0, validation.ValidRecord{})
	assert.ErrorIs(t, err, ErrNotValidated)
	assert.Empty(t, remote.calls)
}

func TestReconciler_UpdateMergesAndReplaces(t *testing.T) {
	remote := &fakeRemote{}
	r, s := newTestReconciler(remote, employee("1", "Amy"), employee("2", "Bob"))

	next := employee("", "Bobby")
	next.Salary = 61000
	require.NoError(t, r.Update(context.Background(), 1, validRecord(t, next)))

	want := employee("2", "Bobby")
	want.Salary = 61000
	assert.Equal(t, []dto.Employee{employee("1", "Amy"), want}, s.Snapshot())
	assert.Equal(t, []string{"update 2"}, remote.calls)
}

func TestReconciler_UpdateKeepsStoredValuesForEmptyFields(t *testing.T) {
	r, _ := newTestReconciler(&fakeRemote{}, employee("1", "Amy"))

	call, err := r.PrepareUpdate(0, validRecord(t, employee("", "Amy Lee")))
	require.NoError(t, err)

	cur := employee("1", "Amy")
	got := merge(cur, dto.Employee{Name: "Amy Lee"}, r.optional)
	assert.Equal(t, "Amy Lee", got.Name)
	assert.Equal(t, cur.Designation, got.Designation)
	assert.Equal(t, cur.Salary, got.Salary)
	assert.Equal(t, "1", call.Record.ID)
}

func TestReconciler_UpdateClearsOptionalDesignation(t *testing.T) {
	v := validation.New(validation.WithOptionalDesignation())
	s := NewStore(employee("1", "Amy"))
	remote := &fakeRemote{updateEcho: true}
	r := NewReconciler(s, remote, v, zerolog.Nop())

	next := employee("", "Amy Lee")
	next.Designation = ""
	rec, err := v.Validate(draftOf(next))
	require.NoError(t, err)

	call, err := r.PrepareUpdate(0, rec)
	require.NoError(t, err)
	assert.Equal(t, "", call.Record.Designation)
	assert.Equal(t, "1", call.Record.ID)

	require.NoError(t, r.Apply(r.Execute(context.Background(), call)))
	got, _ := s.At(0)
	assert.Equal(t, "Amy Lee", got.Name)
	assert.Equal(t, "", got.Designation)
	assert.Equal(t, []string{"update 1"}, remote.calls)
}

func TestReconciler_UpdateOutOfRange(t *testing.T) {
	remote := &fakeRemote{}
	r, s := newTestReconciler(remote, employee("1", "Amy"))
	before := s.Snapshot()

	err := r.Update(context.Background(), 3, validRecord(t, employee("", "Zed Zed")))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Empty(t, remote.calls)
	assert.Empty(t, cmp.Diff(before, s.Snapshot()))
}

func TestReconciler_Delete(t *testing.T) {
	remote := &fakeRemote{}
	r, s := newTestReconciler(remote, employee("1", "Amy"), employee("2", "Bob"))

	require.NoError(t, r.Delete(context.Background(), 0))

	assert.Equal(t, []dto.Employee{employee("2", "Bob")}, s.Snapshot())
	assert.Equal(t, []string{"delete 1"}, remote.calls)
}

func TestReconciler_DeleteFailureLeavesStore(t *testing.T) {
	r, s := newTestReconciler(&fakeRemote{deleteErr: errBackendDown}, employee("1", "Amy"), employee("2", "Bob"))
	before := s.Snapshot()

	err := r.Delete(context.Background(), 0)

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "1", rce.ID)
	assert.Empty(t, cmp.Diff(before, s.Snapshot()))
}

func TestReconciler_StaleOutcomeIsIgnored(t *testing.T) {
	r, s := newTestReconciler(&fakeRemote{}, employee("1", "Amy"), employee("2", "Bob"))

	upd, err := r.PrepareUpdate(1, validRecord(t, employee("", "Bobby")))
	require.NoError(t, err)
	del, err := r.PrepareDelete(1)
	require.NoError(t, err)

	require.NoError(t, r.Apply(r.Execute(context.Background(), del)))
	before := s.Snapshot()

	err = r.Apply(r.Execute(context.Background(), upd))
	assert.ErrorIs(t, err, ErrRecordGone)
	assert.Empty(t, cmp.Diff(before, s.Snapshot()))
}

func TestReconciler_OutcomeFollowsMovedRecord(t *testing.T) {
	r, s := newTestReconciler(&fakeRemote{}, employee("1", "Amy"), employee("2", "Bob"), employee("3", "Cat"))

	upd, err := r.PrepareUpdate(2, validRecord(t, employee("", "Cathy")))
	require.NoError(t, err)

	require.NoError(t, r.Delete(context.Background(), 0))
	require.NoError(t, r.Apply(r.Execute(context.Background(), upd)))

	got, _ := s.At(1)
	assert.Equal(t, "Cathy", got.Name)
	assert.Equal(t, "3", got.ID)
}

func TestReconciler_Load(t *testing.T) {
	bad := employee("3", "X")
	remote := &fakeRemote{list: []dto.Employee{
		employee("1", "Amy"),
		employee("2", "Bob"),
		bad,
		employee("1", "Amy Again"),
		employee("", "No Id"),
	}}
	r, s := newTestReconciler(remote)

	require.NoError(t, r.Load(context.Background()))
	assert.Equal(t, []dto.Employee{employee("1", "Amy"), employee("2", "Bob")}, s.Snapshot())
}

func TestReconciler_LoadFailureLeavesStore(t *testing.T) {
	r, s := newTestReconciler(&fakeRemote{listErr: errBackendDown}, employee("1", "Amy"))

	err := r.Load(context.Background())

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, OpFetch, rce.Op)
	assert.Equal(t, []dto.Employee{employee("1", "Amy")}, s.Snapshot())
}

func TestRemoteCallError_Message(t *testing.T) {
	assert.Equal(t, "remote delete 4: backend down", (&RemoteCallError{Op: OpDelete, ID: "4", Err: errBackendDown}).Error())
	assert.Equal(t, "remote fetch: backend down", (&RemoteCallError{Op: OpFetch, Err: errBackendDown}).Error())
}
