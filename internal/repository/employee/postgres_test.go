package employee

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/library/pg"
)

// Runs against a real database when HRD_TEST_PG holds a connection string.
func TestRepository_Postgres(t *testing.T) {
	conn := os.Getenv("HRD_TEST_PG")
	if conn == "" {
		t.Skip("HRD_TEST_PG not set")
	}

	ctx := context.Background()
	client, err := pg.NewPG(ctx, conn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	repo := NewRepository(client.Pool())
	require.NoError(t, repo.Migrate(ctx))

	e := dto.Employee{
		ID:          uuid.NewString(),
		Name:        "Jane Doe",
		DOB:         "1994-06-12",
		Contact:     "9161234567",
		Email:       "jane@example.com",
		Address:     "12 Baker Street",
		Department:  "Quality",
		Designation: "QA Engineer",
		Salary:      85000.5,
	}
	require.NoError(t, repo.Create(ctx, e))
	t.Cleanup(func() { _ = repo.Delete(ctx, e.ID) })

	assert.ErrorIs(t, repo.Create(ctx, e), dto.ErrAlreadyExists)

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, *got)

	e.Name = "Jane Smith"
	require.NoError(t, repo.Update(ctx, e))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, e)

	require.NoError(t, repo.Delete(ctx, e.ID))
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), dto.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, e), dto.ErrNotFound)
}
