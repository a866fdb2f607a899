package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schema = `
create table if not exists employees (
  id          text primary key,
  name        text not null,
  dob         date not null,
  contact     text not null,
  email       text not null,
  address     text not null,
  department  text not null,
  designation text not null default '',
  salary      numeric(14,2) not null check (salary > 0),
  created_at  timestamptz not null default now(),
  updated_at  timestamptz not null default now()
);
`

type Repository struct {
	pool PgxPoolIface
}

func NewRepository(pool PgxPoolIface) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the employees table when it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, e dto.Employee) error {
	query := `
insert into employees
  (id, name, dob, contact, email, address, department, designation, salary, created_at, updated_at)
values
  (@id, @name, @dob::date, @contact, @email, @address, @department, @designation, @salary, now(), now());
`
	_, err := r.pool.Exec(ctx, query, namedArgs(e))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return dto.ErrAlreadyExists
		}

		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}

func (r *Repository) Update(ctx context.Context, e dto.Employee) error {
	query := `
update employees set
  name        = @name,
  dob         = @dob::date,
  contact     = @contact,
  email       = @email,
  address     = @address,
  department  = @department,
  designation = @designation,
  salary      = @salary,
  updated_at  = now()
where id = @id;
`
	tag, err := r.pool.Exec(ctx, query, namedArgs(e))
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	query := `delete from employees where id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

const selectColumns = `
select id,
       name,
       to_char(dob, 'YYYY-MM-DD'),
       contact,
       email,
       address,
       department,
       designation,
       salary::float8
from employees
`

func (r *Repository) Get(ctx context.Context, id string) (*dto.Employee, error) {
	row := r.pool.QueryRow(ctx, selectColumns+`where id = $1`, id)

	out, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrNotFound
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return &out, nil
}

func (r *Repository) List(ctx context.Context) ([]dto.Employee, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`order by created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out := []dto.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

// Reset удаляет все записи справочника.
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `truncate employees`); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (dto.Employee, error) {
	var e dto.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.DOB,
		&e.Contact,
		&e.Email,
		&e.Address,
		&e.Department,
		&e.Designation,
		&e.Salary,
	)
	return e, err
}

func namedArgs(e dto.Employee) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          e.ID,
		"name":        e.Name,
		"dob":         e.DOB,
		"contact":     e.Contact,
		"email":       e.Email,
		"address":     e.Address,
		"department":  e.Department,
		"designation": e.Designation,
		"salary":      e.Salary,
	}
}
