package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.password_hash, u.confirmed, u.created_at,
	r.id, r.name, r.permissions, r.is_default`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Confirmed,
		&u.CreatedAt,
		&u.Role.ID,
		&u.Role.Name,
		&u.Role.Permissions,
		&u.Role.Default)
	return u, err
}

func (s *PostgresStore) CreateUser(ctx context.Context, r CreateUserRequest) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, first_name, last_name, password_hash, role_id, confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		strings.ToLower(r.Email),
		r.FirstName,
		r.LastName,
		r.PasswordHash,
		r.RoleID,
		r.Confirmed).Scan(&id)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users AS u
		 JOIN roles AS r ON r.id = u.role_id
		 WHERE u.id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		return u, notFound(err, "scan user")
	}

	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users AS u
		 JOIN roles AS r ON r.id = u.role_id
		 WHERE u.email = $1`, strings.ToLower(email))

	u, err := scanUser(row)
	if err != nil {
		return u, notFound(err, "scan user")
	}

	return u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+`
		 FROM users AS u
		 JOIN roles AS r ON r.id = u.role_id
		 ORDER BY u.email`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *PostgresStore) UpdateUser(ctx context.Context, r UpdateUserRequest) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET
		     role_id = COALESCE($2, role_id),
		     confirmed = COALESCE($3, confirmed),
		     password_hash = COALESCE($4, password_hash),
		     first_name = COALESCE($5, first_name),
		     last_name = COALESCE($6, last_name)
		 WHERE id = $1`,
		r.ID,
		r.RoleID,
		r.Confirmed,
		r.PasswordHash,
		r.FirstName,
		r.LastName)
	if err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return ErrNotFound
		}

		return fmt.Errorf("update user: %w", err)
	}

	return affected(res, "update user")
}

func (s *PostgresStore) GetRole(ctx context.Context, name string) (model.Role, error) {
	var r model.Role
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, permissions, is_default FROM roles WHERE name = $1", name).
		Scan(&r.ID, &r.Name, &r.Permissions, &r.Default)
	if err != nil {
		return r, notFound(err, "scan role")
	}

	return r, nil
}

func (s *PostgresStore) DefaultRole(ctx context.Context) (model.Role, error) {
	var r model.Role
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, permissions, is_default FROM roles WHERE is_default ORDER BY id LIMIT 1").
		Scan(&r.ID, &r.Name, &r.Permissions, &r.Default)
	if err != nil {
		return r, notFound(err, "scan default role")
	}

	return r, nil
}
