package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

func (s *PostgresStore) CreateControlList(ctx context.Context, r CreateControlListRequest) (int64, error) {
	vis := r.Visibility
	if vis == "" {
		vis = model.VisibilityPrivate
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO control_lists (name, description, notes, visibility)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		r.Name, r.Description, r.Notes, vis).Scan(&id)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}

		return 0, fmt.Errorf("insert control list: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) GetControlList(ctx context.Context, id int64) (model.ControlList, error) {
	var cl model.ControlList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, notes, visibility, created_at
		 FROM control_lists WHERE id = $1`, id).
		Scan(&cl.ID, &cl.Name, &cl.Description, &cl.Notes, &cl.Visibility, &cl.CreatedAt)
	if err != nil {
		return cl, notFound(err, "scan control list")
	}

	return cl, nil
}

func (s *PostgresStore) ListControlLists(ctx context.Context, r ListControlListsRequest) ([]model.ControlList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cl.id, cl.name, cl.description, cl.notes, cl.visibility, cl.created_at
		 FROM control_lists AS cl
		 WHERE $2
		    OR cl.visibility = 'public'
		    OR EXISTS (SELECT 1 FROM control_lists_users AS clu
		               WHERE clu.control_list_id = cl.id AND clu.user_id = $1)
		 ORDER BY cl.name`, r.UserID, r.All)
	if err != nil {
		return nil, fmt.Errorf("query control lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ControlList
	for rows.Next() {
		var cl model.ControlList
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Description, &cl.Notes, &cl.Visibility, &cl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan control list: %w", err)
		}
		lists = append(lists, cl)
	}

	return lists, rows.Err()
}

func (s *PostgresStore) UpdateControlList(ctx context.Context, r UpdateControlListRequest) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE control_lists SET
		     name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     notes = COALESCE($4, notes),
		     visibility = COALESCE($5, visibility)
		 WHERE id = $1`,
		r.ID, r.Name, r.Description, r.Notes, (*string)(r.Visibility))
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("update control list: %w", err)
	}

	return affected(res, "update control list")
}

func (s *PostgresStore) DeleteControlList(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM control_lists WHERE id = $1", id)
	if err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return ErrInUse
		}

		return fmt.Errorf("delete control list: %w", err)
	}

	return affected(res, "delete control list")
}

func (s *PostgresStore) ControlListMembers(ctx context.Context, id int64) ([]model.Member, error) {
	return s.members(ctx, "control_lists_users", "control_list_id", id)
}

func (s *PostgresStore) SetControlListMembers(ctx context.Context, id int64, members []model.Member) error {
	return s.setMembers(ctx, "control_lists_users", "control_list_id", id, members)
}

func (s *PostgresStore) ControlListMembership(ctx context.Context, id, userID int64) (model.Member, error) {
	return s.membership(ctx, "control_lists_users", "control_list_id", id, userID)
}

func (s *PostgresStore) members(ctx context.Context, table, key string, id int64) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.user_id, u.email, m.is_owner
		 FROM `+table+` AS m
		 JOIN users AS u ON u.id = m.user_id
		 WHERE m.`+key+` = $1
		 ORDER BY u.email`, id)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.IsOwner); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (s *PostgresStore) setMembers(ctx context.Context, table, key string, id int64, members []model.Member) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+key+" = $1", id)
	if err != nil {
		return fmt.Errorf("clear members: %w", err)
	}

	for _, m := range members {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO "+table+" ("+key+", user_id, is_owner) VALUES ($1, $2, $3)",
			id, m.UserID, m.IsOwner)
		if err != nil {
			if isPqErr(err, errForeignKeyViolation) {
				return ErrNotFound
			}
			if isPqErr(err, errUniqueViolation) {
				return ErrExists
			}

			return fmt.Errorf("insert member: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) membership(ctx context.Context, table, key string, id, userID int64) (model.Member, error) {
	m := model.Member{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		"SELECT is_owner FROM "+table+" WHERE "+key+" = $1 AND user_id = $2", id, userID).
		Scan(&m.IsOwner)
	if err != nil {
		return m, notFound(err, "scan membership")
	}

	return m, nil
}

func (s *PostgresStore) AllowedValues(ctx context.Context, r AllowedValuesRequest) ([]model.AllowedValue, int, error) {
	readable := "''"
	if r.Field == model.FieldMorph {
		readable = "readable"
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM `+allowedTable(r.Field)+`
		 WHERE control_list_id = $1 AND lower(label) LIKE $2`,
		r.ControlListID, prefixPattern(r.Prefix)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count allowed values: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, `+readable+` FROM `+allowedTable(r.Field)+`
		 WHERE control_list_id = $1 AND lower(label) LIKE $2
		 ORDER BY label`+limit(r.Limit, r.Offset),
		r.ControlListID, prefixPattern(r.Prefix))
	if err != nil {
		return nil, 0, fmt.Errorf("query allowed values: %w", err)
	}
	defer rows.Close()

	var values []model.AllowedValue
	for rows.Next() {
		var v model.AllowedValue
		if err := rows.Scan(&v.ID, &v.Label, &v.Readable); err != nil {
			return nil, 0, fmt.Errorf("scan allowed value: %w", err)
		}
		values = append(values, v)
	}

	return values, total, rows.Err()
}

func (s *PostgresStore) CountAllowed(ctx context.Context, controlListID int64, f model.Field) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM "+allowedTable(f)+" WHERE control_list_id = $1", controlListID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count allowed values: %w", err)
	}

	return n, nil
}

func (s *PostgresStore) IsAllowed(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+allowedTable(f)+" WHERE control_list_id = $1 AND label = $2)",
		controlListID, label).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("query allowed value: %w", err)
	}

	return ok, nil
}

func (s *PostgresStore) ReplaceAllowed(ctx context.Context, controlListID int64, f model.Field, values []model.AllowedValue) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+allowedTable(f)+" WHERE control_list_id = $1", controlListID)
	if err != nil {
		return fmt.Errorf("clear allowed values: %w", err)
	}

	for _, v := range values {
		if _, err := s.insertAllowed(ctx, controlListID, f, v, true); err != nil {
			return err
		}
	}

	return nil
}

func (s *PostgresStore) AddAllowed(ctx context.Context, controlListID int64, f model.Field, v model.AllowedValue) (int64, error) {
	return s.insertAllowed(ctx, controlListID, f, v, false)
}

// insertAllowed adds one value. Duplicates are skipped when lenient and
// reported as ErrExists otherwise.
func (s *PostgresStore) insertAllowed(ctx context.Context, controlListID int64, f model.Field, v model.AllowedValue, lenient bool) (int64, error) {
	query := "INSERT INTO " + allowedTable(f) + " (control_list_id, label) VALUES ($1, $2)"
	args := []any{controlListID, v.Label}
	if f == model.FieldMorph {
		query = "INSERT INTO allowed_morph (control_list_id, label, readable) VALUES ($1, $2, $3)"
		args = append(args, v.Readable)
	}
	if lenient {
		query += " ON CONFLICT DO NOTHING"
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
	if err != nil {
		if lenient && errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert allowed value: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) DeleteAllowed(ctx context.Context, controlListID int64, f model.Field, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+allowedTable(f)+" WHERE control_list_id = $1 AND id = $2", controlListID, id)
	if err != nil {
		return fmt.Errorf("delete allowed value: %w", err)
	}

	return affected(res, "delete allowed value")
}

// prefixPattern builds a LIKE pattern matching lower cased labels starting
// with prefix.
func prefixPattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(strings.ToLower(prefix)) + "%"
}
