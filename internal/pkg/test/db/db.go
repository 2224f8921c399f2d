package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresStartRequest struct {
	User     string
	Password string
	DB       string
}

// ContainerAddr is where a started test container listens.
type ContainerAddr struct {
	Host string
	Port string
}

func StartPostgres(ctx context.Context, cfg PostgresStartRequest) (ContainerAddr, func()) {
	return start(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     cfg.User,
			"POSTGRES_PASSWORD": cfg.Password,
			"POSTGRES_DB":       cfg.DB,
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}, "5432/tcp")
}

func StartRedis(ctx context.Context) (ContainerAddr, func()) {
	return start(ctx, testcontainers.ContainerRequest{
		Image:        "redis:8.4-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}, "6379/tcp")
}

func start(ctx context.Context, req testcontainers.ContainerRequest, port string) (ContainerAddr, func()) {
	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("failed to start %s container: %v", req.Image, err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		log.Fatalf("failed to get host: %v", err)
	}

	mapped, err := cont.MappedPort(ctx, port)
	if err != nil {
		log.Fatalf("failed to get port: %v", err)
	}

	closer := func() {
		_ = cont.Terminate(context.Background())
	}
	return ContainerAddr{
		Host: host,
		Port: mapped.Port(),
	}, closer
}

// RunMigrations drops every object created by the migrations in folder and
// applies them again, leaving an empty schema.
func RunMigrations(t *testing.T, db *sql.DB, folder string) {
	t.Helper()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("failed to get postgres driver: %v", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		"test", driver)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}

	if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to drop existing db objects: %v", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

type dbQuery struct {
	t   *testing.T
	row *sql.Row
}

func Query(t *testing.T, db *sql.DB, query string, args ...any) *dbQuery {
	t.Helper()

	row := db.QueryRow(query, args...)
	require.NoError(t, row.Err())

	return &dbQuery{
		t:   t,
		row: row,
	}
}

// Exec runs a statement and returns the id produced by its RETURNING clause,
// or 0 for statements without one.
func Exec(t *testing.T, db *sql.DB, stmt string, args ...any) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(stmt, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0
	}
	require.NoError(t, err)
	return id
}

func (q *dbQuery) AsInt64() int64 {
	q.t.Helper()

	var id int64
	err := q.row.Scan(&id)
	require.NoError(q.t, err)
	return id
}

func (q *dbQuery) AsString() string {
	q.t.Helper()

	var s string
	err := q.row.Scan(&s)
	require.NoError(q.t, err)
	return s
}

func (q *dbQuery) AsNullString() sql.NullString {
	q.t.Helper()

	var s sql.NullString
	err := q.row.Scan(&s)
	require.NoError(q.t, err)
	return s
}
