//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-core/cmd/bootstrap"
	"booking-core/cmd/bootstrap/components"
	"booking-core/internal/domain/availability"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/config"
	"booking-core/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "booking"
	pgPassword = "booking"
	pgPort     = "5432/tcp"
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgErr       error
)

// migrations applied to every fresh database, in order
var schemaFiles = []string{
	"migrations/001_initial_schema.sql",
}

type Endpoint struct {
	Host string
	Port nat.Port
}

func (e Endpoint) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, e.Host, e.Port.Port(), database)
}

// Environment is what one suite gets: its own database, the wired router,
// and the process-local availability index behind it.
type Environment struct {
	Pool   *pgxpool.Pool
	Router *gin.Engine
	Config config.Config
	Index  *availability.Index
}

func newEnvironment(t *testing.T) Environment {
	gin.SetMode(gin.TestMode)

	endpoint := postgresEndpoint(t)
	dbCfg := createDatabase(t, endpoint)

	pool, closePool, err := db.Connect(dbCfg)
	require.NoError(t, err, "connect to suite database")
	t.Cleanup(closePool)

	require.NoError(t, applySchema(pool), "apply schema")
	require.NoError(t, dbtest.SeedReferenceData(pool), "seed reference data")

	env := Environment{Pool: pool}
	app := fx.New(
		fx.Supply(pool),
		fx.Provide(func() config.Config { return testConfig(dbCfg) }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.SectionsModule,
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.CacheModule,
		bootstrap.MessagingModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		components.IndexWarmUpModule,
		fx.Populate(&env.Router, &env.Config, &env.Index),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(startCtx), "start booking app")

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("failed to stop booking app", "error", err)
		}
	})

	slog.Info("e2e environment ready", "database", dbCfg.DBName, "host", endpoint.Host, "port", endpoint.Port.Port())
	return env
}

func testConfig(dbCfg config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	return cfg
}

// postgresEndpoint starts one PostgreSQL container per test binary.
func postgresEndpoint(t *testing.T) Endpoint {
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		pgContainer, pgErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{pgPort},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				// durability is irrelevant for throwaway data
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return Endpoint{Host: host, Port: port}.dsn("postgres")
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "booking-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, pgErr, "start postgres container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err)
	return Endpoint{Host: host, Port: port}
}

// createDatabase gives the calling suite a database of its own so suites can
// run in parallel against the shared container.
func createDatabase(t *testing.T, endpoint Endpoint) config.DBConfig {
	name := "booking_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, endpoint.dsn("postgres"))
	require.NoError(t, err, "connect as admin")
	defer admin.Close()

	// CREATE DATABASE serializes on the template; parallel suites may collide
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}
		if _, err = admin.Exec(ctx, "CREATE DATABASE "+name); err == nil {
			break
		}
		slog.Warn("create database failed, retrying", "database", name, "attempt", attempt+1, "error", err)
	}
	require.NoError(t, err, "create suite database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, endpoint.dsn("postgres"))
		if err != nil {
			slog.Warn("failed to connect for database drop", "database", name, "error", err)
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop suite database", "database", name, "error", err)
		}
	})

	return config.DBConfig{
		Host:     endpoint.Host,
		Port:     endpoint.Port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

func applySchema(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, file := range schemaFiles {
		sql, err := readFromRepoRoot(file)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", file, err)
		}
	}
	return nil
}

// readFromRepoRoot walks up from the package directory go test runs in.
func readFromRepoRoot(rel string) ([]byte, error) {
	dir := "."
	for range 4 {
		b, err := os.ReadFile(filepath.Join(dir, rel))
		if err == nil {
			return b, nil
		}
		dir = filepath.Join(dir, "..")
	}
	return nil, fmt.Errorf("%s not found above the working directory", rel)
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
	Index  *availability.Index
}

func (s *SharedSuite) SetupSuite() {
	env := newEnvironment(s.T())
	s.DB = env.Pool
	s.Router = env.Router
	s.Config = env.Config
	s.Index = env.Index
	s.Require().NotNil(s.Index, "availability index not wired")
}

// SetupSubTest truncates and reseeds. The index is not reset, so subtests
// work against resources they create themselves.
func (s *SharedSuite) SetupSubTest() {
	s.Require().NoError(dbtest.ResetDB(s.DB), "reset database")
}
