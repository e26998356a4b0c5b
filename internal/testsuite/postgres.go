// Package testsuite starts throwaway PostgreSQL instances for integration
// tests and applies the schema migrations to them.
package testsuite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// AnalyticsTables lists the schema tables in dependency order, children first.
var AnalyticsTables = []string{"order_items", "orders", "order_statuses", "customers", "products"}

type PostgresSuite struct {
	suite.Suite
	PgContainer *postgres.PostgresContainer
	DB          *sql.DB
	ConnStr     string
	Ctx         context.Context
}

// SetupInfrastructure starts PostgreSQL and migrates it. The suite is
// skipped under -short or when no container runtime is reachable.
func (s *PostgresSuite) SetupInfrastructure(migrationsRelPath string) {
	if testing.Short() {
		s.T().Skip("skipping postgres integration suite in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(s.T())

	s.Ctx = context.Background()

	var err error
	s.PgContainer, err = postgres.Run(
		s.Ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("analytics_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)

	s.ConnStr, err = s.PgContainer.ConnectionString(s.Ctx, "sslmode=disable")
	s.Require().NoError(err)

	absPath, err := filepath.Abs(migrationsRelPath)
	s.Require().NoError(err)

	sourceURL := "file://" + absPath
	log.Printf("running migrations from: %s", sourceURL)

	m, err := migrate.New(sourceURL, s.ConnStr)
	s.Require().NoError(err)
	s.Require().NoError(m.Up())
	srcErr, dbErr := m.Close()
	s.Require().NoError(srcErr)
	s.Require().NoError(dbErr)

	s.DB, err = sql.Open("postgres", s.ConnStr)
	s.Require().NoError(err)
	s.Require().NoError(s.DB.PingContext(s.Ctx))
}

func (s *PostgresSuite) TearDownInfrastructure() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.PgContainer != nil {
		if err := s.PgContainer.Terminate(s.Ctx); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}
}

// TruncateTables empties tables and resets their id sequences.
func (s *PostgresSuite) TruncateTables(tables ...string) {
	_, err := s.DB.ExecContext(s.Ctx,
		fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	s.Require().NoError(err)
}

// InsertID runs an INSERT ... RETURNING id and returns the new id.
func (s *PostgresSuite) InsertID(query string, args ...any) int64 {
	var id int64
	s.Require().NoError(s.DB.QueryRowContext(s.Ctx, query, args...).Scan(&id))
	return id
}
