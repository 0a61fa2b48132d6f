package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/api"
	"github.com/dom/league-damage-calc/internal/cache"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/repository"
	"github.com/dom/league-damage-calc/internal/repository/memory"
	repoPostgres "github.com/dom/league-damage-calc/internal/repository/postgres"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_damage_calc"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Same connect-and-migrate path as the server
	db, err := repoPostgres.NewConnection(dsn)
	if err != nil {
		t.Fatalf("failed to open catalog database: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears the catalog for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Exec("TRUNCATE TABLE catalog_entries").Error; err != nil {
		t.Logf("warning: failed to truncate catalog_entries: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "0", // Random port
		Environment:          "test",
		SearchCacheTTL:       time.Minute,
		JWTSecret:            "test-jwt-secret-key-for-testing-only",
		DefaultTargetHealth:  2000,
		DefaultDuration:      10,
		SearchWorkers:        4,
		MaxSearchEvaluations: 10000,
	}
}

// MemoryRepositories serves the embedded dataset from memory
func MemoryRepositories(t *testing.T) *repository.Repositories {
	t.Helper()

	repos, err := memory.NewRepositories(DefaultDataset(t))
	if err != nil {
		t.Fatalf("failed to build memory repositories: %v", err)
	}
	return repos
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Repos    *repository.Repositories
	Services *service.Services
	Cache    *cache.MemoryCache
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewTestServer creates a test server backed by the embedded dataset
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	return NewTestServerWithRepos(t, MemoryRepositories(t))
}

// NewTestServerWithRepos creates a test server over the given repositories
func NewTestServerWithRepos(t *testing.T, repos *repository.Repositories) *TestServer {
	t.Helper()

	cfg := TestConfig()
	searchCache := cache.NewMemoryCache(time.Minute)

	services := service.NewServices(repos, searchCache, cfg)
	hub := websocket.NewHub(services.Damage)
	go hub.Run()

	router := api.NewRouter(services, hub)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Repos:    repos,
		Services: services,
		Cache:    searchCache,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
		searchCache.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the search WebSocket URL
func (ts *TestServer) WebSocketURL() string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws/search", wsURL)
}

// AdminToken issues a token accepted by the catalog import endpoint
func (ts *TestServer) AdminToken(t *testing.T) string {
	t.Helper()

	token, err := ts.Services.Auth.IssueToken("test-admin", service.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue admin token: %v", err)
	}
	return token
}
