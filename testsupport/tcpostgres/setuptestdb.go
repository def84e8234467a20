//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/racedatahub/racedata-manager-go/pkg/db/migrate"
	database "github.com/racedatahub/racedata-manager-go/pkg/db/postgres"
)

// create a pg connection pool for the racedata testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("racedata-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}

	pool, err := database.InitWithURL(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

// SetupExternalTestDb connects to an already running database given by
// TESTDB_URL. Used on CI where the database is provided as a service.
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := database.InitWithURL(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearTelemetryTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from telemetry")
}

func ClearLapTimeTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from lap_times")
}

func ClearSectionTimeTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from section_times")
}

func ClearRaceResultTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_results")
}

func ClearWeatherTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from weather")
}

func ClearVehicleTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from vehicles")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearTelemetryTable(pool)
	ClearLapTimeTable(pool)
	ClearSectionTimeTable(pool)
	ClearRaceResultTable(pool)
	ClearWeatherTable(pool)
	ClearVehicleTable(pool)
}
