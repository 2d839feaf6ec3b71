package db

import (
	"database/sql"

	"freightbroker/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func RunMigrations(dbURL string) {
	log := logger.New("migrate")
	if dbURL == "" {
		log.Fatal().Msg("POSTGRES_URL not set in environment")
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to postgres")
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not start postgres driver")
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://db/migrations",
		"postgres", driver,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed to start")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal().Err(err).Msg("could not run up migrations")
	}

	log.Info().Msg("migrations applied")
}
