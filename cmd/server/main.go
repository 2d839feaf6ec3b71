package main

import (
	"fmt"
	"net/http"

	"freightbroker/config"
	"freightbroker/db"
	"freightbroker/db/mongo"
	"freightbroker/db/postgres"
	"freightbroker/handlers"
	"freightbroker/lifecycle"
	"freightbroker/matching"
	"freightbroker/notify"
	"freightbroker/repository"
	"freightbroker/roles"
	"freightbroker/routes"
	"freightbroker/sequence"
)

func main() {
	// Load config from .env or config file
	cfg := config.LoadConfig()

	var dispatchRepo repository.DispatchRepository
	var truckRepo repository.TruckRepository
	var sequenceRepo repository.SequenceRepository
	var roleRepo repository.RoleRepository

	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		// Schema migrations only apply to the SQL backend
		db.RunMigrations(cfg.PostgresURL)

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			panic(err)
		}
		defer pg.Disconnect()

		dispatchRepo = repository.NewPostgresDispatchRepo(pg.Conn)
		truckRepo = repository.NewPostgresTruckRepo(pg.Conn)
		sequenceRepo = repository.NewPostgresSequenceRepo(pg.Conn)
		roleRepo = repository.NewPostgresRoleRepo(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			panic(err)
		}
		defer mg.Disconnect()

		dispatchRepo = repository.NewMongoDispatchRepo(mg.Client)
		truckRepo = repository.NewMongoTruckRepo(mg.Client)
		sequenceRepo = repository.NewMongoSequenceRepo(mg.Client)
		roleRepo = repository.NewMongoRoleRepo(mg.Client)

	default:
		panic("DB_TYPE not supported")
	}

	// Core components
	allocator := sequence.NewAllocator(sequenceRepo)
	notifier := notify.NewLogNotifier()
	machine := lifecycle.NewStateMachine(dispatchRepo, allocator, notifier)
	engine := matching.NewEngine(dispatchRepo, truckRepo, notifier, cfg.MatchRadiusMiles, cfg.DefaultPageLimit)
	roleCache := roles.NewCache(roleRepo)

	// Handlers
	dispatchHandler := &handlers.DispatchHandler{Repo: dispatchRepo, Machine: machine, DefaultLimit: cfg.DefaultPageLimit}
	truckHandler := &handlers.TruckHandler{Repo: truckRepo, Allocator: allocator, DefaultLimit: cfg.DefaultPageLimit}
	matchHandler := &handlers.MatchHandler{Engine: engine, DefaultLimit: cfg.DefaultPageLimit}
	sequenceHandler := &handlers.SequenceHandler{Allocator: allocator}
	roleHandler := &handlers.RoleHandler{Cache: roleCache}

	routes.SetupRoutes(dispatchHandler, truckHandler, matchHandler, sequenceHandler, roleHandler)

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		panic(err)
	}
}
