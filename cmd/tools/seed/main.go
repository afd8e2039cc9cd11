// Command seed loads a development dataset: a default tariff plus a handful
// of drivers and vehicles, so the API is usable right after `docker compose up`.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/store"
	"github.com/noah-isme/backend-parking/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := migrations.Run(dbURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	repo := store.New(pool)

	seedTariff(ctx, repo, pool)
	seedDrivers(ctx, repo, pool)
	seedVehicles(ctx, repo, pool)

	log.Println("seeding completed")
}

func seedTariff(ctx context.Context, repo *store.Store, pool *pgxpool.Pool) {
	if _, err := repo.LatestTariff(ctx, pool); err == nil {
		log.Println("tariff already present, skipping")
		return
	}

	opens, _ := billing.ParseTimeOfDay("08:00")
	closes, _ := billing.ParseTimeOfDay("18:00")
	t := billing.Tariff{
		ID:                     uuid.New(),
		HourlyRate:             decimal.RequireFromString("10.00"),
		FinePerMinute:          decimal.RequireFromString("0.10"),
		OpensAt:                opens,
		ClosesAt:               closes,
		DiscountThresholdHours: 50,
		DiscountGrantHours:     5,
		DiscountEnabled:        true,
		MotorcycleSpots:        20,
		CarSpots:               30,
		VanSpots:               10,
	}
	if _, err := repo.CreateTariff(ctx, pool, t); err != nil {
		log.Fatalf("seed tariff: %v", err)
	}
	log.Println("seeded default tariff")
}

func seedDrivers(ctx context.Context, repo *store.Store, pool *pgxpool.Pool) {
	drivers := []store.Driver{
		{ID: uuid.New(), Name: "Ana Souza", Phone: "+55 11 98888-0001", Active: true},
		{ID: uuid.New(), Name: "Bruno Lima", Phone: "+55 11 98888-0002", Active: true},
		{ID: uuid.New(), Name: "Carla Mendes", Phone: "+55 11 98888-0003", Active: true},
	}
	fmt.Println("seeding drivers...")
	for _, d := range drivers {
		if _, err := repo.CreateDriver(ctx, pool, d); err != nil {
			log.Printf("seed driver %s: %v", d.Name, err)
		}
	}
}

func seedVehicles(ctx context.Context, repo *store.Store, pool *pgxpool.Pool) {
	vehicles := []store.Vehicle{
		{ID: uuid.New(), Plate: "ABC1D23", Type: billing.Car, Year: 2020, Active: true},
		{ID: uuid.New(), Plate: "DEF4G56", Type: billing.Motorcycle, Year: 2022, Active: true},
		{ID: uuid.New(), Plate: "GHI7J89", Type: billing.Van, Year: 2018, Active: true},
	}
	fmt.Println("seeding vehicles...")
	for _, v := range vehicles {
		if _, err := repo.CreateVehicle(ctx, pool, v); err != nil {
			if store.IsUniqueViolation(err) {
				continue
			}
			log.Printf("seed vehicle %s: %v", v.Plate, err)
		}
	}
}
