package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tablebook/restaurant-reservation/internal/config"
	"github.com/tablebook/restaurant-reservation/internal/database"
	"github.com/tablebook/restaurant-reservation/internal/handler"
	"github.com/tablebook/restaurant-reservation/internal/queue"
	"github.com/tablebook/restaurant-reservation/internal/repository"
	"github.com/tablebook/restaurant-reservation/internal/router"
	"github.com/tablebook/restaurant-reservation/internal/service"
)

func main() {
	// .env is optional; in production configuration comes from the
	// real environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	svc := service.NewReservationService(db, tables, reservations)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Users:        handler.NewUserHandler(cfg, users),
		Reservations: handler.NewReservationHandler(svc, reservations, users),
		Tables:       handler.NewTableHandler(tables),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.Register(e, cfg, h, rdb)

	go queue.StartReservationConsumer()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
