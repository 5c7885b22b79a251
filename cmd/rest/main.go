package main

import (
	"context"
	"log"

	"portfolio-notes-be/internal/bootstrap"
	"portfolio-notes-be/internal/config"
	"portfolio-notes-be/internal/server"
	"portfolio-notes-be/internal/tracer"
	"portfolio-notes-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
