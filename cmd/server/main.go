package main

import (
	"log"

	_ "sprintdeck/docs"
	"sprintdeck/internal/config"
	"sprintdeck/internal/server"
)

// @title           Sprintdeck API
// @version         1.0
// @description     Project, sprint and task management across independent user, project and task stores.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
