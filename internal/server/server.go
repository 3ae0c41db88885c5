package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprintdeck/internal/config"
	"sprintdeck/internal/handler"
	"sprintdeck/internal/middleware"
	"sprintdeck/internal/repository"
	"sprintdeck/internal/service"
	"sprintdeck/migrations"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine    *gin.Engine
	UserDB    *gorm.DB
	ProjectDB *gorm.DB
	TaskDB    *gorm.DB
	Config    *config.Config
}

// Init connects the three stores, migrates each one and wires the services.
// The stores never share a connection: every cross-store interaction goes
// through a service interface.
func Init(cfg *config.Config) (*Server, error) {
	userDB, err := openStore(cfg.UserDB, "user")
	if err != nil {
		return nil, err
	}
	projectDB, err := openStore(cfg.ProjectDB, "project")
	if err != nil {
		return nil, err
	}
	taskDB, err := openStore(cfg.TaskDB, "task")
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to user, project and task stores")

	// Setup Gin
	r := gin.Default()

	// Repositories, each bound to its own store
	userRepo := repository.NewUserRepository(userDB)
	projectRepo := repository.NewProjectRepository(projectDB)
	membershipRepo := repository.NewMembershipRepository(projectDB)
	sprintRepo := repository.NewSprintRepository(taskDB)
	taskRepo := repository.NewTaskRepository(taskDB)

	// Services
	membershipSvc := service.NewMembershipService(projectRepo, membershipRepo, userRepo)
	taskSvc := service.NewTaskService(taskRepo, sprintRepo, membershipSvc)
	sprintSvc := service.NewSprintService(sprintRepo, taskRepo, membershipSvc)
	projectSvc := service.NewProjectService(projectRepo, membershipRepo, userRepo, taskSvc)
	userSvc := service.NewUserService(userRepo, projectRepo, membershipRepo, taskSvc, membershipSvc)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, userSvc)
	projectHandler := handler.NewProjectHandler(projectSvc, membershipSvc)
	memberHandler := handler.NewMemberHandler(membershipSvc)
	sprintHandler := handler.NewSprintHandler(sprintSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		authorized.GET("/users/:id", userHandler.GetByID)
		authorized.DELETE("/users/:id", userHandler.Delete)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.GetAll)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/transfer", projectHandler.TransferOwnership)

		// Membership routes
		authorized.GET("/projects/:id/members", memberHandler.List)
		authorized.POST("/projects/:id/members", memberHandler.Add)
		authorized.DELETE("/projects/:id/members/:user_id", memberHandler.Remove)

		// Sprint routes
		authorized.POST("/projects/:id/sprints", sprintHandler.Create)
		authorized.GET("/projects/:id/sprints", sprintHandler.GetByProject)
		authorized.GET("/sprints/:id", sprintHandler.GetByID)
		authorized.PUT("/sprints/:id", sprintHandler.Update)
		authorized.DELETE("/sprints/:id", sprintHandler.Delete)
		authorized.GET("/sprints/:id/tasks", taskHandler.GetBySprint)

		// Task routes
		authorized.POST("/projects/:id/tasks", taskHandler.Create)
		authorized.GET("/projects/:id/tasks", taskHandler.GetByProject)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
	}

	return &Server{
		Engine:    r,
		UserDB:    userDB,
		ProjectDB: projectDB,
		TaskDB:    taskDB,
		Config:    cfg,
	}, nil
}

func openStore(cfg config.DBConfig, store string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to %s store: %w", store, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("❌ failed to get %s store connection: %w", store, err)
	}
	if err := migrations.Apply(sqlDB, store); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate %s store: %w", store, err)
	}
	return db, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
