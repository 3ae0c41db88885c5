package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DBConfig describes one of the three independently-owned stores. Each store
// gets its own database so nothing can lean on a shared transaction.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name,
	)
}

type Config struct {
	UserDB     DBConfig
	ProjectDB  DBConfig
	TaskDB     DBConfig
	ServerPort string
	JWTSecret  string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		UserDB:     loadDB("USER_DB", "sprintdeck_users"),
		ProjectDB:  loadDB("PROJECT_DB", "sprintdeck_projects"),
		TaskDB:     loadDB("TASK_DB", "sprintdeck_tasks"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
	}
}

func loadDB(prefix, defaultName string) DBConfig {
	return DBConfig{
		Host:     getEnv(prefix+"_HOST", "localhost"),
		Port:     getEnv(prefix+"_PORT", "5432"),
		User:     getEnv(prefix+"_USER", "sprintdeck"),
		Password: getEnv(prefix+"_PASSWORD", "sprintdeck"),
		Name:     getEnv(prefix+"_NAME", defaultName),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
