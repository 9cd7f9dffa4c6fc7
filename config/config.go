package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MQBackendNone     = "none"
	MQBackendRabbitMQ = "rabbitmq"
	MQBackendPubSub   = "pubsub"
)

type Config struct {
	ServerPort int
	Database   DatabaseConfig
	Accounts   AccountsConfig
	Log        LogConfig
	MQ         MQConfig
	// CORSAllowedOrigins defaults to "*", matching the legacy web client.
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	UseSSL       bool
	Path         string
	MaxOpenConns int
}

// AccountsConfig holds the admin identity and the post-login destinations
// handed back to the web client.
type AccountsConfig struct {
	AdminEmail      string
	AdminRedirect   string
	TeacherRedirect string
	StudentRedirect string
}

type LogConfig struct {
	Level  string
	Format string
}

type MQConfig struct {
	Backend         string
	ActivityChannel string
	RabbitMQ        RabbitMQConfig
	PubSub          PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		Host:         getEnv("DB_HOST", getEnv("MYSQLHOST", "localhost")),
		Port:         getEnvInt("DB_PORT", getEnvInt("MYSQLPORT", 3306)),
		User:         getEnv("DB_USER", getEnv("MYSQLUSER", "edutrack")),
		Password:     getEnv("DB_PASSWORD", getEnv("MYSQLPASSWORD", "password")),
		DBName:       getEnv("DB_NAME", getEnv("MYSQLDATABASE", "ieti_edutrack_db")),
		UseSSL:       getEnvBool("DB_USE_SSL", false),
		Path:         getEnv("DB_PATH", "edutrack.db"),
		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
	}

	accounts := AccountsConfig{
		AdminEmail:      strings.ToLower(getEnv("ADMIN_EMAIL", "admin@ieti.edu.ph")),
		AdminRedirect:   getEnv("ADMIN_REDIRECT", "/static/admin-dashboard.html"),
		TeacherRedirect: getEnv("TEACHER_REDIRECT", "teacher/dashboard.html"),
		StudentRedirect: getEnv("STUDENT_REDIRECT", "student/student-dashboard.html"),
	}

	mqConfig := MQConfig{
		Backend:         strings.ToLower(getEnv("MQ_BACKEND", MQBackendNone)),
		ActivityChannel: getEnv("ACTIVITY_CHANNEL", "edutrack.activities"),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
		},
		PubSub: PubSubConfig{
			ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
		},
	}

	return Config{
		ServerPort: getEnvInt("PORT", 3000),
		Database:   dbConfig,
		Accounts:   accounts,
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		MQ:                 mqConfig,
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvList(key string, defaultValue []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
