package config

import (
	"log"
	"os"
	"strings"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/data"
	"gorm.io/gorm"
)

type Config struct {
	Port           string
	MySQLDSN       string
	RedisURL       string
	AdminKey       string
	JWTSecret      string
	AllowedOrigins []string
	EnableSSL      bool
	SSLCert        string
	SSLKey         string
}

// Load reads configuration from the settings table with environment
// fallbacks. An empty AdminKey leaves every admin action failing closed.
func Load(db *gorm.DB) Config {
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	adminKey := setting("admin_key", "ADMIN_KEY")
	jwtSecret := setting("jwt_secret", "JWT_SECRET")
	origins := setting("allowed_origins", "ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	return Config{
		Port:           getenv("PORT", "8080"),
		MySQLDSN:       getenv("MYSQL_DSN", "dev:test@tcp(localhost:3306)/accountability"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AdminKey:       adminKey,
		JWTSecret:      jwtSecret,
		AllowedOrigins: splitOrigins(origins),
		EnableSSL:      os.Getenv("ENABLE_SSL") == "true",
		SSLCert:        os.Getenv("SSL_CERT"),
		SSLKey:         os.Getenv("SSL_KEY"),
	}
}

func setting(name, envKey string) string {
	if v := data.GetSetting(name); v != "" {
		return v
	}
	return os.Getenv(envKey)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
