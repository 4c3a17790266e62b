package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	APIBaseURL     string
	ViaCEPBaseURL  string
	RequestTimeout time.Duration
	RequestsPerSec float64

	// CredentialPath is the bbolt file holding the persisted login token.
	CredentialPath string

	// Dev stub server settings.
	ServerAddr string
	JWTSecret  string
	UploadDir  string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using defaults")
	}

	return Config{
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:5000"),
		ViaCEPBaseURL:  getenv("VIACEP_BASE_URL", "https://viacep.com.br"),
		RequestTimeout: cast.ToDuration(getenv("REQUEST_TIMEOUT", "15s")),
		RequestsPerSec: cast.ToFloat64(getenv("REQUESTS_PER_SEC", "10")),
		CredentialPath: getenv("CREDENTIAL_PATH", credentialPathDefault()),
		ServerAddr:     getenv("SERVER_ADDR", ":5000"),
		JWTSecret:      getenv("JWT_SECRET", "mugiwara-dev-secret"),
		UploadDir:      getenv("UPLOAD_DIR", "static/uploads/produtos"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func credentialPathDefault() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mugiwara-credentials.db"
	}
	return filepath.Join(home, ".mugiwara-credentials.db")
}
