package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string

	LLMProvider string
	AIAPIKey    string
	OpenAIKey   string
	OpenAIBase  string
	GenModel    string
	EmbedModel  string
	EmbedDim    int
	LLMTimeout  time.Duration

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	DemoAttemptCap int
	OwnerPhrase    string
	OwnerTTL       time.Duration
	DemoIdleTTL    time.Duration
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		LLMProvider: getEnv("LLM_PROVIDER", "gemini"),
		AIAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBase:  getEnv("OPENAI_BASE_URL", ""),
		GenModel:    getEnv("GEN_MODEL", ""),
		EmbedModel:  getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:    getEnvInt("EMBED_DIM", 768),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 60*time.Second),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "ghostwriter-samples"),

		DemoAttemptCap: getEnvInt("DEMO_ATTEMPT_CAP", 3),
		OwnerPhrase:    getEnv("OWNER_MODE_PHRASE", ""),
		OwnerTTL:       getEnvDuration("OWNER_MODE_TTL", 30*24*time.Hour),
		DemoIdleTTL:    getEnvDuration("DEMO_IDLE_TTL", 2*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
