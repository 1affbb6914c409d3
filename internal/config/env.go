package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	AIAPIKey  string
	GenModel  string
	RedisAddr string
	RedisPass string
	StreamTTL time.Duration
	Heartbeat time.Duration
	IdleLimit time.Duration
	Pipeline  PipelineConfig
}

// PipelineConfig carries the trace toggles handed to the extraction pipeline
// at construction. There is no global mutable debug state.
type PipelineConfig struct {
	Debug           bool
	AnnotationTrace bool
	StreamTrace     bool
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		AIAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GenModel:  getEnv("GEN_MODEL", "gemini-1.5-flash"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		StreamTTL: time.Duration(getEnvInt("STREAM_TTL_MS", 120_000)) * time.Millisecond,
		Heartbeat: time.Duration(getEnvInt("HEARTBEAT_MS", 15_000)) * time.Millisecond,
		IdleLimit: time.Duration(getEnvInt("IDLE_TIMEOUT_MS", 60_000)) * time.Millisecond,
		Pipeline: PipelineConfig{
			Debug:           getEnvBool("DEBUG", false),
			AnnotationTrace: getEnvBool("ANNOTATION_TRACE", false),
			StreamTrace:     getEnvBool("STREAM_TRACE", false),
		},
	}

	return cfg
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

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %v", key, v, def)
		return def
	}
	return b
}
