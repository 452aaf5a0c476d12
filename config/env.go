package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv          = "local"
	defaultAppPort         = "3000"
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultMongoDatabase   = "productapi"
	defaultJWTSecret       = "change-me-in-production"
	defaultJWTTTL          = 24 * time.Hour
	defaultMaxBodyBytes    = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":              defaultAppEnv,
		"APP_PORT":             defaultAppPort,
		"MONGO_URI":            defaultMongoURI,
		"MONGO_DATABASE":       defaultMongoDatabase,
		"JWT_SECRET":           defaultJWTSecret,
		"JWT_TTL":              defaultJWTTTL.String(),
		"REDIS_ADDR":           "",
		"REDIS_PASSWORD":       "",
		"LOG_MONGO_COLLECTION": "",
		"CORS_ALLOWED_ORIGINS": "*",
		"MAX_BODY_BYTES":       strconv.Itoa(defaultMaxBodyBytes),
		"SHUTDOWN_TIMEOUT":     defaultShutdownTimeout.String(),
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// UsingDefaultJWTSecret reports whether JWT_SECRET was left at its built-in value.
func UsingDefaultJWTSecret() bool {
	return JWTSecret() == defaultJWTSecret
}

// JWTTTL is the lifetime of issued access tokens.
func JWTTTL() time.Duration {
	_ = Load()
	return duration("JWT_TTL", defaultJWTTTL)
}

// RedisAddr is empty when no token denylist is configured.
func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", "")
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// LogMongoCollection names the collection that receives log records.
// Empty disables the MongoDB log sink.
func LogMongoCollection() string {
	_ = Load()
	return get("LOG_MONGO_COLLECTION", "")
}

// CORSAllowedOrigins returns the comma-separated CORS_ALLOWED_ORIGINS list.
func CORSAllowedOrigins() []string {
	_ = Load()
	var origins []string
	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MaxBodyBytes caps decoded request bodies.
func MaxBodyBytes() int64 {
	_ = Load()
	n, err := strconv.ParseInt(get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBodyBytes
	}
	return n
}

func ShutdownTimeout() time.Duration {
	_ = Load()
	return duration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
}

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

// mergeEnviron lets process environment variables override file values for
// every key the service knows about.
func mergeEnviron(out map[string]string) {
	for key := range defaultValues() {
		if v, ok := os.LookupEnv(key); ok {
			out[key] = strings.TrimSpace(v)
		}
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Get reads any config key by name with an optional fallback.
// Keys from app.json, .env and the environment are available after Load.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
