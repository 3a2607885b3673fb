package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	PolicyInferred = "inferred"
	PolicyExplicit = "explicit"
)

type Config struct {
	GRPCPort string
	HTTPPort string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitURL string

	JWTKey        string
	CSRFKey       string
	SecureCookies bool
	RolePolicy    string
	RoutesFile    string

	MailgunDomain string
	MailgunAPIKey string
	MailSender    string

	SignInRate  float64
	SignInBurst int

	SessionTTL          time.Duration
	SessionReapInterval time.Duration
}

func envOrDefaultString(env, def string) string {
	if val, ok := os.LookupEnv(env); ok {
		return val
	}

	return def
}

func envOrDefaultInt(env string, def int) int {
	val, ok := os.LookupEnv(env)
	if !ok {
		return def
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}

	return i
}

func envOrDefaultFloat(env string, def float64) float64 {
	val, ok := os.LookupEnv(env)
	if !ok {
		return def
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}

	return f
}

func envOrDefaultBool(env string, def bool) bool {
	val, ok := os.LookupEnv(env)
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}

	return b
}

func envOrDefaultDuration(env string, def time.Duration) time.Duration {
	val, ok := os.LookupEnv(env)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}

	return d
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)

	cfg := Config{
		GRPCPort: envOrDefaultString("PORT", "6969"),
		HTTPPort: envOrDefaultString("HTTP_PORT", "8080"),

		MongoURI:      envOrDefaultString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envOrDefaultString("MONGO_DATABASE", "gym"),

		RedisAddr:     envOrDefaultString("REDIS_ADDR", ""),
		RedisPassword: envOrDefaultString("REDIS_PASSWORD", ""),
		RedisDB:       envOrDefaultInt("REDIS_DB", 0),

		RabbitURL: envOrDefaultString("RABBITMQ_CONNSTRING", ""),

		JWTKey:        envOrDefaultString("JWT_KEY", "test-key"),
		CSRFKey:       envOrDefaultString("CSRF_KEY", "01234567890123456789012345678901"),
		SecureCookies: envOrDefaultBool("SECURE_COOKIES", false),
		RolePolicy:    envOrDefaultString("ROLE_POLICY", PolicyInferred),
		RoutesFile:    envOrDefaultString("ROUTES_FILE", ""),

		MailgunDomain: envOrDefaultString("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: envOrDefaultString("MAILGUN_API_KEY", ""),
		MailSender:    envOrDefaultString("MAIL_SENDER", "gym@localhost"),

		SignInRate:  envOrDefaultFloat("SIGNIN_RATE", 0.2),
		SignInBurst: envOrDefaultInt("SIGNIN_BURST", 5),

		SessionTTL:          envOrDefaultDuration("SESSION_TTL", 24*time.Hour),
		SessionReapInterval: envOrDefaultDuration("SESSION_REAP_INTERVAL", time.Minute),
	}

	if cfg.RolePolicy != PolicyExplicit {
		cfg.RolePolicy = PolicyInferred
	}

	return cfg
}
