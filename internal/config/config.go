package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses the connection lifetime knob
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Two independent signing secrets are used: a
// leaked access secret only compromises short-lived access tokens, while
// the refresh secret also signs control tokens and is backed by revocable
// database records.
type Config struct {
	Env           string        // application environment ("dev", "test", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	DBMaxConns    int           // open/idle connection cap for the pool
	DBConnMaxLife time.Duration // recycle connections older than this
	AccessSecret  string        // secret used to sign access tokens
	RefreshSecret string        // secret used to sign refresh and control tokens
	AccessTTLMin  int           // access token time-to-live in minutes
	RefreshTTLMin int           // refresh/control token time-to-live in minutes
	BcryptCost    int           // bcrypt cost for password hashing
	AdminUser     string        // username of the seeded admin account (optional)
	AdminPass     string        // plaintext password of the seeded admin (optional)
	AdminEmail    string        // email of the seeded admin account (optional)
}

// Production reports whether the app runs in production mode.  Production
// collapses authentication error messages into generic ones so that user
// enumeration through error texts is not possible.
func (c Config) Production() bool { return c.Env == "prod" }

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		DBMaxConns:    envInt("DB_MAX_CONNS", 25),
		DBConnMaxLife: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		AccessSecret:  must("ACCESS_TOKEN_SECRET"),
		RefreshSecret: must("REFRESH_TOKEN_SECRET"),
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLMin: mustInt("REFRESH_TOKEN_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		AdminUser:     os.Getenv("ADMIN_USERNAME"), // empty disables seeding
		AdminPass:     os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
