// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to Bridge of Hope.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management
	SessionKey    string // secret for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // blank means current host

	// Base URL for OAuth callbacks
	BaseURL string

	// Google OAuth (sign-in only; registration stays on the form)
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging: "all", "db", "log", or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// Sign-in rate limiting
	LoginRateLimit  int
	LoginRateWindow string

	// Bootstrap: email promoted to approved administrator on startup.
	// Empty means the first user claims the seat via the bootstrap
	// endpoint instead.
	AdminEmail string

	// Seed the devstore with sample centers/children/messages when the
	// keys are empty. Development convenience.
	SeedSampleData bool
}
