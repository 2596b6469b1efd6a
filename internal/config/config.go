package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

var Config *ServerConfig

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// AllowedEmailDomains is a list of email domains that the server will allow account registrations from. If empty,
	// all domains will be allowed.
	AllowedEmailDomains []string
	// SessionCookieName is the name to use for the session cookie.
	SessionCookieName string
	// SessionCookieExpiration is the amount of time a session cookie is valid. Max 2 weeks.
	SessionCookieExpiration time.Duration
	// Port is the port the server should run on.
	Port int
	// CourseReaperInterval is how often the background reaper sweeps tombstoned courses.
	CourseReaperInterval time.Duration
}

// Load reads configuration from the environment, falling back to defaults
// suitable for local development.
func Load() *ServerConfig {
	v := viper.New()
	v.SetEnvPrefix("coursehub")
	v.AutomaticEnv()

	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("allowed_email_domains", []string{})
	v.SetDefault("session_cookie_name", "coursehub-session")
	v.SetDefault("session_cookie_expiration", time.Hour*24*14)
	v.SetDefault("port", 8080)
	v.SetDefault("course_reaper_interval", time.Minute*5)

	return &ServerConfig{
		AllowedOrigins:          v.GetStringSlice("allowed_origins"),
		AllowedEmailDomains:     v.GetStringSlice("allowed_email_domains"),
		SessionCookieName:       v.GetString("session_cookie_name"),
		SessionCookieExpiration: v.GetDuration("session_cookie_expiration"),
		Port:                    v.GetInt("port"),
		CourseReaperInterval:    v.GetDuration("course_reaper_interval"),
	}
}

func init() {
	Config = Load()
	log.Println("🙂️ Loaded server configuration.")
}
