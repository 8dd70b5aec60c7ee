package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		Build        string
		AppName      string
		SecretKey    string
		Timezone     *time.Location
		WeekStart    time.Weekday
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		Imports   ImportsConfig
		Storage   StorageConfig
		Videos    VideosConfig
		Google    GoogleConfig
		Passwords PasswordsConfig
	}

	ServerConfig struct {
		Host                      string
		DebugHost                 string
		DisableReqLogs            bool
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite file
	}

	ImportsConfig struct {
		Strict bool
	}

	StorageConfig struct {
		Root          string
		PublicBaseURL string
	}

	VideosConfig struct {
		MaxBytes int64
	}

	GoogleConfig struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	PasswordsConfig struct {
		CommonListPath string
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func (dc DatabaseConfig) IsSQLite() bool {
	return dc.Engine == "sqlite"
}

// NewConfig loads the configuration of the current ENV (DEV (local; default), TEST, QA, PROD).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "k1x9-vue)mz8$+31=pq&aodh7(c!w)#*d4(#ra5f^$tb0g3nz")
	conf.SetDefault("timezone", "UTC")
	conf.SetDefault("weekStart", "monday")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "0.0.0.0:8000")
	conf.SetDefault("server.debugHost", "0.0.0.0:4000")
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "shule")
	conf.SetDefault("database.user", "shule")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.path", "shule.db")

	conf.SetDefault("imports.strict", false)
	conf.SetDefault("storage.root", "media")
	conf.SetDefault("storage.publicBaseURL", "/media/")
	conf.SetDefault("videos.maxBytes", int64(100<<20))
	conf.SetDefault("google.clientID", "")
	conf.SetDefault("google.clientSecret", "")
	conf.SetDefault("google.redirectURL", "http://localhost:8000/v1/google-classroom/callback")
	conf.SetDefault("passwords.commonListPath", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	dotEnvPath := filepath.Join(configDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	tz, err := time.LoadLocation(conf.GetString("timezone"))
	if err != nil {
		log.Fatalf("config.timezone(%s): %v", conf.GetString("timezone"), err)
	}
	weekStart := time.Monday
	if strings.EqualFold(conf.GetString("weekStart"), "sunday") {
		weekStart = time.Sunday
	}

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		Timezone:     tz,
		WeekStart:    weekStart,
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			DebugHost:                 conf.GetString("server.debugHost"),
			DisableReqLogs:            conf.GetBool("server.disableReqLogs"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
			Path:          conf.GetString("database.path"),
		},
		Imports: ImportsConfig{Strict: conf.GetBool("imports.strict")},
		Storage: StorageConfig{
			Root:          conf.GetString("storage.root"),
			PublicBaseURL: conf.GetString("storage.publicBaseURL"),
		},
		Videos: VideosConfig{MaxBytes: conf.GetInt64("videos.maxBytes")},
		Google: GoogleConfig{
			ClientID:     conf.GetString("google.clientID"),
			ClientSecret: conf.GetString("google.clientSecret"),
			RedirectURL:  conf.GetString("google.redirectURL"),
		},
		Passwords: PasswordsConfig{CommonListPath: conf.GetString("passwords.commonListPath")},
	}
}

// NewTestConfig returns the configuration used by tests: sqlite, UTC, no request logs.
func NewTestConfig() *Config {
	_ = os.Setenv("ENV", "TEST")
	conf := NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Timezone = time.UTC
	conf.WeekStart = time.Monday
	conf.Database.Engine = "sqlite"
	conf.Server.DisableReqLogs = true
	return conf
}
