package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string             `yaml:"env" env-default:"development"` // environment
	SiteURL      string             `yaml:"site_url" env:"SITE_URL" env-default:"http://localhost:3000"`
	HTTPServer   HTTPServerConfig   `yaml:"http_server"`
	Database     DatabaseConfig     `yaml:"database"`
	Payment      PaymentConfig      `yaml:"payment"`
	MondialRelay MondialRelayConfig `yaml:"mondial_relay"`
	Email        EmailConfig        `yaml:"email"`
	Admin        AdminConfig        `yaml:"admin"`
	Migrations   MigrationsConfig   `yaml:"migrations"`
}

// HTTPServerConfig settings of the http server
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig settings of the product/review database
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// PaymentConfig holds the PayPlug integration settings. The secret key only
// ever comes from the environment.
type PaymentConfig struct {
	APIURL    string `yaml:"api_url" env-default:"https://api.payplug.com/v1"`
	SecretKey string `yaml:"-" env:"PAYPLUG_SECRET_KEY" env-required:"true"`
}

// MondialRelayConfig holds the locker-lookup provider credentials.
type MondialRelayConfig struct {
	Endpoint   string `yaml:"endpoint" env-default:"https://api.mondialrelay.com/Web_Services.asmx"`
	Enseigne   string `yaml:"-" env:"MONDIAL_RELAY_ENSEIGNE" env-required:"true"`
	PrivateKey string `yaml:"-" env:"MONDIAL_RELAY_PRIVATE_KEY" env-required:"true"`
}

// EmailConfig holds the Resend settings. An empty API key switches the mail
// client to log-only mode instead of failing.
type EmailConfig struct {
	APIURL string `yaml:"api_url" env-default:"https://api.resend.com"`
	APIKey string `yaml:"-" env:"RESEND_API_KEY"`
	From   string `yaml:"from" env-default:"La Chabroderie <commandes@lachabroderie.fr>"`
}

// AdminConfig settings of the admin session
type AdminConfig struct {
	JWTSecret    string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	PasswordHash string `yaml:"-" env:"ADMIN_PASSWORD_HASH" env-required:"true"`
	TokenTTL     int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - panics when the configuration cannot be loaded
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
