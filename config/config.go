package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Notify   NotifyConfig
	Company  CompanyInfo
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Driver   string
	Path     string // sqlite file path
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type StorageConfig struct {
	// BasePath is the root of the date-partitioned output tree for
	// generated invoices and JSON snapshots.
	BasePath string `mapstructure:"base_path"`
}

// NotifyConfig carries the credentials for the three notification channels.
// Every field is optional: a channel whose prerequisites are missing is
// disabled rather than an error.
type NotifyConfig struct {
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSecure bool

	SMSAPIKey   string
	SMSSenderID string
	SMSFlowID   string

	WhatsappAppID  string
	WhatsappAPIKey string
	WhatsappSender string

	// ResendOnDuplicate controls whether reprocessing an already-persisted
	// invoice resends notifications. The web app relies on replays to
	// re-deliver lost confirmations, so it defaults to on.
	ResendOnDuplicate bool
}

// CompanyInfo is the shop identity printed on invoices and used in
// message templates. Loaded from config/company.toml.
type CompanyInfo struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "local_server_data/database/signcraft.db")
	viper.SetDefault("STORAGE_BASE_PATH", "local_server_data")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMS_SENDER_ID", "SIGNCRAFT")
	viper.SetDefault("NOTIFY_RESEND_ON_DUPLICATE", true)

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Path:     viper.GetString("DB_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Storage: StorageConfig{
			BasePath: viper.GetString("STORAGE_BASE_PATH"),
		},
		Notify: NotifyConfig{
			SMTPHost:          viper.GetString("SMTP_HOST"),
			SMTPPort:          viper.GetInt("SMTP_PORT"),
			SMTPUser:          viper.GetString("SMTP_USER"),
			SMTPPass:          viper.GetString("SMTP_PASS"),
			SMTPSecure:        viper.GetBool("SMTP_SECURE"),
			SMSAPIKey:         viper.GetString("MSG91_API_KEY"),
			SMSSenderID:       viper.GetString("SMS_SENDER_ID"),
			SMSFlowID:         viper.GetString("MSG91_FLOW_ID"),
			WhatsappAppID:     viper.GetString("GUPSHUP_APP_ID"),
			WhatsappAPIKey:    viper.GetString("GUPSHUP_API_KEY"),
			WhatsappSender:    viper.GetString("GUPSHUP_SENDER"),
			ResendOnDuplicate: viper.GetBool("NOTIFY_RESEND_ON_DUPLICATE"),
		},
	}

	// Load TOML config for company identity
	companyViper := viper.New()
	companyViper.SetConfigFile("config/company.toml")
	companyViper.SetConfigType("toml")
	if err := companyViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/company.toml not found, using empty company info: %v", err)
	} else {
		if err := companyViper.UnmarshalKey("company", &cfg.Company); err != nil {
			log.Printf("Error: Failed to unmarshal company info from TOML: %v", err)
		}
	}

	return cfg
}
