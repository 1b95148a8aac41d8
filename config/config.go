package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo booking ledger.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Intent recognition thresholds. The top candidate is acted on at or
	// above AcceptThreshold; between ClarifyThreshold and AcceptThreshold
	// the assistant asks the user to rephrase; below ClarifyThreshold the
	// utterance is treated as unrecognized.
	AcceptThreshold  float64 `mapstructure:"ACCEPT_THRESHOLD"`
	ClarifyThreshold float64 `mapstructure:"CLARIFY_THRESHOLD"`

	// Dialogue retry caps and session lifetime.
	ClarifyRetryCap    int `mapstructure:"CLARIFY_RETRY_CAP"`
	ConfirmRetryCap    int `mapstructure:"CONFIRM_RETRY_CAP"`
	SessionIdleMinutes int `mapstructure:"SESSION_IDLE_MINUTES"`

	// Calendar template: slots start at CalendarDayStart (minutes from
	// midnight) and run every CalendarSlotMinutes, CalendarSlotsPerDay per
	// working day, over a rolling window of CalendarWindowDays.
	CalendarDayStart    int      `mapstructure:"CALENDAR_DAY_START"`
	CalendarSlotMinutes int      `mapstructure:"CALENDAR_SLOT_MINUTES"`
	CalendarSlotsPerDay int      `mapstructure:"CALENDAR_SLOTS_PER_DAY"`
	CalendarWindowDays  int      `mapstructure:"CALENDAR_WINDOW_DAYS"`
	CalendarWorkingDays []string `mapstructure:"CALENDAR_WORKING_DAYS"`

	// Optional Gemini-backed intent recognition.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Minutes before a slot start at which the reminder task fires.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "concierge")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONTEXT_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("ACCEPT_THRESHOLD", 0.75)
	viper.SetDefault("CLARIFY_THRESHOLD", 0.4)
	viper.SetDefault("CLARIFY_RETRY_CAP", 3)
	viper.SetDefault("CONFIRM_RETRY_CAP", 2)
	viper.SetDefault("SESSION_IDLE_MINUTES", 30)
	viper.SetDefault("CALENDAR_DAY_START", 540) // 9:00 AM
	viper.SetDefault("CALENDAR_SLOT_MINUTES", 30)
	viper.SetDefault("CALENDAR_SLOTS_PER_DAY", 16)
	viper.SetDefault("CALENDAR_WINDOW_DAYS", 7)
	viper.SetDefault("CALENDAR_WORKING_DAYS", []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
