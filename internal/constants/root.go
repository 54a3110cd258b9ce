package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.1.0"

	// DateFormat is the calendar date format used for completion events (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used for reminders (HH:MM)
	TimeFormat = "15:04"

	// Persistence keys
	HabitsKey     = "@habits"
	SleepKey      = "@sleepData"
	MeditationKey = "@meditationData"
	UserNameKey   = "user_name"

	DefaultUserName = "User"

	// Environment variables
	EnvConfig       = "HABITUAL_CONFIG"
	EnvDebug        = "HABITUAL_DEBUG"
	EnvDBConnection = "HABITUAL_DB_CONNECTION"
)

