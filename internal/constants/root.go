package constants

const (
	AppName           = "daybook"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/daybook"
	DefaultStorePath  = "~/.config/daybook/daybook.db"
	DefaultConfigFile = "~/.config/daybook/config.yaml"

	// DateFormat is the calendar date format used for entry and completion dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LabelFormat is the short date format used for chart labels ("Jan 2")
	LabelFormat = "Jan 2"

	// DefaultUserID is the owner assigned to records that carry no user id
	DefaultUserID int64 = 1

	// Keyring constants
	KeyringService = "daybook"
	KeyringUser    = "session"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"
	BackupPrefix  = "daybook-"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "daybook.log"
)
