package config

const (
	defaultDataDir             = "~/.local/share/pheme"
	defaultLogDir              = "~/.local/share/pheme/logs"
	defaultProviderTimeout     = 15
	defaultNotifyTimeout       = 10
	defaultPriceIntervalHours  = 10
	defaultStatusIntervalHours = 20
	defaultKeepaliveBind       = "127.0.0.1:8037"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
	defaultBirthdayFile        = "~/.config/pheme/birthdays.csv"
	defaultBirthdayHour        = 9
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Providers: Providers{
			RequestTimeout: defaultProviderTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Sweep: Sweep{
			PriceIntervalHours:  defaultPriceIntervalHours,
			StatusIntervalHours: defaultStatusIntervalHours,
			KeepaliveBind:       defaultKeepaliveBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Birthdays: Birthdays{
			File: defaultBirthdayFile,
			Hour: defaultBirthdayHour,
		},
	}
}
