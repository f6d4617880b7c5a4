package config

// ConfigBackend is where persisted settings live. On macOS that is the
// whatnow UserDefaults domain; elsewhere a JSON file under XDG_CONFIG_HOME.
// Missing keys report ok=false rather than an error.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
