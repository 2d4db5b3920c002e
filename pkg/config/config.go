package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var configDir string
var configFilePath string
var credentialsPath string

// Collections lists the entity keys whose BaaS collection ids are configurable
// under baas.collections.<key>.
var Collections = []string{
	"users",
	"posts",
	"reels",
	"comments",
	"likes",
	"saves",
	"notifications",
	"chatrooms",
	"messages",
}

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\ansnips
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "ansnips"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/ansnips
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ansnips"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "ansnips", "config.toml")}
	}

	return []string{
		"/etc/ansnips/config.toml",
		"/usr/local/etc/ansnips/config.toml",
	}
}

// Init initializes the configuration. Sources are layered: defaults, the first
// system config found, the user config, then ANSNIPS_* environment variables
// (a .env file in the working directory is loaded into the environment first).
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	credentialsPath = filepath.Join(configDir, "credentials")

	// Missing .env is the normal case.
	_ = godotenv.Load()

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("ansnips")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.MergeInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("baas.endpoint", "http://localhost/v1")
	viper.SetDefault("baas.realtime_endpoint", "")
	viper.SetDefault("baas.project", "ansnips")
	viper.SetDefault("baas.api_key", "")
	viper.SetDefault("baas.database", "ansnips")
	viper.SetDefault("baas.bucket", "media")
	viper.SetDefault("baas.timeout", 30)
	for _, c := range Collections {
		viper.SetDefault("baas.collections."+c, c)
	}

	viper.SetDefault("cdn.base_url", "https://api.cloudinary.com/v1_1")
	viper.SetDefault("cdn.delivery_url", "https://res.cloudinary.com")
	viper.SetDefault("cdn.cloud_name", "")
	viper.SetDefault("cdn.api_key", "")
	viper.SetDefault("cdn.api_secret", "")
	viper.SetDefault("cdn.upload_preset", "")
	viper.SetDefault("cdn.folder", "reels")

	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", 300)

	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "ansnips.log"))
	viper.SetDefault("log.max_size_mb", 10)
	viper.SetDefault("log.max_backups", 3)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a value for the current process only
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and persists the user config
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// Collection returns the configured collection id for an entity key
func Collection(entity string) string {
	return viper.GetString("baas.collections." + entity)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFilePath returns the user config file path
func GetConfigFilePath() string {
	return configFilePath
}

// GetCredentialsPath returns the path to the credentials file
func GetCredentialsPath() string {
	return credentialsPath
}
