package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"fileshare/internal/upload"
)

// Config holds application level configuration aggregated from env/config files.
// The on-disk shape is the classic config.json of the server:
//
//	{
//	  "port": 8000,
//	  "app_title": "File Server",
//	  "max_file_size_mb": 3000,
//	  "file_restrictions": {"mode": "allow", "extensions": [".pdf", ".txt"]}
//	}
type Config struct {
	Port             int                 `mapstructure:"port"`
	AppTitle         string              `mapstructure:"app_title"`
	MaxFileSizeMB    int                 `mapstructure:"max_file_size_mb"`
	FileRestrictions upload.Restrictions `mapstructure:"file_restrictions"`

	// Filesystem roots and the user store location.
	FilesRoot  string `mapstructure:"files_root"`
	StaticRoot string `mapstructure:"static_root"`
	ViewsRoot  string `mapstructure:"views_root"`
	UsersFile  string `mapstructure:"users_file"`
}

// MaxUploadBytes converts the configured megabyte limit to bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// Load reads configuration from environment variables and an optional
// config.json in the working directory.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("FILESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8000)
	v.SetDefault("app_title", "File Server")
	v.SetDefault("max_file_size_mb", 3000)
	v.SetDefault("file_restrictions.mode", "")
	v.SetDefault("file_restrictions.extensions", []string{})
	v.SetDefault("files_root", "public_files")
	v.SetDefault("static_root", "static")
	v.SetDefault("views_root", "views")
	v.SetDefault("users_file", "users.json")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.FileRestrictions.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
