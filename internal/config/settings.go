package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings is the process-level configuration for the CLI and the HTTP server.
// Rule files carry the tax rules; Settings only says where things live.
type Settings struct {
	Env       string // development -> console logs; production -> JSON
	LogLevel  string
	DBPath    string // SQLite file holding filing flags; empty opens an in-memory database for the process
	HTTPAddr  string
	RulesFile string
}

// LoadSettings reads FISCAL_* environment variables and, when present, a
// fiscal.env file in the working directory or ./config. Keys in the file omit
// the prefix (DB_PATH=...). Env vars win.
func LoadSettings() (*Settings, error) {
	v := viper.New()

	v.SetConfigName("fiscal")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("FISCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Settings{
		Env:       v.GetString("env"),
		LogLevel:  v.GetString("log_level"),
		DBPath:    v.GetString("db_path"),
		HTTPAddr:  v.GetString("http_addr"),
		RulesFile: v.GetString("rules_file"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_path", "fiscal.db")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("rules_file", "")
}
