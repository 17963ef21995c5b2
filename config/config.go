package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

// TranslateConfig configures the remote translation provider. An empty
// ApiKey is a supported state: the gateway then runs in pass-through mode.
type TranslateConfig struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint"`
	ApiKey     string        `yaml:"api_key" json:"api_key"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers"`
	BatchSize  int           `yaml:"batch_size" json:"batch_size"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Database  DBConfig        `yaml:"database" json:"database"`
	Translate TranslateConfig `yaml:"translate" json:"translate"`
	Logger    LogConfig       `yaml:"logger" json:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Craftista",
			Location: "Europe/Istanbul",
			Workdir:  "/var/craftista",
			Debug:    true,
		},
		Web: WebConfig{
			Host:      "0.0.0.0",
			Port:      1816,
			JwtSecret: "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "craftista",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  100,
			IdleConn: 10,
		},
		Translate: TranslateConfig{
			Endpoint:   "https://translation.googleapis.com/language/translate/v2",
			ApiKey:     "",
			Timeout:    15 * time.Second,
			MaxWorkers: 8,
			BatchSize:  32,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/craftista/craftista.log",
		},
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file is not an error; defaults are used.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "config file %s parse error: %s\n", cfile, err.Error())
			}
		}
	}
	setEnvValue("CRAFTISTA_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("CRAFTISTA_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("CRAFTISTA_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CRAFTISTA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("CRAFTISTA_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvValue("CRAFTISTA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CRAFTISTA_DB_PORT", &cfg.Database.Port)
	setEnvValue("CRAFTISTA_DB_NAME", &cfg.Database.Name)
	setEnvValue("CRAFTISTA_DB_USER", &cfg.Database.User)
	setEnvValue("CRAFTISTA_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("CRAFTISTA_TRANSLATE_ENDPOINT", &cfg.Translate.Endpoint)
	setEnvValue("CRAFTISTA_TRANSLATE_API_KEY", &cfg.Translate.ApiKey)
	setEnvIntValue("CRAFTISTA_TRANSLATE_MAX_WORKERS", &cfg.Translate.MaxWorkers)
	setEnvValue("CRAFTISTA_LOGGER_MODE", &cfg.Logger.Mode)
	return cfg
}

func setEnvValue(name string, f *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*f = evalue
	}
}

func setEnvBoolValue(name string, f *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*f = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, f *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*f = cast.ToInt(evalue)
	}
}
