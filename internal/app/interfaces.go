package app

import (
	"gorm.io/gorm"

	"github.com/craftista/storefront/config"
	"github.com/craftista/storefront/internal/catalog"
	"github.com/craftista/storefront/internal/translate"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, name string) string
	GetSettingsInt64Value(category, name string) int64
	GetSettingsBoolValue(category, name string) bool
}

// EngineProvider provides the locale synchronization engine
type EngineProvider interface {
	Materializer() *catalog.Materializer
	Synchronizer() *catalog.Synchronizer
	Translator() translate.Translator
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	EngineProvider

	// Application lifecycle methods
	MigrateDB() error
	InitDb()
}
