package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/craftista/storefront/config"
	"github.com/craftista/storefront/internal/catalog"
	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/internal/translate"
	"github.com/craftista/storefront/pkg/metrics"
)

type Application struct {
	appConfig    *config.AppConfig
	gormDB       *gorm.DB
	sched        *cron.Cron
	gateway      *translate.Gateway
	materializer *catalog.Materializer
	synchronizer *catalog.Synchronizer
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ EngineProvider   = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.initEngine()
}

func (a *Application) Materializer() *catalog.Materializer {
	return a.materializer
}

func (a *Application) Synchronizer() *catalog.Synchronizer {
	return a.synchronizer
}

func (a *Application) Translator() translate.Translator {
	return a.gateway
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.initDatabase(cfg)
	a.initEngine()
	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var log *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		log, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(log)
}

func (a *Application) initDatabase(cfg *config.AppConfig) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Passwd,
		cfg.Database.Name, cfg.Database.Port, cfg.System.Location)

	logLevel := logger.Warn
	if cfg.System.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// TranslateError turns the driver's duplicate-key violations into
		// gorm.ErrDuplicatedKey, which the store maps to a typed conflict.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		zap.S().Panicf("database connect error: %s", err.Error())
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.Database.IdleConn)
	}
	a.gormDB = db
}

func (a *Application) initEngine() {
	a.gateway = translate.NewGateway(a.appConfig.Translate)
	store := catalog.NewGormStore(a.gormDB)
	a.materializer = catalog.NewMaterializer(store, a.gateway)
	workers := a.appConfig.Translate.MaxWorkers
	if v := a.GetSettingsInt64Value("translate", "max_workers"); v > 0 {
		workers = int(v)
	}
	a.synchronizer = catalog.NewSynchronizer(store, a.materializer, workers)
}

// GetSettingsStringValue reads one sys_config value, empty when absent.
func (a *Application) GetSettingsStringValue(category, name string) string {
	if a.gormDB == nil {
		return ""
	}
	var value string
	a.gormDB.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Limit(1).Pluck("value", &value)
	return value
}

func (a *Application) GetSettingsInt64Value(category, name string) int64 {
	return cast.ToInt64(a.GetSettingsStringValue(category, name))
}

func (a *Application) GetSettingsBoolValue(category, name string) bool {
	return cast.ToBool(a.GetSettingsStringValue(category, name))
}

func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	metrics.Close()
	_ = zap.L().Sync()
}
