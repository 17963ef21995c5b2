package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/pkg/common"
)

// MigrateDB creates or updates the schema for all registered tables.
func (a *Application) MigrateDB() error {
	return a.gormDB.AutoMigrate(domain.Tables...)
}

// InitDb seeds the minimum data set a fresh installation needs.
func (a *Application) InitDb() {
	a.checkSuper()
	a.checkDefaultSettings()
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "craftista"

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashed,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
	}
}

func (a *Application) checkDefaultSettings() {
	defaults := []domain.SysConfig{
		{Type: "translate", Name: "max_workers", Value: "8", Remark: "bulk sync worker pool size"},
		{Type: "system", Name: "oprlog_retention_days", Value: "365", Remark: "operation log retention"},
	}
	for _, item := range defaults {
		var exists int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", item.Type, item.Name).Count(&exists)
		if exists > 0 {
			continue
		}
		item.ID = common.UUIDint64()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&item).Error; err != nil {
			zap.L().Error("failed to seed setting", zap.String("name", item.Name), zap.Error(err))
		}
	}
}
