package blog

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate applies the blog schema using Gorm's AutoMigrate and seeds the
// singleton settings row.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "blog.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying blog schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&PostRecord{}, &SettingRecord{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("blog schema migration failed")
		}
		return eris.Wrap(err, "auto migrating blog schema")
	}

	seed := defaultSettingRecord()
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error
	if err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("seeding settings failed")
		}
		return eris.Wrap(err, "seeding settings row")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("blog schema migration complete")
	}

	return nil
}
