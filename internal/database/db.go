package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectPause    = 2 * time.Second
)

// Open connects to Postgres, retrying while the database comes up.
func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	gormLog := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= connectAttempts; i++ {
		log.Infof("trying to connect to DB (attempt %d/%d)...", i, connectAttempts)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
		if err == nil {
			log.Info("connected to DB successfully")
			return db, nil
		}

		log.WithError(err).Warn("failed to connect to DB")
		if i < connectAttempts {
			time.Sleep(connectPause)
		}
	}
	return nil, fmt.Errorf("connecting to db after %d attempts: %w", connectAttempts, err)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
