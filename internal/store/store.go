package store

import (
	"errors"

	"github.com/repolens/repolens/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.AnalysisSession{},
		&models.AnalysisStep{},
		&models.Finding{},
		&models.Report{},
		&models.GitHubInstallation{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Health verifies database connectivity
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// wrapNotFound maps gorm's sentinel onto the store's
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
