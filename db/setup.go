package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
)

// Connect opens the database handle. The handle is passed explicitly to the
// store layer; there is no package-level connection.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.RefreshToken{},
	}

	migrator := conn.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := conn.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
