package db

import (
	"fmt"

	"github.com/pcoptima/channels-collector/db/models"
	"gorm.io/gorm"
)

// AutoMigrate creates the channels table when it does not exist yet.
// Safe to call on every start.
func AutoMigrate(gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("nil gorm db")
	}
	return gdb.AutoMigrate(
		&models.Channel{},
	)
}
