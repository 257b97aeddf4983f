package repository

import "gorm.io/gorm"

// Migrate creates or updates every table this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&internModel{},
		&visitModel{},
		&visitorModel{},
		&moneyDonationModel{},
		&goodsDonationModel{},
	)
}
