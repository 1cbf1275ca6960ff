package seed

import (
	"muster/config"
	"muster/internal/logger"
	. "muster/internal/models"

	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	personnel := []Personnel{
		{
			Name:      "Jane Doe",
			FirstName: stringPtr("Jane"),
			LastName:  stringPtr("Doe"),
			Rank:      stringPtr("OR5"),
			IsActive:  true,
		}, {
			Name:      "John Smith",
			FirstName: stringPtr("John"),
			LastName:  stringPtr("Smith"),
			Rank:      stringPtr("OR3"),
			IsActive:  true,
		}, {
			Name:      "Ada Lovelace",
			FirstName: stringPtr("Ada"),
			LastName:  stringPtr("Lovelace"),
			Rank:      stringPtr("OF2"),
			IsActive:  true,
		},
	}

	for _, person := range personnel {
		var existing Personnel
		if err := db.First(&existing, "name = ?", person.Name).Error; err == nil {
			log.Info("Personnel already exists", "name", person.Name)
			continue
		}
		log.Info("Seeding personnel", "name", person.Name)
		if err := db.Create(&person).Error; err != nil {
			log.Er("failed to create personnel", err, "name", person.Name)
		}
	}

	return nil
}
