package models

import (
	"log"

	"github.com/boldventures/scorecard_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Scorecard{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
