package boot

import (
	"log"
	"time"

	"preludio/src/db"
	"preludio/src/lib"
	"preludio/src/models"
	"preludio/src/utils"
)

func InitDb() error {
	conn, err := db.Init()
	if err != nil {
		return err
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Ticket{},
		&models.Pago{},
		&models.Review{},
	)
}

// InitScheduler starts the background sweep that retires events whose date
// has passed.
func InitScheduler() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	_, err = lib.CreateCronJob(func() {
		if err := utils.SweepPastEvents(db.Get()); err != nil {
			log.Printf("Error sweeping past events: %s\n", err.Error())
		}
	}, 10*time.Minute)
	if err != nil {
		return err
	}
	sched.Start()
	return nil
}
