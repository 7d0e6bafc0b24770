// Command seed installs the default weekly schedule and optional demo media.
package main

import (
	"flag"
	"log"

	"chapel/internal/config"
	"chapel/internal/database"
	"chapel/internal/seed"
)

func main() {
	numVideos := flag.Int("videos", 8, "Number of demo sermon videos to create")
	numEbooks := flag.Int("ebooks", 4, "Number of demo ebooks to create")
	scheduleOnly := flag.Bool("schedule-only", false, "Install the weekly schedule and skip demo media")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.WeeklySchedule(db); err != nil {
		log.Fatalf("Schedule seeding failed: %v", err)
	}
	log.Println("weekly schedule installed")

	if *scheduleOnly {
		return
	}

	f := seed.NewFactory(db)
	if err := f.DemoLibrary(*numVideos, *numEbooks); err != nil {
		log.Fatalf("Demo library seeding failed: %v", err)
	}
	log.Printf("demo library installed: %d videos, %d ebooks", *numVideos, *numEbooks)
}
