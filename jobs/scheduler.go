package jobs

import (
	"log"

	"arcade/controllers/battlepass"
	"arcade/database"
	tasks "arcade/task"

	"github.com/robfig/cron/v3"
)

// StartScheduler wires the recurring maintenance jobs: bait expiry every five
// minutes, season close and quest window sweep shortly after midnight.
func StartScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("*/5 * * * *", tasks.DeactivateExpiredBaits); err != nil {
		log.Printf("❌ failed to schedule bait expiry: %v", err)
	}

	if _, err := c.AddFunc("5 0 * * *", func() {
		if closed := tasks.DeactivateEndedSeasons(); closed > 0 {
			battlepass.Pass.InvalidateSeasonCache()
		}
		if err := battlepass.Quests.SweepResets(database.DB); err != nil {
			log.Printf("❌ quest reset sweep failed: %v", err)
		}
	}); err != nil {
		log.Printf("❌ failed to schedule daily sweep: %v", err)
	}

	c.Start()
	log.Println("✅ Scheduler started")
	return c
}
