package tasks

import (
	"log"
	"time"

	"arcade/database"
	"arcade/models"
)

// DeactivateExpiredBaits flips is_active off for baits past their expiry so
// the fishing draw never loads them.
func DeactivateExpiredBaits() {
	result := database.DB.Model(&models.UserFishingBait{}).
		Where("is_active = ? AND expires_at <= ?", true, time.Now()).
		Update("is_active", false)

	if result.Error != nil {
		log.Println("❌ Failed to deactivate expired baits:", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("✅ Deactivated %d expired baits\n", result.RowsAffected)
	}
}

// DeactivateEndedSeasons closes seasons whose end date passed. Returns how
// many were closed so the caller knows to invalidate the season cache.
func DeactivateEndedSeasons() int64 {
	result := database.DB.Model(&models.BattlePassSeason{}).
		Where("is_active = ? AND end_date <= ?", true, time.Now()).
		Update("is_active", false)

	if result.Error != nil {
		log.Println("❌ Failed to deactivate ended seasons:", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Deactivated %d ended seasons\n", result.RowsAffected)
	}
	return result.RowsAffected
}
