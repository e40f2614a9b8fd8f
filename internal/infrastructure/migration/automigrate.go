package migration

import (
	"inboxlift/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UsageTrackingModel{},
		&models.PromotionalAccessModel{},
		&models.UnlimitedUserModel{},
		&models.SubscriptionTierModel{},
		&models.SocialMediaCreditModel{},
		&models.CheckoutReservationModel{},
	}
}
