package migration

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inboxlift/internal/domain/pricing"
	"inboxlift/internal/shared/logger"
)

type tierSeedFile struct {
	Tiers []tierSeedEntry `yaml:"tiers"`
}

type tierSeedEntry struct {
	Name       string `yaml:"name"`
	PriceCents int64  `yaml:"price_cents"`
	MaxSeats   int    `yaml:"max_seats"`
}

// SeedTiersFromFile upserts the pricing tiers declared in a YAML file.
// Seat counters of existing tiers are left untouched, so re-running the
// seed never un-sells founders seats.
func SeedTiersFromFile(ctx context.Context, path string, repo pricing.TierRepository, log logger.Interface) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tier seed file: %w", err)
	}

	var seed tierSeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse tier seed file: %w", err)
	}

	for _, entry := range seed.Tiers {
		tier, err := pricing.NewTier(entry.Name, entry.PriceCents, entry.MaxSeats)
		if err != nil {
			return fmt.Errorf("invalid tier seed %q: %w", entry.Name, err)
		}
		if err := repo.Save(ctx, tier); err != nil {
			return fmt.Errorf("failed to seed tier %q: %w", entry.Name, err)
		}
	}

	log.Infow("pricing tiers seeded", "path", path, "count", len(seed.Tiers))
	return nil
}
