package catalog

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

// Seed inserts the catalog file into store under author, unless author
// already owns companions. It returns the number of companions inserted.
func Seed(ctx context.Context, store companion.RecordStore, file, author string, log logger.Logger) (int, error) {
	existing, err := store.CountCompanionsByAuthor(ctx, author)
	if err != nil {
		return 0, fmt.Errorf("failed to count seeded companions: %w", err)
	}
	if existing > 0 {
		log.Info("catalog already seeded",
			logger.String("author", author),
			logger.Int("companions", existing))
		return 0, nil
	}

	c, err := NewLoader(file).Load()
	if err != nil {
		return 0, err
	}
	inputs, err := Map(c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", file, err)
	}

	inserted := 0
	for _, in := range inputs {
		if _, err := store.InsertCompanion(ctx, in.WithAuthor(author)); err != nil {
			return inserted, fmt.Errorf("failed to seed %q: %w", in.Name, err)
		}
		inserted++
	}

	log.Info("catalog seeded",
		logger.String("file", file),
		logger.String("author", author),
		logger.Int("companions", inserted))
	return inserted, nil
}
