package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/festivalops/offer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository issues sequential offer numbers per year
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically increments and returns the sequence for a year.
// The row is locked for the duration of the transaction; a missing year starts at 1.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, year int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.OfferNumberSequence
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq)

		switch {
		case result.Error == gorm.ErrRecordNotFound:
			seq = domain.OfferNumberSequence{Year: year, LastSequence: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			next = 1
		case result.Error != nil:
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		default:
			next = seq.LastSequence + 1
			if err := tx.Model(&domain.OfferNumberSequence{}).Where("year = ?", year).Updates(map[string]interface{}{
				"last_sequence": next,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
