// Package design persists bead sequences as named designs.
package design

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/zulandar/strand/internal/models"
	"github.com/zulandar/strand/internal/ring"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a design ID does not exist.
var ErrNotFound = errors.New("design: not found")

// SaveOpts holds parameters for saving a new design.
type SaveOpts struct {
	Name            string
	Beads           []ring.Bead
	PredictedLength float64
	Draft           bool
}

// ListFilters holds optional filters for listing designs.
type ListFilters struct {
	Name  string // substring match
	Draft *bool
	Limit int
}

// GenerateID creates a unique design ID in dz-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("design: generate ID: %w", err)
	}
	return "dz-" + hex.EncodeToString(b)[:5], nil
}

// Save stores a new design with its beads in ring order.
func Save(db *gorm.DB, opts SaveOpts) (*models.Design, error) {
	opts.Name = strings.TrimSpace(opts.Name)
	if opts.Name == "" {
		return nil, fmt.Errorf("design: name is required")
	}
	if err := validateBeads(opts.Beads); err != nil {
		return nil, err
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	d := models.Design{
		ID:              id,
		Name:            opts.Name,
		PredictedLength: opts.PredictedLength,
		BeadCount:       len(opts.Beads),
		Draft:           opts.Draft,
		Beads:           fromBeads(id, opts.Beads),
	}
	if err := db.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("design: create: %w", err)
	}
	return &d, nil
}

// Update replaces the beads of an existing design.
func Update(db *gorm.DB, id string, beads []ring.Bead, predicted float64) error {
	if err := validateBeads(beads); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		// RowsAffected counts changed rows on mysql, so existence is checked first.
		var count int64
		if err := tx.Model(&models.Design{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("design: update %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		err := tx.Model(&models.Design{}).Where("id = ?", id).Updates(map[string]interface{}{
			"predicted_length": predicted,
			"bead_count":       len(beads),
		}).Error
		if err != nil {
			return fmt.Errorf("design: update %s: %w", id, err)
		}
		if err := tx.Where("design_id = ?", id).Delete(&models.DesignBead{}).Error; err != nil {
			return fmt.Errorf("design: clear beads %s: %w", id, err)
		}
		if len(beads) == 0 {
			return nil
		}
		rows := fromBeads(id, beads)
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("design: write beads %s: %w", id, err)
		}
		return nil
	})
}

// Get retrieves a design by ID with its beads in ring order.
func Get(db *gorm.DB, id string) (*models.Design, error) {
	var d models.Design
	err := db.Preload("Beads", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("seq ASC")
	}).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("design: get %s: %w", id, err)
	}
	return &d, nil
}

// List returns designs matching the filters, most recently updated first.
// Beads are not loaded.
func List(db *gorm.DB, filters ListFilters) ([]models.Design, error) {
	q := db.Model(&models.Design{})
	if filters.Name != "" {
		q = q.Where("name LIKE ?", "%"+filters.Name+"%")
	}
	if filters.Draft != nil {
		q = q.Where("draft = ?", *filters.Draft)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	var designs []models.Design
	if err := q.Order("updated_at DESC, id ASC").Find(&designs).Error; err != nil {
		return nil, fmt.Errorf("design: list: %w", err)
	}
	return designs, nil
}

// Delete removes a design and its beads.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("design_id = ?", id).Delete(&models.DesignBead{}).Error; err != nil {
			return fmt.Errorf("design: delete beads %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Design{})
		if res.Error != nil {
			return fmt.Errorf("design: delete %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// ToBeads converts a stored design back into a bead sequence.
func ToBeads(d *models.Design) []ring.Bead {
	return lo.Map(d.Beads, func(row models.DesignBead, _ int) ring.Bead {
		return ring.Bead{
			ID:               row.BeadID,
			Name:             row.Name,
			Category:         ring.Category(row.Category),
			Diameter:         row.Diameter,
			Width:            row.Width,
			ImageAspectRatio: row.ImageAspectRatio,
			HolePosition:     row.HolePosition,
			Floating:         row.Floating,
			ImageURL:         row.ImageURL,
		}
	})
}

func fromBeads(designID string, beads []ring.Bead) []models.DesignBead {
	return lo.Map(beads, func(b ring.Bead, i int) models.DesignBead {
		cat := b.Category
		if cat == "" {
			cat = ring.CoreBead
		}
		return models.DesignBead{
			DesignID:         designID,
			Seq:              i,
			BeadID:           b.ID,
			Name:             b.Name,
			Category:         string(cat),
			Diameter:         b.Diameter,
			Width:            b.Width,
			ImageAspectRatio: b.ImageAspectRatio,
			HolePosition:     b.HolePosition,
			Floating:         b.Floating,
			ImageURL:         b.ImageURL,
		}
	})
}

func validateBeads(beads []ring.Bead) error {
	for i, b := range beads {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("design: bead %d: %w", i, err)
		}
	}
	return nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Design{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("design: check ID collision: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("design: ID collision after retry")
}
