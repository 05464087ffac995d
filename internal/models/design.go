package models

import "time"

// Design is a saved bead sequence.
type Design struct {
	ID              string  `gorm:"primaryKey;size:32"`
	Name            string  `gorm:"size:128;not null;index"`
	PredictedLength float64 `gorm:"default:0"`
	BeadCount       int     `gorm:"default:0"`
	Draft           bool    `gorm:"default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Beads []DesignBead `gorm:"foreignKey:DesignID;constraint:OnDelete:CASCADE"`
}

// DesignBead is one bead of a design, in ring order by Seq.
type DesignBead struct {
	ID               uint    `gorm:"primaryKey;autoIncrement"`
	DesignID         string  `gorm:"size:32;index;not null"`
	Seq              int     `gorm:"not null"`
	BeadID           string  `gorm:"size:64"`
	Name             string  `gorm:"size:128"`
	Category         string  `gorm:"size:16;default:core"`
	Diameter         float64 `gorm:"not null"`
	Width            float64
	ImageAspectRatio float64
	HolePosition     float64
	Floating         bool   `gorm:"default:false"`
	ImageURL         string `gorm:"type:text"`
}
