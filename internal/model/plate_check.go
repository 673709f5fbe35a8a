package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlateOperation string

const (
	PlateOperationValidate PlateOperation = "VALIDATE"
	PlateOperationFormat   PlateOperation = "FORMAT"
	PlateOperationSideCode PlateOperation = "SIDECODE"
)

// PlateCheck records a single validate, format or sidecode lookup.
type PlateCheck struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Operation       PlateOperation `gorm:"type:plate_operation;not null;index" json:"operation"`
	Plate           string         `gorm:"type:varchar(64);not null" json:"plate"`
	NormalizedPlate string         `gorm:"type:varchar(64);index" json:"normalized_plate"`
	Country         string         `gorm:"type:varchar(8);not null" json:"country"`
	IgnoreDashes    bool           `gorm:"not null" json:"ignore_dashes"`
	SideCode        *string        `gorm:"type:varchar(32)" json:"side_code,omitempty"`
	Formatted       *string        `gorm:"type:varchar(64)" json:"formatted,omitempty"`
	Valid           bool           `gorm:"not null" json:"valid"`
	Error           *string        `gorm:"type:text" json:"error,omitempty"`
	RequestedBy     *string        `gorm:"type:varchar(64)" json:"requested_by,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (PlateCheck) TableName() string {
	return "plate_checks"
}

func (c *PlateCheck) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
