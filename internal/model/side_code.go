package model

import "time"

// CountrySideCode is one template of a country's ordered sidecode list.
type CountrySideCode struct {
	Country   string    `gorm:"type:varchar(8);primaryKey" json:"country"`
	Position  int       `gorm:"primaryKey" json:"position"`
	Pattern   string    `gorm:"type:varchar(32);not null" json:"pattern"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CountrySideCode) TableName() string {
	return "country_side_codes"
}
