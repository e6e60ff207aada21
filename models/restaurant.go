package models

import (
	"strings"

	"gorm.io/datatypes"
)

// WorkingHours is a single day's open/close window, both in 24-hour "HH:MM".
type WorkingHours struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// OperatingHours maps a lowercase weekday name ("monday".."sunday") to that
// day's window. A day missing from the map means the restaurant is closed.
type OperatingHours map[string]WorkingHours

type Restaurant struct {
	Base
	Name           string                             `gorm:"type:varchar(255);not null" json:"name"`
	OperatingHours datatypes.JSONType[OperatingHours] `json:"operating_hours"`
	Tables         []Table                            `gorm:"foreignKey:RestaurantID" json:"tables,omitempty"`
}

// HoursFor returns the open/close window for a weekday name. ok is false when
// the restaurant is closed that day.
func (r *Restaurant) HoursFor(day string) (WorkingHours, bool) {
	hours, ok := r.OperatingHours.Data()[strings.ToLower(day)]
	return hours, ok
}
