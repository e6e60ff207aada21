package models

type Table struct {
	Base
	TableNumber  int         `gorm:"not null" json:"table_number"`
	Capacity     int         `gorm:"not null" json:"capacity"`
	RestaurantID string      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}
