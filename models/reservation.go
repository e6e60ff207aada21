package models

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// statusTransitions lists the states reachable from each status. completed
// and cancelled are terminal.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether s may move to target. Requesting the
// current status again is a no-op and always allowed.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type Reservation struct {
	Base
	CustomerName string            `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone        string            `gorm:"type:varchar(50);not null" json:"phone"`
	Size         int               `gorm:"not null" json:"size"`
	Time         time.Time         `gorm:"not null" json:"time"`
	Duration     int               `gorm:"not null" json:"duration"`
	Status       ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TableID      string            `gorm:"type:uuid;not null;index" json:"table_id"`
	Table        *Table            `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

// EndTime is the exclusive end of the reservation interval, Duration minutes
// after the start.
func (r *Reservation) EndTime() time.Time {
	return r.Time.Add(time.Duration(r.Duration) * time.Minute)
}
