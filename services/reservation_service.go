package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/cache"
	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/utils"
)

type ReservationService struct {
	DB    *gorm.DB
	Cache cache.Cache
	// Now returns the current wall-clock time; swapped out in tests.
	Now func() time.Time
}

func NewReservationService(db *gorm.DB, store cache.Cache) *ReservationService {
	return &ReservationService{DB: db, Cache: store, Now: time.Now}
}

type CreateReservationInput struct {
	CustomerName string
	Phone        string
	Size         int
	Day          string
	Time         string
	Duration     int
}

type UpdateReservationInput struct {
	CustomerName *string
	Phone        *string
	Size         *int
	Day          *string
	Time         *string
	Duration     *int
	Status       *models.ReservationStatus
}

// Create books a table. The requested weekday+time resolves to its next
// occurrence, the candidate is validated against capacity, operating hours
// and existing reservations, and the availability cache for the affected
// date is invalidated after the write.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput, table *models.Table) (*models.Reservation, error) {
	start, err := utils.NextDateForDay(input.Day, input.Time, s.Now())
	if errors.Is(err, utils.ErrInvalidDay) {
		return nil, utils.NewClientError(fmt.Sprintf("Invalid day: %s", input.Day))
	}
	if err != nil {
		return nil, utils.NewClientError(fmt.Sprintf("Invalid time: %s", input.Time))
	}

	if err := s.validate(ctx, table, start, input.Duration, input.Size, ""); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Size:         input.Size,
		Time:         start,
		Duration:     input.Duration,
		Status:       models.StatusPending,
		TableID:      table.ID,
		Table:        table,
	}

	if err := s.DB.WithContext(ctx).Omit("Table").Create(reservation).Error; err != nil {
		return nil, translateDuplicate(err, "Table is already reserved for the selected time slot")
	}

	s.invalidateSlots(ctx, table.RestaurantID, start)
	utils.InfoLogger.Printf("Reservation %s created for table %s at %s", reservation.ID, table.ID, start.Format(time.RFC3339))
	return reservation, nil
}

// Update patches a reservation. Status changes go through the transition
// table; any change to time, day, duration, size or table re-runs the full
// validation excluding the reservation's own interval.
func (s *ReservationService) Update(ctx context.Context, id string, input UpdateReservationInput, newTable *models.Table) (*models.Reservation, error) {
	reservation, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Table == nil {
		// Preload skips soft-deleted rows; the table was removed under us.
		return nil, utils.NewNotFoundError(fmt.Sprintf("Table for reservation %s not found", id))
	}

	if input.Status != nil && !reservation.Status.CanTransitionTo(*input.Status) {
		return nil, utils.NewClientError(fmt.Sprintf(
			"Cannot transition reservation from %s to %s", reservation.Status, *input.Status))
	}

	oldStart := reservation.Time
	oldRestaurantID := reservation.Table.RestaurantID

	table := reservation.Table
	if newTable != nil {
		table = newTable
	}

	start := reservation.Time
	if input.Day != nil || input.Time != nil {
		day := weekdayName(start)
		if input.Day != nil {
			day = *input.Day
		}
		clock := utils.FormatClock(start)
		if input.Time != nil {
			clock = *input.Time
		}
		start, err = utils.NextDateForDay(day, clock, s.Now())
		if errors.Is(err, utils.ErrInvalidDay) {
			return nil, utils.NewClientError(fmt.Sprintf("Invalid day: %s", day))
		}
		if err != nil {
			return nil, utils.NewClientError(fmt.Sprintf("Invalid time: %s", clock))
		}
	}

	duration := reservation.Duration
	if input.Duration != nil {
		duration = *input.Duration
	}
	size := reservation.Size
	if input.Size != nil {
		size = *input.Size
	}

	schedulingChanged := input.Day != nil || input.Time != nil ||
		input.Duration != nil || input.Size != nil || newTable != nil
	if schedulingChanged {
		if err := s.validate(ctx, table, start, duration, size, reservation.ID); err != nil {
			return nil, err
		}
	}

	if input.CustomerName != nil {
		reservation.CustomerName = *input.CustomerName
	}
	if input.Phone != nil {
		reservation.Phone = *input.Phone
	}
	if input.Status != nil {
		reservation.Status = *input.Status
	}
	reservation.Time = start
	reservation.Duration = duration
	reservation.Size = size
	reservation.TableID = table.ID
	reservation.Table = table

	if err := s.DB.WithContext(ctx).Omit("Table").Save(reservation).Error; err != nil {
		return nil, translateDuplicate(err, "Table is already reserved for the selected time slot")
	}

	s.invalidateSlots(ctx, oldRestaurantID, oldStart)
	s.invalidateSlots(ctx, table.RestaurantID, start)
	return reservation, nil
}

// Cancel moves a reservation to cancelled. Only pending and confirmed
// reservations can be cancelled; cancellation is a status change, never a
// delete.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Table == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("Table for reservation %s not found", id))
	}

	if reservation.Status != models.StatusPending && reservation.Status != models.StatusConfirmed {
		return nil, utils.NewClientError(fmt.Sprintf("Cannot cancel a %s reservation", reservation.Status))
	}

	reservation.Status = models.StatusCancelled
	if err := s.DB.WithContext(ctx).Omit("Table").Save(reservation).Error; err != nil {
		return nil, err
	}

	s.invalidateSlots(ctx, reservation.Table.RestaurantID, reservation.Time)
	utils.InfoLogger.Printf("Reservation %s cancelled", reservation.ID)
	return reservation, nil
}

// FindByID loads a reservation with its table and the table's restaurant.
func (s *ReservationService) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.WithContext(ctx).
		Preload("Table").Preload("Table.Restaurant").
		First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("Reservation %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindAllByRestaurant returns a page of the restaurant's reservations whose
// start falls within [startDate 00:00, endDate 23:59:59.999], ordered by
// start time ascending.
func (s *ReservationService) FindAllByRestaurant(ctx context.Context, restaurantID, startDate, endDate string, page, size int) ([]models.Reservation, int64, error) {
	firstDay, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, 0, utils.NewClientError(fmt.Sprintf("Invalid start date: %s", startDate))
	}
	lastDay, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, 0, utils.NewClientError(fmt.Sprintf("Invalid end date: %s", endDate))
	}
	rangeEnd := lastDay.AddDate(0, 0, 1).Add(-time.Millisecond)

	query := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Joins("JOIN tables ON tables.id = reservations.table_id AND tables.deleted_at IS NULL").
		Where("tables.restaurant_id = ?", restaurantID).
		Where("reservations.time BETWEEN ? AND ?", firstDay, rangeEnd)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var reservations []models.Reservation
	err = query.Preload("Table").
		Order("reservations.time ASC").
		Limit(size).Offset((page - 1) * size).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

// validate runs the booking rules in order: capacity, closed day, operating
// hours bounds, then overlap against the table's other reservations.
// excludeID skips the reservation being updated.
func (s *ReservationService) validate(ctx context.Context, table *models.Table, start time.Time, duration, size int, excludeID string) error {
	if size > table.Capacity {
		return utils.NewClientError("Party size is larger than table capacity")
	}

	if table.Restaurant == nil {
		return fmt.Errorf("table %s loaded without its restaurant", table.ID)
	}

	day := weekdayName(start)
	hours, open := table.Restaurant.HoursFor(day)
	if !open {
		return utils.NewClientError(fmt.Sprintf("Restaurant is closed on %s", day))
	}

	openAt, err := utils.CombineDateClock(start, hours.StartTime)
	if err != nil {
		return err
	}
	closeAt, err := utils.CombineDateClock(start, hours.EndTime)
	if err != nil {
		return err
	}

	// Only the start is bounds-checked: a reservation starting at or before
	// closing time may run past it.
	if start.Before(openAt) || start.After(closeAt) {
		return utils.NewClientError("Reservation time is outside of restaurant operating hours")
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	query := s.DB.WithContext(ctx).
		Where("table_id = ? AND time < ? AND status <> ?", table.ID, end, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var existing []models.Reservation
	if err := query.Find(&existing).Error; err != nil {
		return err
	}

	for _, res := range existing {
		if utils.HasTimeRangeOverlap(start, end, res.Time, res.EndTime()) {
			return utils.NewClientError("Table is already reserved for the selected time slot")
		}
	}
	return nil
}

func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// invalidateSlots drops every cached availability map whose date range starts
// on the affected date. Invalidation is coarse and best-effort: failures are
// logged and the cache self-heals via TTL.
func (s *ReservationService) invalidateSlots(ctx context.Context, restaurantID string, day time.Time) {
	pattern := fmt.Sprintf("available_slots:%s:%s:*", restaurantID, utils.DateString(day))
	if err := s.Cache.DeletePattern(ctx, pattern); err != nil {
		utils.ErrorLogger.Printf("slot cache invalidation failed for %s: %v", pattern, err)
	}
}
