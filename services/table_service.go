package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/cache"
	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/utils"
)

// slotCacheTTL bounds how stale a cached availability map may get before it
// self-heals.
const slotCacheTTL = 300 * time.Second

type TableService struct {
	DB    *gorm.DB
	Cache cache.Cache
	// Now returns the current wall-clock time; swapped out in tests.
	Now func() time.Time
}

func NewTableService(db *gorm.DB, store cache.Cache) *TableService {
	return &TableService{DB: db, Cache: store, Now: time.Now}
}

// Create adds a table to a restaurant. Table numbers are sequential per
// restaurant: max(existing)+1, starting at 1.
func (s *TableService) Create(ctx context.Context, restaurant *models.Restaurant, capacity int) (*models.Table, error) {
	if capacity < 1 {
		return nil, utils.NewClientError("Capacity must be a positive number")
	}

	next := 1
	var latest models.Table
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurant.ID).
		Order("table_number DESC").
		First(&latest).Error
	if err == nil {
		next = latest.TableNumber + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	table := &models.Table{
		TableNumber:  next,
		Capacity:     capacity,
		RestaurantID: restaurant.ID,
	}
	if err := s.DB.WithContext(ctx).Create(table).Error; err != nil {
		return nil, err
	}

	return s.FindByID(ctx, table.ID)
}

// FindByID loads a table with its restaurant eager-loaded.
func (s *TableService) FindByID(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	err := s.DB.WithContext(ctx).Preload("Restaurant").First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("Table %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// FindAllByRestaurant returns a page of the restaurant's tables.
func (s *TableService) FindAllByRestaurant(ctx context.Context, restaurantID string, page, size int) ([]models.Table, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Table{}).Where("restaurant_id = ?", restaurantID)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var tables []models.Table
	err := query.Order("table_number ASC").
		Limit(size).Offset((page - 1) * size).
		Find(&tables).Error
	if err != nil {
		return nil, 0, err
	}
	return tables, count, nil
}

// IsAvailable reports whether the table is free for a reservation at the next
// occurrence of day+clock, for duration minutes.
func (s *TableService) IsAvailable(ctx context.Context, tableID, day, clock string, duration int) (bool, error) {
	start, err := utils.NextDateForDay(day, clock, s.Now())
	if errors.Is(err, utils.ErrInvalidDay) {
		return false, utils.NewClientError(fmt.Sprintf("Invalid day: %s", day))
	}
	if err != nil {
		return false, utils.NewClientError(fmt.Sprintf("Invalid time: %s", clock))
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	var existing []models.Reservation
	err = s.DB.WithContext(ctx).
		Where("table_id = ? AND time <= ? AND status <> ?", tableID, end, models.StatusCancelled).
		Find(&existing).Error
	if err != nil {
		return false, err
	}

	for _, res := range existing {
		if utils.HasTimeRangeOverlap(start, end, res.Time, res.EndTime()) {
			return false, nil
		}
	}
	return true, nil
}

// GetAvailableSlots returns the bookable slot start-times per date in
// [startDate, endDate], memoized in the cache for non-empty results. Cache
// read failures degrade to recomputation.
func (s *TableService) GetAvailableSlots(ctx context.Context, restaurant *models.Restaurant, startDate, endDate string, partySize, duration int) (map[string][]string, error) {
	key := fmt.Sprintf("available_slots:%s:%s:%s:%d:%d", restaurant.ID, startDate, endDate, partySize, duration)

	raw, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		utils.ErrorLogger.Printf("slot cache read failed for %s: %v", key, err)
	} else if hit {
		var cached map[string][]string
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		utils.ErrorLogger.Printf("discarding undecodable slot cache entry %s", key)
	}

	slots, err := s.computeAvailableSlots(ctx, restaurant, startDate, endDate, partySize, duration)
	if err != nil {
		return nil, err
	}

	// Empty maps are never cached: a transient "nothing available" state
	// recomputes on the next read instead of being pinned for the TTL.
	if len(slots) > 0 {
		if payload, err := json.Marshal(slots); err == nil {
			if err := s.Cache.Set(ctx, key, payload, slotCacheTTL); err != nil {
				utils.ErrorLogger.Printf("slot cache write failed for %s: %v", key, err)
			}
		}
	}
	return slots, nil
}

func (s *TableService) computeAvailableSlots(ctx context.Context, restaurant *models.Restaurant, startDate, endDate string, partySize, duration int) (map[string][]string, error) {
	var suitable []models.Table
	for _, table := range restaurant.Tables {
		if table.Capacity >= partySize {
			suitable = append(suitable, table)
		}
	}
	if len(suitable) == 0 {
		return nil, utils.NewClientError("No suitable tables found")
	}

	firstDay, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, utils.NewClientError(fmt.Sprintf("Invalid start date: %s", startDate))
	}
	lastDay, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, utils.NewClientError(fmt.Sprintf("Invalid end date: %s", endDate))
	}

	reservations, err := s.reservationsInRange(ctx, restaurant.ID, firstDay, lastDay)
	if err != nil {
		return nil, err
	}

	slotsByDate := make(map[string][]string)
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		hours, open := restaurant.HoursFor(day.Weekday().String())
		if !open {
			continue
		}

		dateStr := utils.DateString(day)
		byTable := make(map[string][]models.Reservation)
		for _, res := range reservations {
			if utils.DateString(res.Time) == dateStr {
				byTable[res.TableID] = append(byTable[res.TableID], res)
			}
		}

		openAt, err := utils.CombineDateClock(day, hours.StartTime)
		if err != nil {
			return nil, err
		}
		closeAt, err := utils.CombineDateClock(day, hours.EndTime)
		if err != nil {
			return nil, err
		}

		slots := generateAvailableSlots(openAt, closeAt, duration, suitable, byTable)
		if len(slots) > 0 {
			slotsByDate[dateStr] = slots
		}
	}
	return slotsByDate, nil
}

// reservationsInRange loads the restaurant's non-deleted, non-cancelled
// reservations starting within [firstDay 00:00, lastDay 23:59:59.999].
func (s *TableService) reservationsInRange(ctx context.Context, restaurantID string, firstDay, lastDay time.Time) ([]models.Reservation, error) {
	rangeStart := firstDay
	rangeEnd := lastDay.AddDate(0, 0, 1).Add(-time.Millisecond)

	var reservations []models.Reservation
	err := s.DB.WithContext(ctx).
		Joins("JOIN tables ON tables.id = reservations.table_id AND tables.deleted_at IS NULL").
		Where("tables.restaurant_id = ?", restaurantID).
		Where("reservations.time BETWEEN ? AND ?", rangeStart, rangeEnd).
		Where("reservations.status <> ?", models.StatusCancelled).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// generateAvailableSlots walks candidate starts from openAt in steps of
// duration minutes. A slot whose end lands exactly on closeAt still fits. The
// slot is kept when at least one suitable table has no overlapping
// reservation.
func generateAvailableSlots(openAt, closeAt time.Time, duration int, suitable []models.Table, byTable map[string][]models.Reservation) []string {
	step := time.Duration(duration) * time.Minute

	var slots []string
	for start := openAt; !start.Add(step).After(closeAt); start = start.Add(step) {
		end := start.Add(step)
		for _, table := range suitable {
			free := true
			for _, res := range byTable[table.ID] {
				if utils.HasTimeRangeOverlap(start, end, res.Time, res.EndTime()) {
					free = false
					break
				}
			}
			if free {
				slots = append(slots, utils.FormatClock(start))
				break
			}
		}
	}
	return slots
}
