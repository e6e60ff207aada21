package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/utils"
)

type RestaurantService struct {
	DB *gorm.DB
}

func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{DB: db}
}

// Create stores a new restaurant. The name must be unique among non-deleted
// restaurants; the partial unique index enforces that under races.
func (s *RestaurantService) Create(ctx context.Context, name string, hours models.OperatingHours) (*models.Restaurant, error) {
	normalized, err := normalizeOperatingHours(hours)
	if err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		Name:           name,
		OperatingHours: datatypes.NewJSONType(normalized),
	}

	if err := s.DB.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, translateDuplicate(err, "Duplicate record with same name already exists.")
	}

	return s.FindByID(ctx, restaurant.ID)
}

// FindAll returns a page of non-deleted restaurants, optionally filtered by a
// case-insensitive name search.
func (s *RestaurantService) FindAll(ctx context.Context, page, size int, search string) ([]models.Restaurant, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Restaurant{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var restaurants []models.Restaurant
	if err := query.Limit(size).Offset((page - 1) * size).Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, count, nil
}

// FindByID loads a restaurant with its tables eager-loaded.
func (s *RestaurantService) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.DB.WithContext(ctx).Preload("Tables").First(&restaurant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("Restaurant %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// normalizeOperatingHours rejects unknown weekday keys and windows whose open
// time is not strictly before the close time. Keys are lowercased on the way
// in so HoursFor lookups by weekday name always hit regardless of the casing
// the client sent.
func normalizeOperatingHours(hours models.OperatingHours) (models.OperatingHours, error) {
	known := make(map[string]bool, len(utils.OperatingDays))
	for _, day := range utils.OperatingDays {
		known[day] = true
	}

	normalized := make(models.OperatingHours, len(hours))
	for day, window := range hours {
		key := strings.ToLower(day)
		if !known[key] {
			return nil, utils.NewClientError(fmt.Sprintf("Invalid day: %s", day))
		}
		openHour, openMin, err := utils.ParseClock(window.StartTime)
		if err != nil {
			return nil, utils.NewClientError(fmt.Sprintf("Invalid start time for %s: %s", day, window.StartTime))
		}
		closeHour, closeMin, err := utils.ParseClock(window.EndTime)
		if err != nil {
			return nil, utils.NewClientError(fmt.Sprintf("Invalid end time for %s: %s", day, window.EndTime))
		}
		if openHour*60+openMin >= closeHour*60+closeMin {
			return nil, utils.NewClientError(fmt.Sprintf("Opening time must be before closing time on %s", day))
		}
		normalized[key] = window
	}
	return normalized, nil
}
