package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// 2025-06-02 is a Monday.
func testMonday(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Restaurant{}, &models.Table{}, &models.Reservation{}))
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string, hours models.OperatingHours) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name:           name,
		OperatingHours: datatypes.NewJSONType(hours),
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

func seedTable(t *testing.T, db *gorm.DB, restaurant *models.Restaurant, number, capacity int) *models.Table {
	t.Helper()
	table := &models.Table{
		TableNumber:  number,
		Capacity:     capacity,
		RestaurantID: restaurant.ID,
		Restaurant:   restaurant,
	}
	require.NoError(t, db.Omit("Restaurant").Create(table).Error)
	return table
}

func weekdayHours(days []string, start, end string) models.OperatingHours {
	hours := make(models.OperatingHours, len(days))
	for _, day := range days {
		hours[day] = models.WorkingHours{StartTime: start, EndTime: end}
	}
	return hours
}

// recordingCache is an in-memory Cache that remembers writes and pattern
// deletes so tests can assert on invalidation.
type recordingCache struct {
	entries  map[string][]byte
	patterns []string
	setCalls int
	getErr   error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string][]byte)}
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *recordingCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.setCalls++
	c.entries[key] = value
	return nil
}

func (c *recordingCache) DeletePattern(_ context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
