package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/utils"
)

type reservationFixture struct {
	db         *gorm.DB
	svc        *ReservationService
	store      *recordingCache
	restaurant *models.Restaurant
	table      *models.Table
}

// Restaurant open Monday 09:00-17:00, one table for four, "now" frozen at
// Monday 08:00 so "monday HH:MM" resolves to the same day.
func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	db := setupTestDB(t)
	store := newRecordingCache()

	restaurant := seedRestaurant(t, db, "Trattoria Nonna",
		weekdayHours([]string{"monday"}, "09:00", "17:00"))
	table := seedTable(t, db, restaurant, 1, 4)

	svc := NewReservationService(db, store)
	svc.Now = func() time.Time { return testMonday(8, 0) }

	return &reservationFixture{db: db, svc: svc, store: store, restaurant: restaurant, table: table}
}

func (f *reservationFixture) create(t *testing.T, clock string, duration, size int) (*models.Reservation, error) {
	t.Helper()
	return f.svc.Create(context.Background(), CreateReservationInput{
		CustomerName: "John Doe",
		Phone:        "123-456-7890",
		Size:         size,
		Day:          "monday",
		Time:         clock,
		Duration:     duration,
	}, f.table)
}

func TestCreateReservationPending(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 4)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, reservation.Status)
	assert.Equal(t, testMonday(9, 0), reservation.Time.UTC())
	assert.Equal(t, 60, reservation.Duration)
	assert.NotEmpty(t, reservation.ID)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.create(t, "09:00", 60, 4)
	require.NoError(t, err)

	_, err = f.create(t, "09:30", 60, 2)
	assert.EqualError(t, err, "Table is already reserved for the selected time slot")
}

func TestCreateReservationAllowsBackToBack(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.create(t, "09:00", 60, 4)
	require.NoError(t, err)

	reservation, err := f.create(t, "10:00", 60, 2)
	require.NoError(t, err)
	assert.Equal(t, testMonday(10, 0), reservation.Time.UTC())
}

func TestCreateReservationRejectsClosedDay(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Create(context.Background(), CreateReservationInput{
		CustomerName: "John Doe",
		Phone:        "123-456-7890",
		Size:         2,
		Day:          "sunday",
		Time:         "12:00",
		Duration:     60,
	}, f.table)
	assert.EqualError(t, err, "Restaurant is closed on sunday")
}

func TestCreateReservationRejectsOversizedParty(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.create(t, "09:00", 60, 5)
	assert.EqualError(t, err, "Party size is larger than table capacity")
}

func TestCreateReservationRejectsStartOutsideHours(t *testing.T) {
	f := newReservationFixture(t)
	f.svc.Now = func() time.Time { return testMonday(7, 0) }

	_, err := f.create(t, "08:00", 60, 2)
	assert.EqualError(t, err, "Reservation time is outside of restaurant operating hours")
}

func TestCreateReservationStartAtCloseMayRunPastClosing(t *testing.T) {
	f := newReservationFixture(t)

	// Starting exactly at close is in bounds; only the start is checked.
	reservation, err := f.create(t, "17:00", 90, 2)
	require.NoError(t, err)
	assert.Equal(t, testMonday(17, 0), reservation.Time.UTC())
}

func TestCreateReservationRejectsUnknownDay(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Create(context.Background(), CreateReservationInput{
		CustomerName: "John Doe",
		Phone:        "123-456-7890",
		Size:         2,
		Day:          "funday",
		Time:         "12:00",
		Duration:     60,
	}, f.table)
	assert.EqualError(t, err, "Invalid day: funday")
}

func TestCreateReservationInvalidatesSlotCacheForDate(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	expected := fmt.Sprintf("available_slots:%s:2025-06-02:*", f.restaurant.ID)
	assert.Contains(t, f.store.patterns, expected)
}

func TestCreateReservationIgnoresCancelledConflicts(t *testing.T) {
	f := newReservationFixture(t)

	first, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	_, err = f.create(t, "09:00", 60, 2)
	assert.NoError(t, err)
}

func TestUpdateReservationStatusTransitions(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	// pending -> confirmed is legal.
	updated, err := f.svc.Update(context.Background(), reservation.ID,
		UpdateReservationInput{Status: ptr(models.StatusConfirmed)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	// Re-requesting the current status is a no-op.
	_, err = f.svc.Update(context.Background(), reservation.ID,
		UpdateReservationInput{Status: ptr(models.StatusConfirmed)}, nil)
	assert.NoError(t, err)

	// confirmed -> completed is not in the transition table.
	_, err = f.svc.Update(context.Background(), reservation.ID,
		UpdateReservationInput{Status: ptr(models.StatusCompleted)}, nil)
	assert.EqualError(t, err, "Cannot transition reservation from confirmed to completed")
}

func TestUpdateCancelledReservationIsTerminal(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), reservation.ID)
	require.NoError(t, err)

	for _, target := range []models.ReservationStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted,
	} {
		_, err = f.svc.Update(context.Background(), reservation.ID,
			UpdateReservationInput{Status: ptr(target)}, nil)
		assert.EqualError(t, err,
			fmt.Sprintf("Cannot transition reservation from cancelled to %s", target))
	}
}

func TestUpdateReservationRevalidatesSchedule(t *testing.T) {
	f := newReservationFixture(t)

	first, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)
	_, err = f.create(t, "10:00", 60, 2)
	require.NoError(t, err)

	// Stretching the first booking into the second must fail.
	_, err = f.svc.Update(context.Background(), first.ID,
		UpdateReservationInput{Duration: ptr(90)}, nil)
	assert.EqualError(t, err, "Table is already reserved for the selected time slot")

	// Revalidating against itself is fine: the reservation's own interval is
	// excluded from the conflict scan.
	updated, err := f.svc.Update(context.Background(), first.ID,
		UpdateReservationInput{Duration: ptr(30)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Duration)
}

func TestUpdateReservationMovesTable(t *testing.T) {
	f := newReservationFixture(t)
	second := seedTable(t, f.db, f.restaurant, 2, 6)

	first, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)
	_, err = f.create(t, "10:00", 60, 2)
	require.NoError(t, err)

	// On its own table a stretch to 90 minutes collides; on the empty second
	// table it fits.
	updated, err := f.svc.Update(context.Background(), first.ID,
		UpdateReservationInput{Duration: ptr(90)}, second)
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.TableID)
	assert.Equal(t, 90, updated.Duration)
}

func TestCancelReservationOnlyFromPendingOrConfirmed(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(context.Background(), reservation.ID)
	assert.EqualError(t, err, "Cannot cancel a cancelled reservation")
}

func TestCancelReservationInvalidatesSlotCache(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	f.store.patterns = nil
	_, err = f.svc.Cancel(context.Background(), reservation.ID)
	require.NoError(t, err)

	expected := fmt.Sprintf("available_slots:%s:2025-06-02:*", f.restaurant.ID)
	assert.Contains(t, f.store.patterns, expected)
}

func TestUpdateAndCancelRejectTombstonedTable(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	// Soft-delete the table out from under the reservation; Preload skips
	// deleted rows, so the association comes back nil.
	require.NoError(t, f.db.Delete(&models.Table{}, "id = ?", f.table.ID).Error)

	var notFound *utils.NotFoundError
	_, err = f.svc.Update(context.Background(), reservation.ID, UpdateReservationInput{
		CustomerName: ptr("Jane Doe"),
	}, nil)
	assert.ErrorAs(t, err, &notFound)

	_, err = f.svc.Cancel(context.Background(), reservation.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestFindReservationByIDNotFound(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.FindByID(context.Background(), "1f4c5a52-0000-0000-0000-000000000000")
	var notFound *utils.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFindAllByRestaurantOrdersAndBounds(t *testing.T) {
	f := newReservationFixture(t)

	late, err := f.create(t, "12:00", 60, 2)
	require.NoError(t, err)
	early, err := f.create(t, "09:00", 60, 2)
	require.NoError(t, err)

	reservations, count, err := f.svc.FindAllByRestaurant(
		context.Background(), f.restaurant.ID, "2025-06-02", "2025-06-02", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, reservations, 2)
	assert.Equal(t, early.ID, reservations[0].ID)
	assert.Equal(t, late.ID, reservations[1].ID)

	// A window before the reservations sees nothing.
	_, count, err = f.svc.FindAllByRestaurant(
		context.Background(), f.restaurant.ID, "2025-05-01", "2025-05-31", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTranslateDuplicateRemapsUniqueViolations(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	err := translateDuplicate(pgErr, "Table is already reserved for the selected time slot")
	var clientErr *utils.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, 409, clientErr.Status)

	err = translateDuplicate(gorm.ErrDuplicatedKey, "Table is already reserved for the selected time slot")
	assert.ErrorAs(t, err, &clientErr)

	plain := fmt.Errorf("connection refused")
	assert.Equal(t, plain, translateDuplicate(plain, "unused"))
	assert.NoError(t, translateDuplicate(nil, "unused"))
}
