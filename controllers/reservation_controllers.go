package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dinehall/reservation-app/events"
	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/services"
	"github.com/dinehall/reservation-app/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Tables       *services.TableService
}

func NewReservationController(reservations *services.ReservationService, tables *services.TableService) *ReservationController {
	return &ReservationController{Reservations: reservations, Tables: tables}
}

// CreateReservation -> book a table for the next occurrence of day+time
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		CustomerName string `json:"customer_name" binding:"required"`
		Phone        string `json:"phone" binding:"required"`
		Size         int    `json:"size" binding:"required,gt=0"`
		Day          string `json:"day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
		Time         string `json:"time" binding:"required,datetime=15:04"`
		Duration     int    `json:"duration" binding:"required,gt=0"`
		TableID      string `json:"table_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := rc.Tables.FindByID(c.Request.Context(), req.TableID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), services.CreateReservationInput{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Size:         req.Size,
		Day:          req.Day,
		Time:         req.Time,
		Duration:     req.Duration,
	}, table)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	events.BroadcastReservation(events.EventReservationCreate, reservation)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// UpdateReservation -> patch a reservation; scheduling changes re-run the
// full validation, status changes go through the transition table
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id := c.Param("reservation_id")

	var req struct {
		CustomerName *string                   `json:"customer_name"`
		Phone        *string                   `json:"phone"`
		Size         *int                      `json:"size" binding:"omitempty,gt=0"`
		Day          *string                   `json:"day" binding:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
		Time         *string                   `json:"time" binding:"omitempty,datetime=15:04"`
		Duration     *int                      `json:"duration" binding:"omitempty,gt=0"`
		Status       *models.ReservationStatus `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
		TableID      *string                   `json:"table_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	existing, err := rc.Reservations.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	var newTable *models.Table
	if req.TableID != nil && *req.TableID != existing.TableID {
		newTable, err = rc.Tables.FindByID(c.Request.Context(), *req.TableID)
		if err != nil {
			utils.RespondDomainError(c, err)
			return
		}
	}

	reservation, err := rc.Reservations.Update(c.Request.Context(), id, services.UpdateReservationInput{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Size:         req.Size,
		Day:          req.Day,
		Time:         req.Time,
		Duration:     req.Duration,
		Status:       req.Status,
	}, newTable)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	events.BroadcastReservation(events.EventReservationUpdate, reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated successfully", reservation)
}

// CancelReservation -> status change to cancelled, never a delete
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, err := rc.Reservations.Cancel(c.Request.Context(), c.Param("reservation_id"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	events.BroadcastReservation(events.EventReservationCancel, reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

// GetReservationsByRestaurant -> paginated reservations within a date window
func (rc *ReservationController) GetReservationsByRestaurant(c *gin.Context) {
	page, size := pageParams(c)
	startDate, endDate := dateRangeParams(c)

	reservations, count, err := rc.Reservations.FindAllByRestaurant(
		c.Request.Context(), c.Param("restaurant_id"), startDate, endDate, page, size)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", gin.H{
		"data":  reservations,
		"count": count,
	})
}
