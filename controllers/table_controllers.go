package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dinehall/reservation-app/services"
	"github.com/dinehall/reservation-app/utils"
)

type TableController struct {
	Tables      *services.TableService
	Restaurants *services.RestaurantService
}

func NewTableController(tables *services.TableService, restaurants *services.RestaurantService) *TableController {
	return &TableController{Tables: tables, Restaurants: restaurants}
}

// CreateTable -> add a table to a restaurant; table numbers are assigned
// sequentially per restaurant
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		RestaurantID string `json:"restaurant_id" binding:"required,uuid"`
		Capacity     int    `json:"capacity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant, err := tc.Restaurants.FindByID(c.Request.Context(), req.RestaurantID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), restaurant, req.Capacity)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d created for restaurant %s", table.TableNumber, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetTableByID -> detail of one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, err := tc.Tables.FindByID(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetTablesByRestaurant -> paginated tables of a restaurant
func (tc *TableController) GetTablesByRestaurant(c *gin.Context) {
	page, size := pageParams(c)

	tables, count, err := tc.Tables.FindAllByRestaurant(c.Request.Context(), c.Param("restaurant_id"), page, size)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", gin.H{
		"data":  tables,
		"count": count,
	})
}

// CheckTableAvailability -> probe whether a table is free for day/time/duration
func (tc *TableController) CheckTableAvailability(c *gin.Context) {
	var req struct {
		Day      string `form:"day" binding:"required"`
		Time     string `form:"time" binding:"required,datetime=15:04"`
		Duration int    `form:"duration" binding:"required,gt=0"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	available, err := tc.Tables.IsAvailable(c.Request.Context(), c.Param("table_id"), req.Day, req.Time, req.Duration)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table availability", gin.H{
		"available": available,
	})
}

// GetAvailableSlots -> bookable slot start-times per date for a restaurant
func (tc *TableController) GetAvailableSlots(c *gin.Context) {
	var req struct {
		Size     int `form:"size" binding:"required,gt=0"`
		Duration int `form:"duration" binding:"required,gt=0"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	startDate, endDate := dateRangeParams(c)

	restaurant, err := tc.Restaurants.FindByID(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	slots, err := tc.Tables.GetAvailableSlots(c.Request.Context(), restaurant, startDate, endDate, req.Size, req.Duration)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available time slots", slots)
}
