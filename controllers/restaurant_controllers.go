package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/services"
	"github.com/dinehall/reservation-app/utils"
)

type RestaurantController struct {
	Restaurants *services.RestaurantService
}

func NewRestaurantController(restaurants *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Restaurants: restaurants}
}

// CreateRestaurant -> register a restaurant with its weekly operating hours
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name           string                `json:"name" binding:"required"`
		OperatingHours models.OperatingHours `json:"operating_hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant, err := rc.Restaurants.Create(c.Request.Context(), req.Name, req.OperatingHours)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant created: %s (%s)", restaurant.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", restaurant)
}

// GetAllRestaurants -> paginated list, optional name search
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	page, size := pageParams(c)
	search := c.Query("search")

	restaurants, count, err := rc.Restaurants.FindAll(c.Request.Context(), page, size, search)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of restaurants", gin.H{
		"data":  restaurants,
		"count": count,
	})
}

// GetRestaurantByID -> detail with tables
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	restaurant, err := rc.Restaurants.FindByID(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}
