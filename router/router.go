package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/cache"
	"github.com/dinehall/reservation-app/controllers"
	"github.com/dinehall/reservation-app/middlewares"
	"github.com/dinehall/reservation-app/services"
)

func SetupRouter(db *gorm.DB, store cache.Cache, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	// Middleware added after route registration never runs for those routes,
	// so the limiter has to go on before the groups below.
	r.Use(limiter.RateLimit())

	restaurantService := services.NewRestaurantService(db)
	tableService := services.NewTableService(db, store)
	reservationService := services.NewReservationService(db, store)

	restaurantCtrl := controllers.NewRestaurantController(restaurantService)
	tableCtrl := controllers.NewTableController(tableService, restaurantService)
	reservationCtrl := controllers.NewReservationController(reservationService, tableService)

	api := r.Group("/api/v1")
	{
		api.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		api.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
		api.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
		api.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetTablesByRestaurant)
		api.GET("/restaurants/:restaurant_id/reservations", reservationCtrl.GetReservationsByRestaurant)
		api.GET("/restaurants/:restaurant_id/available-slots", tableCtrl.GetAvailableSlots)

		api.POST("/tables", tableCtrl.CreateTable)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.GET("/tables/:table_id/availability", tableCtrl.CheckTableAvailability)

		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		api.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
	}

	r.GET("/ws/events", controllers.ReservationEvents)

	return r
}
