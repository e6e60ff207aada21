package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinehall/reservation-app/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams reads page/size query parameters with the usual defaults.
func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 || size > maxPageSize {
		size = defaultPageSize
	}
	return page, size
}

// dateRangeParams reads start_date/end_date query parameters, defaulting to a
// window of today through seven days out.
func dateRangeParams(c *gin.Context) (startDate, endDate string) {
	now := time.Now()
	startDate = c.DefaultQuery("start_date", utils.DateString(now))
	endDate = c.DefaultQuery("end_date", utils.DateString(now.AddDate(0, 0, 7)))
	return startDate, endDate
}
