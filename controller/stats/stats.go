package stats

import (
	"net/http"

	"bdcserver/controller"
	"bdcserver/dto"
	"bdcserver/services"
	"bdcserver/store"

	"github.com/gin-gonic/gin"
)

func StatsController(router *gin.Engine, st store.Store) {
	routes := router.Group(controller.APIPrefix)
	{
		routes.GET("/all-stats", func(c *gin.Context) {
			AllStats(c, st)
		})
		routes.GET("/all-req-count", func(c *gin.Context) {
			AllRequestCount(c, st)
		})
	}
}

func AllStats(c *gin.Context, st store.Store) {
	stats, err := services.GetStats(c.Request.Context(), st)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func AllRequestCount(c *gin.Context, st store.Store) {
	n, err := services.CountAllRequests(c.Request.Context(), st)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}
