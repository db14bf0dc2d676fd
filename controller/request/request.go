package request

import (
	"errors"
	"io"
	"net/http"

	"bdcserver/controller"
	"bdcserver/dto"
	"bdcserver/services"
	"bdcserver/store"

	"github.com/gin-gonic/gin"
)

func DonationRequestController(router *gin.Engine, st store.Store, clock *services.PostClock) {
	routes := router.Group(controller.APIPrefix)
	{
		routes.POST("/my-donation-request", func(c *gin.Context) {
			MyRequests(c, st)
		})
		routes.GET("/my-don-req-count", func(c *gin.Context) {
			CountMyRequests(c, st)
		})
		routes.GET("/paginated-all-req", func(c *gin.Context) {
			ListRequests(c, st)
		})
		routes.GET("/pending-donation-request", func(c *gin.Context) {
			PendingRequests(c, st)
		})
		routes.GET("/request/:id", func(c *gin.Context) {
			GetRequest(c, st)
		})
		routes.POST("/create-donation-request", func(c *gin.Context) {
			CreateRequest(c, st, clock)
		})
		routes.PUT("/request-update/:id", func(c *gin.Context) {
			UpdateRequest(c, st)
		})
		routes.DELETE("/delete-donation-request/:id", func(c *gin.Context) {
			DeleteRequest(c, st)
		})
		routes.PUT("/status-update/:id", func(c *gin.Context) {
			UpdateStatus(c, st)
		})
	}
}

// MyRequests pages through the requests posted by ?email, newest first.
func MyRequests(c *gin.Context, st store.Store) {
	var page dto.PageRequest
	if err := c.ShouldBindJSON(&page); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	docs, err := services.ListRequestsByRequester(c.Request.Context(), st, c.Query("email"), page.ItemPerPage, page.CurrentPage)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// CountMyRequests counts requests matching every query parameter by equality.
func CountMyRequests(c *gin.Context, st store.Store) {
	n, err := services.CountRequests(c.Request.Context(), st, controller.QueryDocument(c))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func ListRequests(c *gin.Context, st store.Store) {
	docs, err := services.ListRequests(c.Request.Context(), st, c.Query("size"), c.Query("currentPage"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func PendingRequests(c *gin.Context, st store.Store) {
	docs, err := services.ListPendingRequests(c.Request.Context(), st)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func GetRequest(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	doc, err := services.GetRequest(c.Request.Context(), st, id)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func CreateRequest(c *gin.Context, st store.Store, clock *services.PostClock) {
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.CreateRequest(c.Request.Context(), st, clock, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func UpdateRequest(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.UpdateRequest(c.Request.Context(), st, id, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteRequest(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	result, err := services.DeleteRequest(c.Request.Context(), st, id)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus is the donor/volunteer status change. A lone "in progress"
// update is refused with 401.
func UpdateStatus(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.UpdateRequestStatus(c.Request.Context(), st, id, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
