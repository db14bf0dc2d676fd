package user

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

func UserController(router *gin.Engine, st store.Store) {
	routes := router.Group(controller.APIPrefix)
	{
		routes.GET("/user", func(c *gin.Context) {
			GetUser(c, st)
		})
		routes.POST("/add-user", func(c *gin.Context) {
			AddUser(c, st)
		})
		routes.POST("/update-user", func(c *gin.Context) {
			UpdateProfile(c, st)
		})
		routes.GET("/update-user/:id", func(c *gin.Context) {
			UpdateRoleStatus(c, st)
		})
		routes.GET("/paginated-all-users", func(c *gin.Context) {
			ListUsers(c, st)
		})
		routes.POST("/search-donors", func(c *gin.Context) {
			SearchDonors(c, st)
		})
	}
}

func GetUser(c *gin.Context, st store.Store) {
	doc, err := services.GetUserByEmail(c.Request.Context(), st, c.Query("email"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func AddUser(c *gin.Context, st store.Store) {
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.AddUser(c.Request.Context(), st, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateProfile is the self-service profile edit, keyed by ?email.
func UpdateProfile(c *gin.Context, st store.Store) {
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.UpdateUserByEmail(c.Request.Context(), st, c.Query("email"), body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateRoleStatus sets the query parameters (role, status) on the user.
func UpdateRoleStatus(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	result, err := services.UpdateUserByID(c.Request.Context(), st, id, controller.QueryDocument(c))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func ListUsers(c *gin.Context, st store.Store) {
	users, err := services.ListUsers(c.Request.Context(), st, c.Query("size"), c.Query("currentPage"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func SearchDonors(c *gin.Context, st store.Store) {
	var req dto.DonorSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	donors, err := services.SearchDonors(c.Request.Context(), st, req.Email, req.District, req.Upazila, req.Blood)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, donors)
}
