package blog

import (
	"net/http"

	"bdcserver/controller"
	"bdcserver/middleware"
	"bdcserver/services"
	"bdcserver/store"

	"github.com/gin-gonic/gin"
)

func BlogController(router *gin.Engine, st store.Store, verifier services.IdentityVerifier) {
	routes := router.Group(controller.APIPrefix)
	{
		routes.POST("/add-blog", func(c *gin.Context) {
			AddBlog(c, st)
		})
		routes.GET("/all-blog", func(c *gin.Context) {
			ListBlogs(c, st)
		})
		routes.GET("/a-blog/:id", func(c *gin.Context) {
			GetBlog(c, st)
		})
		routes.PUT("/update-blog/:id", func(c *gin.Context) {
			UpdateBlog(c, st)
		})
		routes.GET("/all-published-blog", func(c *gin.Context) {
			ListPublished(c, st)
		})
		routes.GET("/search-blog", func(c *gin.Context) {
			SearchBlogs(c, st)
		})
	}

	admin := router.Group(controller.APIPrefix, middleware.IdentityMiddleware(verifier), middleware.AdminMiddleware(st))
	{
		admin.PATCH("/publish-blog/:id", func(c *gin.Context) {
			PublishBlog(c, st)
		})
		admin.DELETE("/delete-blog/:id", func(c *gin.Context) {
			DeleteBlog(c, st)
		})
	}
}

func AddBlog(c *gin.Context, st store.Store) {
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.AddBlog(c.Request.Context(), st, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func ListBlogs(c *gin.Context, st store.Store) {
	docs, err := services.ListBlogs(c.Request.Context(), st)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func GetBlog(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	doc, err := services.GetBlog(c.Request.Context(), st, id)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func UpdateBlog(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	body, ok := controller.BindDocument(c)
	if !ok {
		return
	}
	result, err := services.UpdateBlog(c.Request.Context(), st, id, body)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func ListPublished(c *gin.Context, st store.Store) {
	docs, err := services.ListPublishedBlogs(c.Request.Context(), st)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func SearchBlogs(c *gin.Context, st store.Store) {
	docs, err := services.SearchPublishedBlogs(c.Request.Context(), st, c.Query("title"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// PublishBlog sets blogStatus from the query string. Admin only.
func PublishBlog(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	status, present := c.GetQuery("blogStatus")
	if !present {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blogStatus is required"})
		return
	}
	result, err := services.SetBlogStatus(c.Request.Context(), st, id, status)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteBlog removes a blog. Admin only.
func DeleteBlog(c *gin.Context, st store.Store) {
	id, ok := controller.ParseID(c)
	if !ok {
		return
	}
	result, err := services.DeleteBlog(c.Request.Context(), st, id)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
