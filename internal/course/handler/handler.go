package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/course/service"
	"github.com/devcamper/devcamper-api/pkg/middleware"
	"github.com/devcamper/devcamper-api/pkg/web"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

type Handler struct {
	svc service.Service
}

// RegisterRoutes mounts /courses and the nested /bootcamps/:id/courses
// routes. The nested routes read the bootcamp id from :id.
func RegisterRoutes(r gin.IRouter, svc service.Service, protect gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.GET("/bootcamps/:id/courses", h.listByBootcamp)
	r.POST("/bootcamps/:id/courses", protect, h.create)

	g := r.Group("/courses")
	g.GET("", middleware.AdvancedResults(svc.Find), h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", protect, h.update)
	g.DELETE("/:id", protect, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	res, ok := middleware.Results(c)
	if !ok {
		_ = c.Error(errors.New("advanced results missing"))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) listByBootcamp(c *gin.Context) {
	list, err := h.svc.ListByBootcamp(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.RespondList(c, http.StatusOK, len(list), list)
}

func (h *Handler) get(c *gin.Context) {
	crs, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, crs)
}

func (h *Handler) create(c *gin.Context) {
	var in course.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(weberr.BadRequest("Invalid request body"))
		return
	}
	crs, err := h.svc.Create(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusCreated, crs)
}

func (h *Handler) update(c *gin.Context) {
	var p course.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		_ = c.Error(weberr.BadRequest("Invalid request body"))
		return
	}
	crs, err := h.svc.Update(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, crs)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, web.Empty)
}
