package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/bootcamp/service"
	"github.com/devcamper/devcamper-api/pkg/middleware"
	"github.com/devcamper/devcamper-api/pkg/web"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

type Handler struct {
	svc service.Service
}

// RegisterRoutes mounts the bootcamp routes on r. protect guards every
// mutating route.
func RegisterRoutes(r gin.IRouter, svc service.Service, protect gin.HandlerFunc) {
	h := &Handler{svc: svc}
	g := r.Group("/bootcamps")
	g.GET("", middleware.AdvancedResults(svc.Find), h.list)
	g.POST("", protect, h.create)
	g.GET("/radius/:zipcode/:distance", h.radius)
	g.GET("/:id", h.get)
	g.PUT("/:id", protect, h.update)
	g.DELETE("/:id", protect, h.delete)
	g.PUT("/:id/photo", protect, h.photo)
}

func (h *Handler) list(c *gin.Context) {
	res, ok := middleware.Results(c)
	if !ok {
		_ = c.Error(errors.New("advanced results missing"))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, b)
}

func (h *Handler) create(c *gin.Context) {
	var in bootcamp.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(weberr.BadRequest("Invalid request body"))
		return
	}
	b, err := h.svc.Create(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusCreated, b)
}

func (h *Handler) update(c *gin.Context) {
	var p bootcamp.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		_ = c.Error(weberr.BadRequest("Invalid request body"))
		return
	}
	b, err := h.svc.Update(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, b)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, web.Empty)
}

func (h *Handler) radius(c *gin.Context) {
	list, err := h.svc.WithinRadius(c.Request.Context(), c.Param("zipcode"), c.Param("distance"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.RespondList(c, http.StatusOK, len(list), list)
}

func (h *Handler) photo(c *gin.Context) {
	var up *service.Upload
	fh, err := c.FormFile("file")
	if err == nil {
		f, oerr := fh.Open()
		if oerr != nil {
			_ = c.Error(weberr.Internal(oerr, "Problem with file upload"))
			return
		}
		defer f.Close()
		up = &service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}
	name, err := h.svc.UploadPhoto(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), up)
	if err != nil {
		_ = c.Error(err)
		return
	}
	web.Respond(c, http.StatusOK, name)
}
