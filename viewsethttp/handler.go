package viewsethttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-viewset-cache/query"
	"github.com/goliatone/go-viewset-cache/viewset"
)

// CacheHeader reports cache origin on read responses: HIT or MISS.
const CacheHeader = "X-Cache"

// Register mounts a viewset's CRUD entry points under path:
//
//	GET    <path>/      list
//	POST   <path>/      create
//	GET    <path>/:id/  retrieve
//	PUT    <path>/:id/  update
//	DELETE <path>/:id/  delete
func Register[T any](r gin.IRouter, path string, vs *viewset.ViewSet[T]) {
	grp := r.Group(path)
	grp.GET("/", listHandler(vs))
	grp.POST("/", createHandler(vs))
	grp.GET("/:id/", retrieveHandler(vs))
	grp.PUT("/:id/", updateHandler(vs))
	grp.DELETE("/:id/", deleteHandler(vs))
}

func listHandler[T any](vs *viewset.ViewSet[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := vs.List(c.Request.Context(), c.Request.URL.Query())
		if err != nil {
			writeError(c, err)
			return
		}
		writeResult(c, res)
	}
}

func retrieveHandler[T any](vs *viewset.ViewSet[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := vs.Retrieve(c.Request.Context(), c.Param("id"), c.Request.URL.Query())
		if err != nil {
			writeError(c, err)
			return
		}
		writeResult(c, res)
	}
}

func createHandler[T any](vs *viewset.ViewSet[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, viewset.ErrInvalidBody)
			return
		}
		payload, err := vs.Create(c.Request.Context(), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusCreated, "application/json", payload)
	}
}

func updateHandler[T any](vs *viewset.ViewSet[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, viewset.ErrInvalidBody)
			return
		}
		payload, err := vs.Update(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", payload)
	}
}

func deleteHandler[T any](vs *viewset.ViewSet[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := vs.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeResult(c *gin.Context, res viewset.Result) {
	if res.FromCache {
		c.Header(CacheHeader, "HIT")
	} else {
		c.Header(CacheHeader, "MISS")
	}
	c.Data(http.StatusOK, "application/json", res.Payload)
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, query.ErrInvalidFilterField),
		errors.Is(err, query.ErrInvalidFilterValue),
		errors.Is(err, query.ErrInvalidPagination),
		errors.Is(err, viewset.ErrFieldNotUpdatable),
		errors.Is(err, viewset.ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, viewset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, viewset.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
