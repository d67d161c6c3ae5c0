package api

import (
	"context"
	"net/http"

	"stoktakip-service/internal/service"
	"stoktakip-service/internal/store"

	"github.com/gin-gonic/gin"
)

// crud is the operation set behind GET/POST /<resource> and
// PUT/DELETE /<resource>/:id
type crud[T any, P interface {
	*T
	store.Record
}] struct {
	list   func(ctx context.Context) ([]T, error)
	create func(ctx context.Context, rec P) (P, error)
	update func(ctx context.Context, id string, rec P) (P, error)
	remove func(ctx context.Context, id string) error
}

func resourceCRUD[T any, P interface {
	*T
	store.Record
}](r *service.Resource[T, P]) crud[T, P] {
	return crud[T, P]{
		list:   r.List,
		create: r.Create,
		update: r.Update,
		remove: r.Delete,
	}
}

func registerCRUD[T any, P interface {
	*T
	store.Record
}](g *gin.RouterGroup, path string, h *Handler, ops crud[T, P]) {
	g.GET(path, func(c *gin.Context) {
		records, err := ops.list(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		ok(c, http.StatusOK, records)
	})

	g.POST(path, func(c *gin.Context) {
		rec := P(new(T))
		if !h.bindJSON(c, rec) {
			return
		}
		created, err := ops.create(c.Request.Context(), rec)
		if err != nil {
			h.fail(c, err)
			return
		}
		ok(c, http.StatusCreated, created)
	})

	g.PUT(path+"/:id", func(c *gin.Context) {
		rec := P(new(T))
		if !h.bindJSON(c, rec) {
			return
		}
		updated, err := ops.update(c.Request.Context(), c.Param("id"), rec)
		if err != nil {
			h.fail(c, err)
			return
		}
		ok(c, http.StatusOK, updated)
	})

	g.DELETE(path+"/:id", func(c *gin.Context) {
		if err := ops.remove(c.Request.Context(), c.Param("id")); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
