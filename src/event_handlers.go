package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"preludio/src/db"
	"preludio/src/lib"
	"preludio/src/middlewares"
	"preludio/src/models"
	"preludio/src/models/scopes"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var eventSortColumns = map[string]string{
	"fecha":          "fecha",
	"titulo":         "titulo",
	"precioBase":     "precio_base",
	"capacidadTotal": "capacidad_total",
	"createdAt":      "created_at",
}

// publicEventHandlers serves the catalogue. Routes run behind OptionalAuth:
// anonymous and USUARIO callers only ever see published events, admins see
// every publication state.
func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			rol := middlewares.CallerRol(ctx)
			p := utils.GetPaginationParams(ctx, "fecha", "asc")

			tx := db.Get().
				Model(&models.Event{}).
				Scopes(
					scopes.VisibleEvents(rol),
					scopes.SearchAny(p.Q, "titulo", "descripcion", "categoria", "ubicacion_lugar", "ubicacion_ciudad", "ubicacion_provincia"),
					scopes.ContainsIn("ubicacion_ciudad", ctx.Query("ciudad")),
					scopes.ContainsIn("ubicacion_provincia", ctx.Query("provincia")),
					scopes.ContainsIn("ubicacion_lugar", ctx.Query("lugar")),
				)
			if estado := ctx.Query("estado"); estado != "" {
				tx = tx.Where("estado = ?", estado)
			}
			if pub := ctx.Query("estadoPublicacion"); pub != "" {
				tx = tx.Where("estado_publicacion = ?", pub)
			}
			if categoria := ctx.Query("categoria"); categoria != "" {
				tx = tx.Where("categoria = ?", categoria)
			}
			if from := ctx.Query("from"); from != "" {
				tx = tx.Where("fecha >= ?", from)
			}
			if to := ctx.Query("to"); to != "" {
				tx = tx.Where("fecha <= ?", to)
			}

			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Evento no encontrado"))
				return
			}

			order := fmt.Sprintf("%s %s", p.SortColumn(eventSortColumns, "fecha"), p.Direction())
			if p.SortColumn(eventSortColumns, "fecha") == "fecha" {
				order = fmt.Sprintf("%s, hora %s", order, p.Direction())
			}
			var events []models.Event
			if err := tx.
				Scopes(scopes.Paginate(p)).
				Order(order).
				Find(&events).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Evento no encontrado"))
				return
			}
			listResponse(ctx, events, total, p)
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			rol := middlewares.CallerRol(ctx)

			// The cache only ever holds published events, so a hit is safe to
			// serve to any caller.
			if cached, ok := lib.CacheGet(ctx.Request.Context(), lib.EventCacheKey(id)); ok {
				ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
				return
			}

			var event models.Event
			if err := db.Get().
				Model(&models.Event{}).
				Scopes(scopes.WithID(id)).
				First(&event).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Evento no encontrado"))
				return
			}
			if !utils.CanViewEvent(rol, &event) {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrForbidden, "Evento no disponible"))
				return
			}
			if event.EstadoPublicacion == types.PUBLICACION_PUBLISHED {
				if payload, err := json.Marshal(event); err == nil {
					lib.CacheSet(ctx.Request.Context(), lib.EventCacheKey(id), string(payload), 5*time.Minute)
				}
			}
			ctx.JSON(http.StatusOK, event)
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.EventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := utils.CreateNewEvent(db.Get(), &body, middlewares.CallerID(ctx))
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, event)
		}).
		PUT("/events/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			var body types.EventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := utils.UpdateEvent(db.Get(), id, &body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, event)
		}).
		PATCH("/events/:id/publish", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			if err := utils.PublishEvent(db.Get(), id); err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			err := db.Get().Transaction(func(tx *gorm.DB) error {
				res := tx.Scopes(scopes.WithID(id)).Delete(&models.Event{})
				if res.Error != nil {
					return utils.MapStoreError(res.Error, "Evento no encontrado")
				}
				if res.RowsAffected == 0 {
					return types.NewAPIError(types.ErrNotFound, "Evento no encontrado")
				}
				return nil
			})
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			go lib.InvalidateEventCache(id)
			ctx.JSON(http.StatusOK, gin.H{"message": "Evento eliminado"})
		})
	return g
}
