package main

import (
	"fmt"
	"net/http"
	"os"
	"path"

	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/models"
	"preludio/src/models/scopes"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

var ticketSortColumns = map[string]string{
	"createdAt":    "created_at",
	"fechaCompra":  "fecha_compra",
	"precioPagado": "precio_pagado",
}

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tickets", func(ctx *gin.Context) {
			var body types.CreateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			comprador := middlewares.CallerID(ctx)
			if body.Comprador != nil {
				if middlewares.CallerRol(ctx) != types.ROLE_ADMIN {
					middlewares.RespondError(ctx, types.NewAPIError(types.ErrForbidden, "No autorizado"))
					return
				}
				comprador = *body.Comprador
			}
			ticket, err := utils.CreateTicketForUser(db.Get(), body.Evento, comprador, body.TipoEntrada, body.PrecioPagado)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, ticket)
		}).
		GET("/tickets", func(ctx *gin.Context) {
			rol := middlewares.CallerRol(ctx)
			p := utils.GetPaginationParams(ctx, "createdAt", "desc")

			tx := db.Get().Model(&models.Ticket{})
			if ctx.Query("todos") == "true" && rol == types.ROLE_ADMIN {
				// admin overview, unscoped
			} else {
				tx = tx.Where("comprador_id = ?", middlewares.CallerID(ctx))
			}
			if estado := ctx.Query("estado"); estado != "" {
				tx = tx.Where("estado = ?", estado)
			}
			if evento := ctx.Query("evento"); evento != "" {
				tx = tx.Where("evento_id = ?", evento)
			}

			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Ticket no encontrado"))
				return
			}
			var tickets []models.Ticket
			if err := tx.
				Preload("Evento").
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(ticketSortColumns, "created_at"), p.Direction())).
				Find(&tickets).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Ticket no encontrado"))
				return
			}
			listResponse(ctx, tickets, total, p)
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			ticket, ok := findCallerTicket(ctx, true)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, ticket)
		}).
		GET("/tickets/:id/code", func(ctx *gin.Context) {
			ticket, ok := findCallerTicket(ctx, false)
			if !ok {
				return
			}
			qrc, err := qrcode.New(ticket.CodigoQR)
			if err != nil {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrInternal, "Error interno del servidor"))
				return
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("ticket_%d.jpeg", ticket.ID))
			if err := qrc.Save(filepath); err != nil {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrInternal, "Error interno del servidor"))
				return
			}
			ctx.FileAttachment(filepath, "entrada.jpeg")
		}).
		PUT("/tickets/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			var body types.UpdateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.TipoEntrada != nil {
				updates["tipo_entrada"] = *body.TipoEntrada
			}
			if body.PrecioPagado != nil {
				updates["precio_pagado"] = *body.PrecioPagado
			}
			if body.Estado != nil {
				updates["estado"] = *body.Estado
			}
			var ticket models.Ticket
			err := db.Get().Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Ticket{}).
					Scopes(scopes.WithID(id)).
					First(&ticket).
					Error; err != nil {
					return utils.MapStoreError(err, "Ticket no encontrado")
				}
				if len(updates) == 0 {
					return nil
				}
				if err := tx.
					Model(&models.Ticket{}).
					Scopes(scopes.WithID(id)).
					Updates(updates).
					Error; err != nil {
					return utils.MapStoreError(err, "Ticket no encontrado")
				}
				return tx.Model(&models.Ticket{}).Scopes(scopes.WithID(id)).First(&ticket).Error
			})
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, ticket)
		}).
		DELETE("/tickets/:id", func(ctx *gin.Context) {
			// Owner deletion cancels the ticket; only an admin removes the
			// row outright. Neither path returns the seat to inventory.
			ticket, ok := findCallerTicket(ctx, false)
			if !ok {
				return
			}
			if middlewares.CallerRol(ctx) == types.ROLE_ADMIN {
				if err := db.Get().
					Scopes(scopes.WithID(ticket.ID)).
					Delete(&models.Ticket{}).
					Error; err != nil {
					middlewares.RespondError(ctx, utils.MapStoreError(err, "Ticket no encontrado"))
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"message": "Ticket eliminado"})
				return
			}
			if err := db.Get().
				Model(&models.Ticket{}).
				Scopes(scopes.WithID(ticket.ID)).
				Update("estado", types.TICKET_CANCELADO).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Ticket no encontrado"))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Ticket cancelado"})
		})
	return g
}

// findCallerTicket loads :id and enforces ownership. Admins may read any
// ticket; other callers only their own, and a foreign ticket answers 403.
func findCallerTicket(ctx *gin.Context, preloadEvento bool) (*models.Ticket, bool) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return nil, false
	}
	tx := db.Get().Model(&models.Ticket{})
	if preloadEvento {
		tx = tx.Preload("Evento")
	}
	var ticket models.Ticket
	if err := tx.Scopes(scopes.WithID(id)).First(&ticket).Error; err != nil {
		middlewares.RespondError(ctx, utils.MapStoreError(err, "Ticket no encontrado"))
		return nil, false
	}
	if middlewares.CallerRol(ctx) != types.ROLE_ADMIN && ticket.CompradorID != middlewares.CallerID(ctx) {
		middlewares.RespondError(ctx, types.NewAPIError(types.ErrForbidden, "No autorizado"))
		return nil, false
	}
	return &ticket, true
}
