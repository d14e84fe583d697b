package main

import (
	"fmt"
	"net/http"

	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/models"
	"preludio/src/models/scopes"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
)

var pagoSortColumns = map[string]string{
	"createdAt": "created_at",
	"fechaPago": "fecha_pago",
	"monto":     "monto",
}

func pagoHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/pagos/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			esAdmin := middlewares.CallerRol(ctx) == types.ROLE_ADMIN
			pago, err := utils.Checkout(db.Get(), middlewares.CallerID(ctx), esAdmin, &body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, pago)
		}).
		GET("/pagos", func(ctx *gin.Context) {
			p := utils.GetPaginationParams(ctx, "createdAt", "desc")

			// A caller with no tickets has no payments either; skip the
			// second query entirely.
			var ticketIDs []uint
			if err := db.Get().
				Model(&models.Ticket{}).
				Where("comprador_id = ?", middlewares.CallerID(ctx)).
				Pluck("id", &ticketIDs).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			if len(ticketIDs) == 0 {
				listResponse(ctx, []models.Pago{}, 0, p)
				return
			}

			tx := db.Get().Model(&models.Pago{}).Where("ticket_id IN ?", ticketIDs)
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			var pagos []models.Pago
			if err := tx.
				Preload("Ticket").
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(pagoSortColumns, "created_at"), p.Direction())).
				Find(&pagos).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			listResponse(ctx, pagos, total, p)
		}).
		GET("/pagos/list", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			p := utils.GetPaginationParams(ctx, "createdAt", "desc")

			tx := db.Get().Model(&models.Pago{})
			if estado := ctx.Query("estado"); estado != "" {
				tx = tx.Where("estado = ?", estado)
			}
			if metodo := ctx.Query("metodo"); metodo != "" {
				tx = tx.Where("metodo = ?", metodo)
			}
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			var pagos []models.Pago
			if err := tx.
				Preload("Ticket").
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(pagoSortColumns, "created_at"), p.Direction())).
				Find(&pagos).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			listResponse(ctx, pagos, total, p)
		}).
		GET("/pagos/:id", func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			var pago models.Pago
			if err := db.Get().
				Model(&models.Pago{}).
				Preload("Ticket").
				Scopes(scopes.WithID(id)).
				First(&pago).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Pago no encontrado"))
				return
			}
			if middlewares.CallerRol(ctx) != types.ROLE_ADMIN &&
				(pago.Ticket == nil || pago.Ticket.CompradorID != middlewares.CallerID(ctx)) {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrForbidden, "No autorizado"))
				return
			}
			ctx.JSON(http.StatusOK, pago)
		})
	return g
}
