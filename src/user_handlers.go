package main

import (
	"fmt"
	"net/http"
	"time"

	"preludio/src/config"
	"preludio/src/controllers"
	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/models"
	"preludio/src/models/scopes"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"nombre":    "nombre",
	"apellido":  "apellido",
	"email":     "email",
}

// publicUserHandlers exposes the name-only directory search.
func publicUserHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/search", func(ctx *gin.Context) {
			p := utils.GetPaginationParams(ctx, "apellido", "asc")

			tx := db.Get().
				Model(&models.User{}).
				Scopes(scopes.SearchAny(p.Q, "nombre", "apellido"))
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			var users []models.User
			if err := tx.
				Select("id", "nombre", "apellido").
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(userSortColumns, "apellido"), p.Direction())).
				Find(&users).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			listResponse(ctx, users, total, p)
		})
	return g
}

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			p := utils.GetPaginationParams(ctx, "createdAt", "desc")

			tx := db.Get().
				Model(&models.User{}).
				Scopes(scopes.SearchAny(p.Q, "nombre", "apellido", "email", "dni", "telefono", "rol"))
			if rol := ctx.Query("rol"); rol != "" {
				tx = tx.Where("rol = ?", rol)
			}
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			var users []models.User
			if err := tx.
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(userSortColumns, "created_at"), p.Direction())).
				Find(&users).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			listResponse(ctx, users, total, p)
		}).
		POST("/users", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := controllers.AuthRegister(db.Get(), &body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			// Admin-created accounts may carry an explicit rol.
			if body.Rol != "" && body.Rol != user.Rol {
				if err := db.Get().
					Model(&models.User{}).
					Scopes(scopes.WithID(user.ID)).
					Update("rol", body.Rol).
					Error; err != nil {
					middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
					return
				}
				user.Rol = body.Rol
			}
			ctx.JSON(http.StatusCreated, user)
		}).
		GET("/users/me", func(ctx *gin.Context) {
			var user models.User
			if err := db.Get().
				Model(&models.User{}).
				Scopes(scopes.WithID(middlewares.CallerID(ctx))).
				First(&user).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			ctx.JSON(http.StatusOK, user)
		}).
		PATCH("/users/me", func(ctx *gin.Context) {
			applyUserPatch(ctx, middlewares.CallerID(ctx), middlewares.CallerRol(ctx))
		}).
		PUT("/users/me/change-password", func(ctx *gin.Context) {
			var body types.ChangePasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := middlewares.CallerID(ctx)
			err := db.Get().Transaction(func(tx *gorm.DB) error {
				var user models.User
				if err := tx.
					Model(&models.User{}).
					Scopes(scopes.WithID(userID)).
					First(&user).
					Error; err != nil {
					return utils.MapStoreError(err, "Usuario no encontrado")
				}
				if !utils.CheckPassword(body.CurrentPassword, user.Password) {
					return types.NewAPIError(types.ErrUnauthenticated, "Contraseña actual incorrecta")
				}
				hashed, err := utils.HashPassword(body.NewPassword)
				if err != nil {
					return types.NewAPIError(types.ErrInternal, "Error interno del servidor")
				}
				return tx.
					Model(&models.User{}).
					Scopes(scopes.WithID(userID)).
					Update("password", hashed).
					Error
			})
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada"})
		}).
		GET("/users/:id", func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			var user models.User
			if err := db.Get().
				Model(&models.User{}).
				Scopes(scopes.WithID(id)).
				First(&user).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Usuario no encontrado"))
				return
			}
			projected := utils.UserProjection(middlewares.CallerRol(ctx), middlewares.CallerID(ctx), &user)
			ctx.JSON(http.StatusOK, projected)
		}).
		PUT("/users/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			applyUserPatch(ctx, id, types.ROLE_ADMIN)
		}).
		DELETE("/users/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			res := db.Get().Scopes(scopes.WithID(id)).Delete(&models.User{})
			if res.Error != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(res.Error, "Usuario no encontrado"))
				return
			}
			if res.RowsAffected == 0 {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrNotFound, "Usuario no encontrado"))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado"})
		})
	return g
}

// applyUserPatch runs the role-filtered partial update against the target
// user and replies with the updated record.
func applyUserPatch(ctx *gin.Context, targetID uint, asRol types.Rol) {
	var body types.UserPatchBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Filter first: a field the caller's role cannot touch is dropped
	// silently, malformed or not. Only surviving values get validated.
	updates := utils.FilterUserPatch(asRol, &body)
	if raw, ok := updates["fecha_nacimiento"]; ok {
		parsed, err := time.Parse(config.DATE_PARSE_FORMAT, raw.(string))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fechaNacimiento invalido"})
			return
		}
		updates["fecha_nacimiento"] = parsed
	}
	if raw, ok := updates["password"]; ok {
		hashed, err := utils.HashPassword(raw.(string))
		if err != nil {
			middlewares.RespondError(ctx, types.NewAPIError(types.ErrInternal, "Error interno del servidor"))
			return
		}
		updates["password"] = hashed
	}

	var user models.User
	err := db.Get().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.User{}).
			Scopes(scopes.WithID(targetID)).
			First(&user).
			Error; err != nil {
			return utils.MapStoreError(err, "Usuario no encontrado")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.
			Model(&models.User{}).
			Scopes(scopes.WithID(targetID)).
			Updates(updates).
			Error; err != nil {
			return utils.MapStoreError(err, "Usuario no encontrado")
		}
		return tx.Model(&models.User{}).Scopes(scopes.WithID(targetID)).First(&user).Error
	})
	if err != nil {
		middlewares.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
