package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/models"
	"preludio/src/models/scopes"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var reviewSortColumns = map[string]string{
	"createdAt": "created_at",
	"rating":    "rating",
}

func userNameFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "nombre", "apellido")
}

// bindReview validates a review body: rating bounds come from the binding
// tags, the comment is trimmed and must land between 10 and 500 characters.
func bindReview(ctx *gin.Context) (*types.ReviewRequestBody, bool) {
	var body types.ReviewRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	body.Comment = strings.TrimSpace(body.Comment)
	if n := utf8.RuneCountInString(body.Comment); n < 10 || n > 500 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "El comentario debe tener entre 10 y 500 caracteres"})
		return nil, false
	}
	return &body, true
}

// publicReviewHandlers serves the read side. Reviews are public content.
func publicReviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reviews", func(ctx *gin.Context) {
			// Landing-page feed: latest reviews, fixed window.
			var reviews []models.Review
			if err := db.Get().
				Model(&models.Review{}).
				Preload("User", userNameFields).
				Order("created_at DESC").
				Limit(20).
				Find(&reviews).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Reseña no encontrada"))
				return
			}
			ctx.JSON(http.StatusOK, reviews)
		}).
		GET("/reviews/list", func(ctx *gin.Context) {
			p := utils.GetPaginationParams(ctx, "createdAt", "desc")

			tx := db.Get().
				Model(&models.Review{}).
				Scopes(scopes.SearchAny(p.Q, "comment"))
			if rating := ctx.Query("rating"); rating != "" {
				tx = tx.Where("rating = ?", rating)
			}
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Reseña no encontrada"))
				return
			}
			var reviews []models.Review
			if err := tx.
				Preload("User", userNameFields).
				Scopes(scopes.Paginate(p)).
				Order(fmt.Sprintf("%s %s", p.SortColumn(reviewSortColumns, "created_at"), p.Direction())).
				Find(&reviews).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Reseña no encontrada"))
				return
			}
			listResponse(ctx, reviews, total, p)
		}).
		GET("/reviews/:id", func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			var review models.Review
			if err := db.Get().
				Model(&models.Review{}).
				Preload("User", userNameFields).
				Scopes(scopes.WithID(id)).
				First(&review).
				Error; err != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Reseña no encontrada"))
				return
			}
			ctx.JSON(http.StatusOK, review)
		})
	return g
}

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reviews", func(ctx *gin.Context) {
			body, ok := bindReview(ctx)
			if !ok {
				return
			}
			userID := middlewares.CallerID(ctx)
			review := models.Review{
				UserID:  userID,
				Rating:  body.Rating,
				Comment: body.Comment,
			}
			err := db.Get().Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.
					Model(&models.Review{}).
					Where("user_id = ?", userID).
					Count(&count).
					Error; err != nil {
					return utils.MapStoreError(err, "Reseña no encontrada")
				}
				if count > 0 {
					return types.NewAPIError(types.ErrConflict, "Ya existe una reseña de este usuario")
				}
				if err := tx.Create(&review).Error; err != nil {
					return utils.MapStoreError(err, "Reseña no encontrada")
				}
				return nil
			})
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, review)
		}).
		GET("/reviews/me", func(ctx *gin.Context) {
			var review models.Review
			if err := db.Get().
				Model(&models.Review{}).
				Where("user_id = ?", middlewares.CallerID(ctx)).
				First(&review).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					middlewares.RespondError(ctx, types.NewAPIError(types.ErrNotFound, "Aun no has publicado una reseña"))
					return
				}
				middlewares.RespondError(ctx, utils.MapStoreError(err, "Reseña no encontrada"))
				return
			}
			ctx.JSON(http.StatusOK, review)
		}).
		PUT("/reviews/me", func(ctx *gin.Context) {
			body, ok := bindReview(ctx)
			if !ok {
				return
			}
			review, err := updateReview(db.Get(), map[string]any{"user_id": middlewares.CallerID(ctx)}, body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, review)
		}).
		DELETE("/reviews/me", func(ctx *gin.Context) {
			res := db.Get().
				Where("user_id = ?", middlewares.CallerID(ctx)).
				Delete(&models.Review{})
			if res.Error != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(res.Error, "Reseña no encontrada"))
				return
			}
			if res.RowsAffected == 0 {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrNotFound, "Aun no has publicado una reseña"))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Reseña eliminada"})
		}).
		PUT("/reviews/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			body, ok := bindReview(ctx)
			if !ok {
				return
			}
			review, err := updateReview(db.Get(), map[string]any{"id": id}, body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, review)
		}).
		DELETE("/reviews/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			id, ok := parseIDParam(ctx)
			if !ok {
				return
			}
			res := db.Get().Scopes(scopes.WithID(id)).Delete(&models.Review{})
			if res.Error != nil {
				middlewares.RespondError(ctx, utils.MapStoreError(res.Error, "Reseña no encontrada"))
				return
			}
			if res.RowsAffected == 0 {
				middlewares.RespondError(ctx, types.NewAPIError(types.ErrNotFound, "Reseña no encontrada"))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Reseña eliminada"})
		})
	return g
}

func updateReview(conn *gorm.DB, where map[string]any, body *types.ReviewRequestBody) (*models.Review, error) {
	var review models.Review
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Review{}).
			Where(where).
			First(&review).
			Error; err != nil {
			return utils.MapStoreError(err, "Reseña no encontrada")
		}
		if err := tx.
			Model(&models.Review{}).
			Scopes(scopes.WithID(review.ID)).
			Updates(map[string]any{"rating": body.Rating, "comment": body.Comment}).
			Error; err != nil {
			return utils.MapStoreError(err, "Reseña no encontrada")
		}
		return tx.Model(&models.Review{}).Scopes(scopes.WithID(review.ID)).First(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
