package controllers

import (
	"log"
	"os"
	"strconv"
	"time"

	"preludio/src/config"
	"preludio/src/models"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthRegister creates an account. A requested rol of ADMIN is honored only
// while no ADMIN row exists yet, so a fresh deployment can bootstrap its
// administrator; after that every registration lands as USUARIO.
func AuthRegister(db *gorm.DB, body *types.RegisterUserRequestBody) (*models.User, error) {
	fechaNacimiento, err := time.Parse(config.DATE_PARSE_FORMAT, body.FechaNacimiento)
	if err != nil {
		return nil, types.NewAPIError(types.ErrValidation, "Formato de fechaNacimiento invalido")
	}
	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, types.NewAPIError(types.ErrInternal, "Error interno del servidor")
	}

	user := models.User{
		Nombre:          body.Nombre,
		Apellido:        body.Apellido,
		DNI:             body.DNI,
		Email:           utils.NormalizeEmail(body.Email),
		Password:        hashed,
		FechaNacimiento: &fechaNacimiento,
		Telefono:        body.Telefono,
		Rol:             types.ROLE_USUARIO,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if body.Rol == types.ROLE_ADMIN {
			var admins int64
			if err := tx.
				Model(&models.User{}).
				Where("rol = ?", types.ROLE_ADMIN).
				Count(&admins).
				Error; err != nil {
				return utils.MapStoreError(err, "Usuario no encontrado")
			}
			if admins == 0 {
				user.Rol = types.ROLE_ADMIN
			}
		}
		if err := tx.Create(&user).Error; err != nil {
			return utils.MapStoreError(err, "Usuario no encontrado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthLogin verifies credentials and issues the access and refresh tokens.
func AuthLogin(db *gorm.DB, body *types.LoginRequestBody) (*models.User, string, string, error) {
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: utils.NormalizeEmail(body.Email)}).
		First(&user).
		Error; err != nil {
		return nil, "", "", types.NewAPIError(types.ErrUnauthenticated, "Credenciales invalidas")
	}
	if !utils.CheckPassword(body.Password, user.Password) {
		return nil, "", "", types.NewAPIError(types.ErrUnauthenticated, "Credenciales invalidas")
	}
	token, err := utils.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, "", "", types.NewAPIError(types.ErrInternal, "Error interno del servidor")
	}
	refresh, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		log.Printf("Error signing refresh token for user [%d]: %s\n", user.ID, err.Error())
		return nil, "", "", types.NewAPIError(types.ErrInternal, "Error interno del servidor")
	}
	return &user, token, refresh, nil
}

// AuthRefresh exchanges a valid refresh cookie for a fresh access token.
func AuthRefresh(db *gorm.DB, ctx *gin.Context) (string, error) {
	cookie, err := ctx.Cookie(config.REFRESH_COOKIE_NAME)
	if err != nil || cookie == "" {
		return "", types.NewAPIError(types.ErrUnauthenticated, "Sesion expirada")
	}
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie, claims, func(t *jwt.Token) (any, error) {
		return []byte(os.Getenv("JWT_REFRESH_SECRET")), nil
	})
	if err != nil || !tkn.Valid {
		return "", types.NewAPIError(types.ErrUnauthenticated, "Sesion expirada")
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil || uid < 1 {
		return "", types.NewAPIError(types.ErrUnauthenticated, "Sesion expirada")
	}

	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{ID: uint(uid)}).
		First(&user).
		Error; err != nil {
		return "", types.NewAPIError(types.ErrUnauthenticated, "Sesion expirada")
	}
	token, err := utils.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return "", types.NewAPIError(types.ErrInternal, "Error interno del servidor")
	}
	return token, nil
}
