package middlewares

import (
	"log"
	"os"
	"strconv"
	"strings"

	"preludio/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func parseClaims(reqToken string) (*types.Claims, uint, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return nil, 0, err
	}
	if !tkn.Valid {
		return nil, 0, jwt.ErrTokenMalformed
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil || uid < 1 {
		return nil, 0, jwt.ErrTokenInvalidSubject
	}
	return claims, uint(uid), nil
}

// AuthMiddleware authenticates from the bearer token alone. The claims
// carry the user id and rol, so no store round trip happens per request.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.TrimPrefix(bearerToken, "Bearer ")
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims, uid, err := parseClaims(reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("id", uid)
	ctx.Set("email", claims.Email)
	ctx.Set("rol", claims.Rol)
}

// OptionalAuth sets the identity keys when a valid bearer token is present
// and stays silent otherwise. Anonymous callers proceed with no rol.
func OptionalAuth(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		return
	}
	reqToken := strings.TrimPrefix(bearerToken, "Bearer ")
	claims, uid, err := parseClaims(reqToken)
	if err != nil {
		return
	}
	ctx.Set("id", uid)
	ctx.Set("email", claims.Email)
	ctx.Set("rol", claims.Rol)
}

func RequireRole(rol types.Rol) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CallerRol(ctx) != rol {
			ctx.AbortWithStatusJSON(403, gin.H{"error": "No autorizado"})
			return
		}
	}
}

func CallerID(ctx *gin.Context) uint {
	id, ok := ctx.Get("id")
	if !ok {
		return 0
	}
	uid, _ := id.(uint)
	return uid
}

func CallerRol(ctx *gin.Context) types.Rol {
	rol, ok := ctx.Get("rol")
	if !ok {
		return ""
	}
	r, _ := rol.(types.Rol)
	return r
}

// RespondError maps the error taxonomy to a status once, at the edge.
func RespondError(ctx *gin.Context, err error) {
	apiErr := types.AsAPIError(err)
	ctx.JSON(apiErr.Status(), gin.H{"error": apiErr.Message})
}
