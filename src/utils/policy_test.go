package utils

import (
	"testing"

	"preludio/src/models"
	"preludio/src/types"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestFilterUserPatchAdmin(t *testing.T) {
	rol := types.ROLE_ADMIN
	adminRol := types.ROLE_ADMIN
	body := &types.UserPatchBody{
		Nombre:   strptr("Ana"),
		Email:    strptr("ANA@Example.COM "),
		Telefono: strptr("1155550000"),
		Rol:      &adminRol,
	}
	updates := FilterUserPatch(rol, body)
	assert.Equal(t, "Ana", updates["nombre"])
	assert.Equal(t, "ana@example.com", updates["email"])
	assert.Equal(t, "1155550000", updates["telefono"])
	assert.Equal(t, types.ROLE_ADMIN, updates["rol"])
}

func TestFilterUserPatchUsuarioDropsSilently(t *testing.T) {
	adminRol := types.ROLE_ADMIN
	body := &types.UserPatchBody{
		Nombre:   strptr("Eve"),
		DNI:      strptr("99999999"),
		Email:    strptr("eve@example.com"),
		Telefono: strptr("1144440000"),
		Password: strptr("hunter22"),
		Rol:      &adminRol,
	}
	updates := FilterUserPatch(types.ROLE_USUARIO, body)
	assert.Equal(t, map[string]any{
		"email":    "eve@example.com",
		"telefono": "1144440000",
	}, updates)
}

func TestFilterUserPatchEmptyBody(t *testing.T) {
	updates := FilterUserPatch(types.ROLE_ADMIN, &types.UserPatchBody{})
	assert.Empty(t, updates)
}

func TestCanViewEvent(t *testing.T) {
	published := &models.Event{EstadoPublicacion: types.PUBLICACION_PUBLISHED}
	pending := &models.Event{EstadoPublicacion: types.PUBLICACION_PENDING}
	past := &models.Event{EstadoPublicacion: types.PUBLICACION_PAST}

	assert.True(t, CanViewEvent(types.ROLE_ADMIN, pending))
	assert.True(t, CanViewEvent(types.ROLE_ADMIN, past))
	assert.True(t, CanViewEvent(types.ROLE_USUARIO, published))
	assert.False(t, CanViewEvent(types.ROLE_USUARIO, pending))
	assert.False(t, CanViewEvent("", pending))
	assert.True(t, CanViewEvent("", published))
}

func TestUserProjection(t *testing.T) {
	target := &models.User{
		ID:       7,
		Nombre:   "Juan",
		Apellido: "Perez",
		DNI:      "30111222",
		Email:    "juan@example.com",
		Telefono: "1133330000",
	}

	full := UserProjection(types.ROLE_ADMIN, 1, target)
	assert.Equal(t, target, full)

	self := UserProjection(types.ROLE_USUARIO, 7, target)
	assert.Equal(t, target, self)

	other := UserProjection(types.ROLE_USUARIO, 8, target)
	assert.Equal(t, uint(7), other.ID)
	assert.Equal(t, "Juan", other.Nombre)
	assert.Equal(t, "Perez", other.Apellido)
	assert.Empty(t, other.Email)
	assert.Empty(t, other.DNI)
	assert.Empty(t, other.Telefono)
}
