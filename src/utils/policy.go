package utils

import (
	"preludio/src/models"
	"preludio/src/types"
)

// Per-role allowlists of mutable user columns. Declared statically instead
// of picking fields off the request object at runtime; anything a role may
// not touch is dropped silently, never rejected.
var userFieldAllowlist = map[types.Rol][]string{
	types.ROLE_ADMIN:   {"nombre", "apellido", "dni", "email", "telefono", "fecha_nacimiento", "password", "rol"},
	types.ROLE_USUARIO: {"email", "telefono"},
}

func allowed(rol types.Rol, field string) bool {
	for _, f := range userFieldAllowlist[rol] {
		if f == field {
			return true
		}
	}
	return false
}

// FilterUserPatch reduces a patch body to the column updates the role may
// apply. Password values arrive in plain text and must be hashed by the
// caller before this map is persisted.
func FilterUserPatch(rol types.Rol, body *types.UserPatchBody) map[string]any {
	updates := map[string]any{}
	set := func(field string, v any) {
		if allowed(rol, field) {
			updates[field] = v
		}
	}
	if body.Nombre != nil {
		set("nombre", *body.Nombre)
	}
	if body.Apellido != nil {
		set("apellido", *body.Apellido)
	}
	if body.DNI != nil {
		set("dni", *body.DNI)
	}
	if body.Email != nil {
		set("email", NormalizeEmail(*body.Email))
	}
	if body.Telefono != nil {
		set("telefono", *body.Telefono)
	}
	if body.FechaNacimiento != nil {
		set("fecha_nacimiento", *body.FechaNacimiento)
	}
	if body.Password != nil {
		set("password", *body.Password)
	}
	if body.Rol != nil {
		set("rol", *body.Rol)
	}
	return updates
}

// CanViewEvent decides single-event visibility. Invisible events yield
// Forbidden, not NotFound: existence is public, content is not.
func CanViewEvent(rol types.Rol, event *models.Event) bool {
	if rol == types.ROLE_ADMIN {
		return true
	}
	return event.EstadoPublicacion == types.PUBLICACION_PUBLISHED
}

// UserProjection narrows a user record for the requester: full profile
// (minus the credential hash, which never serializes) for admins and the
// owner, name fields only for everyone else.
func UserProjection(requesterRol types.Rol, requesterID uint, target *models.User) *models.User {
	if requesterRol == types.ROLE_ADMIN || requesterID == target.ID {
		return target
	}
	return &models.User{ID: target.ID, Nombre: target.Nombre, Apellido: target.Apellido}
}
