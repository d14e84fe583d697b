package scopes

import (
	"fmt"
	"preludio/src/types"
	"preludio/src/utils"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// Paginate applies the bounded skip/limit window.
func Paginate(p utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Skip).Limit(p.Limit)
	}
}

// SearchAny matches records where ANY of the given columns contains q as a
// literal, case-insensitive substring. Empty q leaves the query untouched.
func SearchAny(q string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + utils.EscapeLike(q) + "%"
		cond := db.Session(&gorm.Session{NewDB: true}).
			Where(fmt.Sprintf("%s ILIKE ?", columns[0]), pattern)
		for _, column := range columns[1:] {
			cond = cond.Or(fmt.Sprintf("%s ILIKE ?", column), pattern)
		}
		return db.Where(cond)
	}
}

// ContainsIn is the single-column variant used by the structured
// ciudad/provincia/lugar filters.
func ContainsIn(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(fmt.Sprintf("%s ILIKE ?", column), "%"+utils.EscapeLike(value)+"%")
	}
}

// VisibleEvents pins non-ADMIN requesters to published events no matter what
// filters the request carries; admins see every publication state.
func VisibleEvents(rol types.Rol) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if rol == types.ROLE_ADMIN {
			return db
		}
		return db.Where("estado_publicacion = ?", types.PUBLICACION_PUBLISHED)
	}
}
