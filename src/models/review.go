package models

import "preludio/src/types"

type Review struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	UserID  uint   `gorm:"uniqueIndex" json:"user,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"userDetalle,omitempty"`

	types.Timestamps
}
