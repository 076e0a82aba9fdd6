package models

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID uint `json:"userID" gorm:"not null;uniqueIndex:idx_favorites_user_unit"`
	UnitID uint `json:"unitID" gorm:"not null;uniqueIndex:idx_favorites_user_unit"`
	Unit   Unit `json:"unit" gorm:"foreignKey:UnitID;references:ID;constraint:OnDelete:CASCADE"`
}
