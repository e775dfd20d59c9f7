package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description" binding:"required"`
	MainCategory string         `json:"mainCategory" binding:"required"`
	SubCategory  string         `json:"subCategory" binding:"required"`
	Price        float64        `json:"price" binding:"required,gte=0"`
	Unit         string         `json:"unit" gorm:"default:kg"`
	Stock        int            `json:"stock" binding:"gte=0"`
	ImageURL     string         `json:"imageUrl"`
	Tags         datatypes.JSON `json:"tags"`
}
