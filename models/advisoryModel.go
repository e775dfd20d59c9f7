package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Advisory struct {
	gorm.Model
	Title   string         `json:"title" binding:"required"`
	Content string         `json:"content" binding:"required"`
	Tags    datatypes.JSON `json:"tags"`
	Region  string         `json:"region"`
}
