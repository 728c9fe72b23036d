package model

import (
	"time"
)

type Persona struct {
	ConversationId int64     `gorm:"primaryKey;autoIncrement:false"`
	Persona        string    `gorm:"type:text;not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Persona) TableName() string {
	return "personas"
}
