package models

import "time"

// FeeType represents a kind of charge that can be billed to students.
type FeeType struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Code             string     `json:"code" gorm:"uniqueIndex;not null" validate:"required"`
	Name             string     `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Description      *string    `json:"description,omitempty" gorm:"type:text"`
	RequiresSemester bool       `json:"requires_semester" gorm:"not null;default:false"`
	IsActive         bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}
