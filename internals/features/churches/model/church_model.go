package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Church struct {
	ChurchID uuid.UUID `gorm:"column:church_id;type:uuid;primaryKey" json:"church_id"`

	ChurchName  string `gorm:"column:church_name;type:varchar(120);not null" json:"church_name"`
	ChurchCity  string `gorm:"column:church_city;type:varchar(80)" json:"church_city"`
	ChurchPhone string `gorm:"column:church_phone;type:varchar(30)" json:"church_phone"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Church) TableName() string {
	return "churches"
}

// ChurchRepresentative is the contact person a donor can be attributed to.
type ChurchRepresentative struct {
	RepresentativeID uuid.UUID `gorm:"column:representative_id;type:uuid;primaryKey" json:"representative_id"`

	RepresentativeChurchID uuid.UUID `gorm:"column:representative_church_id;type:uuid;not null" json:"representative_church_id"`
	RepresentativeName     string    `gorm:"column:representative_name;type:varchar(100);not null" json:"representative_name"`
	RepresentativePhone    string    `gorm:"column:representative_phone;type:varchar(30)" json:"representative_phone"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ChurchRepresentative) TableName() string {
	return "church_representatives"
}

func (c *Church) BeforeCreate(tx *gorm.DB) error {
	if c.ChurchID == uuid.Nil {
		c.ChurchID = uuid.New()
	}
	return nil
}

func (r *ChurchRepresentative) BeforeCreate(tx *gorm.DB) error {
	if r.RepresentativeID == uuid.Nil {
		r.RepresentativeID = uuid.New()
	}
	return nil
}
