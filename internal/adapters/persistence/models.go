package persistence

import (
	"time"
)

// MovementModel represents the stock_movements table
type MovementModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Warehouse string    `gorm:"column:warehouse;not null;index"`
	Kind      string    `gorm:"column:kind;not null"`
	Template  string    `gorm:"column:template;not null"`
	Attribute string    `gorm:"column:attribute;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

func (MovementModel) TableName() string {
	return "stock_movements"
}
