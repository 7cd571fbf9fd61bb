package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Expense 费用明细表 — 对应 expenses
// 费用归属于出差，UserID 继承自出差所有者，客户端不可设置
type Expense struct {
	ID          string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TripID      string            `gorm:"type:uuid;not null;index"                       json:"trip_id"`
	UserID      string            `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Category    string            `gorm:"type:varchar(20);not null"                      json:"category"`
	Description string            `gorm:"type:text;not null;default:''"                  json:"description"`
	Amount      decimal.Decimal   `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	Details     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"               json:"details"`
	Date        Date              `gorm:"type:date;not null"                             json:"date"`
	Comments    string            `gorm:"type:text;not null;default:''"                  json:"comments"`
	Receipt     *string           `gorm:"type:varchar(255)"                              json:"receipt"`
	Verified    bool              `gorm:"not null;default:false"                         json:"verified"`
	BaseModel

	// 关联
	Trip *Trip `gorm:"foreignKey:TripID;references:ID" json:"-"`
}

// TableName 指定表名
func (Expense) TableName() string { return "expenses" }
