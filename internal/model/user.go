package model

import "time"

// User 员工表 — 对应 users
// 删除为软删除：仅将 is_active 置为 false
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex"          json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	Email        string    `gorm:"type:varchar(254);not null"                     json:"email"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:''"          json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null;default:''"          json:"last_name"`
	EmployeeID   string    `gorm:"type:varchar(50);not null;uniqueIndex"           json:"employee_id"`
	Department   string    `gorm:"type:varchar(20);not null"                      json:"department"`
	Mobile       string    `gorm:"type:varchar(15);not null"                      json:"mobile"`
	ManagerID    *string   `gorm:"type:uuid"                                      json:"manager_id"`
	IsActive     bool      `gorm:"not null;default:true"                          json:"is_active"`
	DateJoined   time.Time `gorm:"autoCreateTime;not null"                        json:"date_joined"`
	LastModified time.Time `gorm:"autoUpdateTime;not null"                        json:"last_modified"`

	// 关联
	Manager *User `gorm:"foreignKey:ManagerID;references:ID" json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// MobileLength 手机号固定位数
const MobileLength = 10

// IsValidMobile 恰好 10 位 ASCII 数字
func IsValidMobile(mobile string) bool {
	if len(mobile) != MobileLength {
		return false
	}
	for i := 0; i < len(mobile); i++ {
		if mobile[i] < '0' || mobile[i] > '9' {
			return false
		}
	}
	return true
}
