package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL TEXT[] 自定义类型 ──

// TextArray 对应 PostgreSQL TEXT[] 类型，实现 GORM Scanner/Valuer 接口。
// 元素按数组字面量规则转义（双引号包裹，反斜杠转义 \ 与 "），
// 逗号、引号、大括号等任意文本都能无损往返。
type TextArray []string

// Scan 将 PostgreSQL 返回的数组字面量解析为 []string。
// 兼容带引号（含反斜杠转义）与不带引号两种元素形式，裸 NULL 读为空串。
func (a *TextArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("TextArray.Scan: unsupported type %T", src)
	}
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("TextArray.Scan: malformed array literal %q", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		*a = TextArray{}
		return nil
	}

	arr := make(TextArray, 0, 8)
	var elem strings.Builder
	inQuotes := false
	quoted := false
	flush := func() {
		v := elem.String()
		if !quoted && v == "NULL" {
			v = ""
		}
		arr = append(arr, v)
		elem.Reset()
		quoted = false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuotes:
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				elem.WriteByte(s[i])
			case c == '"':
				inQuotes = false
			default:
				elem.WriteByte(c)
			}
		case c == '"':
			inQuotes = true
			quoted = true
		case c == ',':
			flush()
		default:
			elem.WriteByte(c)
		}
	}
	flush()
	*a = arr
	return nil
}

// Value 将 []string 序列化为 PostgreSQL 数组字面量。
// 所有元素统一加引号并转义，空串与特殊字符原样保留。
func (a TextArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for j := 0; j < len(s); j++ {
			if s[j] == '\\' || s[j] == '"' {
				b.WriteByte('\\')
			}
			b.WriteByte(s[j])
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
