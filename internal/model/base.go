package model

import "time"

// BaseModel 公共字段。培训数据均为物理删除，级联关系由仓储层事务维护
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
