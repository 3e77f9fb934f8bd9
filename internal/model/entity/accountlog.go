package entity

import (
	"time"

	"gorm.io/datatypes"
)

type AccountLog struct {
	Id int64 `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	// 可以为0，验证失败时也记录
	AccountId int64  `gorm:"column:account_id;index" json:"account_id"`
	ClientIP  string `gorm:"column:client_ip;size:64" json:"client_ip"`
	Business  string `gorm:"column:business;size:32" json:"business"`
	Operation string `gorm:"column:operation;size:32" json:"operation"`
	// 请求相关的附加信息，如requestId、User-Agent
	Extras    datatypes.JSON `gorm:"column:extras" json:"extras"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (AccountLog) TableName() string {
	return "account_log"
}
