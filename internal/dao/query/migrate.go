package query

import (
	"inviteflow/internal/model/entity"

	"gorm.io/gorm"
)

// AutoMigrate 创建或更新账户相关的表结构
func AutoMigrate(ds *gorm.DB) error {
	if err := ds.AutoMigrate(&entity.Account{}, &entity.AccountLog{}); err != nil {
		return err
	}
	if stmt := inviteCodeCollation(ds.Dialector.Name()); stmt != "" {
		return ds.Exec(stmt).Error
	}
	return nil
}

// inviteCodeCollation 邀请码区分大小写
// mysql默认的utf8mb4_0900_ai_ci不区分大小写，唯一索引和查询都会把aB3与AB3当成同一个码
// sqlite和postgres默认就是二进制比较
func inviteCodeCollation(dialect string) string {
	if dialect != "mysql" {
		return ""
	}
	return "ALTER TABLE `account` MODIFY `invite_code` varchar(16) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL"
}
