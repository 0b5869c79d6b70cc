package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BackupTables 参与导入导出的表，关联表没有自增主键
var BackupTables = []string{
	"users",
	"training_groups",
	"user_groups",
	"categories",
	"certificate_types",
	"courses",
	"course_groups",
	"assigned_courses",
	"videos",
	"pdfs",
	"progress",
	"pdf_progress",
	"test_results",
	"certificates",
	"announcements",
	"password_resets",
}

var joinTables = map[string]bool{
	"user_groups":      true,
	"course_groups":    true,
	"assigned_courses": true,
}

func IsBackupTable(name string) bool {
	for _, t := range BackupTables {
		if t == name {
			return true
		}
	}
	return false
}

type BackupRepository struct {
	DB *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{DB: db}
}

// Export 读取全部白名单表，表名 -> 行
func (r *BackupRepository) Export() (map[string][]map[string]interface{}, error) {
	data := make(map[string][]map[string]interface{}, len(BackupTables))
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range BackupTables {
			rows := []map[string]interface{}{}
			if err := tx.Table(table).Find(&rows).Error; err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			data[table] = rows
		}
		return nil
	})
	return data, err
}

// Replace 在一个事务内清空并重新写入给定表，任何一步失败整体回滚
func (r *BackupRepository) Replace(data map[string][]map[string]interface{}) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range BackupTables {
			rows, ok := data[table]
			if !ok {
				continue
			}
			if err := tx.Exec("DELETE FROM ?", clause.Table{Name: table}).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			if len(rows) == 0 {
				continue
			}
			if err := tx.Table(table).CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("import %s: %w", table, err)
			}
			if err := resetSequence(tx, table); err != nil {
				return fmt.Errorf("reset sequence %s: %w", table, err)
			}
		}
		return nil
	})
}

// resetSequence 显式写入主键后 postgres 需要同步序列
func resetSequence(tx *gorm.DB, table string) error {
	if tx.Dialector.Name() != "postgres" || joinTables[table] {
		return nil
	}
	return tx.Exec(
		"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 0) + 1, false)",
		table, clause.Table{Name: table},
	).Error
}

func (r *BackupRepository) Counts() (map[string]int64, error) {
	counts := make(map[string]int64, len(BackupTables))
	for _, table := range BackupTables {
		var n int64
		if err := r.DB.Table(table).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
