package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/logger"

	"go.uber.org/zap"
)

// ImportSummary 导入后每张表的行数以及被忽略的表
type ImportSummary struct {
	Counts  map[string]int64 `json:"counts"`
	Ignored []string         `json:"ignored"`
}

type BackupService struct {
	Repo *repository.BackupRepository
}

func NewBackupService(repo *repository.BackupRepository) *BackupService {
	return &BackupService{Repo: repo}
}

// Export 导出为 表名 -> 行列表 的 JSON
func (s *BackupService) Export() ([]byte, error) {
	data, err := s.Repo.Export()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return buf.Bytes(), nil
}

// Import 在一个事务中清空所有白名单表并写入备份内容，未知表忽略
func (s *BackupService) Import(r io.Reader) (*ImportSummary, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string][]map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidBackup, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no tables", util.ErrInvalidBackup)
	}

	summary := &ImportSummary{Ignored: []string{}}
	data := make(map[string][]map[string]interface{}, len(repository.BackupTables))
	for _, table := range repository.BackupTables {
		data[table] = []map[string]interface{}{}
	}
	for table, rows := range raw {
		if !repository.IsBackupTable(table) {
			logger.Log.Warn("Ignoring unknown table in backup", zap.String("table", table))
			summary.Ignored = append(summary.Ignored, table)
			continue
		}
		for _, row := range rows {
			normalizeBackupRow(row)
		}
		data[table] = rows
	}

	if err := s.Repo.Replace(data); err != nil {
		return nil, err
	}
	counts, err := s.Repo.Counts()
	if err != nil {
		return nil, err
	}
	summary.Counts = counts
	logger.Log.Info("Database imported", zap.Any("counts", counts), zap.Strings("ignored", summary.Ignored))
	return summary, nil
}

var backupTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func isTimeColumn(name string) bool {
	return strings.HasSuffix(name, "_at") || name == "last_login"
}

// normalizeBackupRow 将 json.Number 转为整数或浮点数，时间列字符串转为 time.Time
func normalizeBackupRow(row map[string]interface{}) {
	for k, v := range row {
		switch val := v.(type) {
		case json.Number:
			if i, err := val.Int64(); err == nil {
				row[k] = i
			} else if f, err := val.Float64(); err == nil {
				row[k] = f
			}
		case string:
			if !isTimeColumn(k) {
				continue
			}
			for _, layout := range backupTimeLayouts {
				if t, err := time.Parse(layout, val); err == nil {
					row[k] = t
					break
				}
			}
		}
	}
}
