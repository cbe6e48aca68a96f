package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-maker/internal/model"
)

// ReminderLogRepository 提醒邮件发送记录数据访问接口
type ReminderLogRepository interface {
	Create(ctx context.Context, log *model.ReminderLog) error
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.ReminderLog, int64, error)
}

type reminderLogRepo struct {
	db *gorm.DB
}

// NewReminderLogRepo 创建 ReminderLogRepository 实例
func NewReminderLogRepo(db *gorm.DB) ReminderLogRepository {
	return &reminderLogRepo{db: db}
}

func (r *reminderLogRepo) Create(ctx context.Context, log *model.ReminderLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *reminderLogRepo) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.ReminderLog, int64, error) {
	var (
		logs  []model.ReminderLog
		total int64
	)
	db := r.db.WithContext(ctx).
		Model(&model.ReminderLog{}).
		Where("session_id = ?", sessionID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}

// ── 未启用数据库时 ──

type noopReminderLogRepo struct{}

// NewNoopReminderLogRepo 未启用数据库时使用：写入丢弃，查询为空
func NewNoopReminderLogRepo() ReminderLogRepository { return noopReminderLogRepo{} }

func (noopReminderLogRepo) Create(context.Context, *model.ReminderLog) error { return nil }

func (noopReminderLogRepo) ListBySession(context.Context, string, int, int) ([]model.ReminderLog, int64, error) {
	return []model.ReminderLog{}, 0, nil
}
