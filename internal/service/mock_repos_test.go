package service

import (
	"context"
	"errors"
	"sort"

	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ── Mock ReminderLogRepository ──

type mockReminderLogRepo struct {
	logs      []model.ReminderLog
	createErr error
}

func (m *mockReminderLogRepo) Create(_ context.Context, log *model.ReminderLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	log.ReminderLogID = "log-" + log.State
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockReminderLogRepo) ListBySession(_ context.Context, sessionID string, offset, limit int) ([]model.ReminderLog, int64, error) {
	var matched []model.ReminderLog
	for _, l := range m.logs {
		if l.SessionID == sessionID {
			matched = append(matched, l)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.ReminderLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

var errMockDB = errors.New("mock db error")

// newTestRepository 内存会话存储 + mock 发送记录
func newTestRepository() (*repository.Repository, *mockReminderLogRepo) {
	logs := &mockReminderLogRepo{}
	return &repository.Repository{
		Session:     repository.NewMemorySessionStore(),
		ReminderLog: logs,
	}, logs
}
