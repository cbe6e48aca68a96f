//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=schedule password=schedule_password dbname=schedule_maker_test sslmode=disable TimeZone=Asia/Ho_Chi_Minh"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&model.ReminderLog{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// ═══════════════════════════════════════════════════════════
// Test: ReminderLog
// ═══════════════════════════════════════════════════════════

func TestReminderLog_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB, nil)
	sessionID := uuid.NewString()
	defer testDB.Where("session_id = ?", sessionID).Delete(&model.ReminderLog{})

	for i, state := range []string{model.MailStateFailedNoCredentials, model.MailStateSent} {
		log := &model.ReminderLog{
			SessionID: sessionID,
			Recipient: "sv@example.edu.vn",
			Subject:   fmt.Sprintf("Nhắc nhở lịch tuần %d", i+1),
			Week:      i + 1,
			State:     state,
			Success:   state == model.MailStateSent,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := repo.ReminderLog.Create(ctx, log); err != nil {
			t.Fatalf("Create 失败: %v", err)
		}
		if log.ReminderLogID == "" {
			t.Error("Create 后应回填主键")
		}
	}

	logs, total, err := repo.ReminderLog.ListBySession(ctx, sessionID, 0, 10)
	if err != nil {
		t.Fatalf("ListBySession 失败: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("期望 2 条记录，实际 total=%d len=%d", total, len(logs))
	}
	if logs[0].State != model.MailStateSent {
		t.Errorf("应按时间倒序，首条期望 sent，实际 %s", logs[0].State)
	}

	other, _, _ := repo.ReminderLog.ListBySession(ctx, uuid.NewString(), 0, 10)
	if len(other) != 0 {
		t.Errorf("其他会话不应看到记录，实际 %d", len(other))
	}
}
