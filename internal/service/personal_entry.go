package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedule-maker/internal/model"
)

// ErrPersonalEntryFormat 个人安排文本格式错误（少于 3 个逗号分隔字段）
var ErrPersonalEntryFormat = errors.New("格式应为：星期, 时间, 内容")

// minPersonalEntryFields 星期、时间、内容
const minPersonalEntryFields = 3

// ParsePersonalEntry 解析 "星期, 时间, 内容" 形式的输入
// 第三个字段起全部视为内容（内容本身可以包含逗号）
func ParsePersonalEntry(text string, week int) (*model.PersonalEntry, error) {
	parts := strings.Split(text, ",")
	if len(parts) < minPersonalEntryFields {
		return nil, ErrPersonalEntryFormat
	}
	return &model.PersonalEntry{
		ID:        uuid.New().String(),
		Week:      week,
		Day:       strings.TrimSpace(parts[0]),
		Time:      strings.TrimSpace(parts[1]),
		Content:   strings.TrimSpace(strings.Join(parts[2:], ",")),
		CreatedAt: time.Now(),
	}, nil
}
