package model

import (
	"fmt"
	"time"
)

// Session 会话状态：一次使用周期内的全部可变数据
//
// 创建于 POST /sessions，结束于 DELETE /sessions/current 或 TTL 到期。
// 所有修改都经过 SessionStore.Update，同一会话的修改串行执行。
type Session struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Timetable *Timetable      `json:"timetable,omitempty"`
	Selected  []string        `json:"selected"`
	Personal  []PersonalEntry `json:"personal"`
	Done      map[string]bool `json:"done"`
}

// NewSession 创建空会话
func NewSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Selected:  []string{},
		Personal:  []PersonalEntry{},
		Done:      map[string]bool{},
	}
}

// Expired 判断会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ChecklistKey 周视图行的勾选状态键
// 同一课表行在不同周的完成状态互不影响
func ChecklistKey(week, rowIndex int) string {
	return fmt.Sprintf("w%d:r%d", week, rowIndex)
}

// Clone 深拷贝会话的可变部分；课表加载后不可变，共享同一份
func (s *Session) Clone() *Session {
	c := *s
	c.Selected = append([]string{}, s.Selected...)
	c.Personal = append([]PersonalEntry{}, s.Personal...)
	c.Done = make(map[string]bool, len(s.Done))
	for k, v := range s.Done {
		c.Done[k] = v
	}
	return &c
}
