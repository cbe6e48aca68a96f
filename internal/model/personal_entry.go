package model

import "time"

// PersonalEntry 用户自行添加的个人安排（不属于学校课表）
type PersonalEntry struct {
	ID        string    `json:"id"`
	Week      int       `json:"week"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// EntriesForWeek 过滤出指定周的个人安排，保持添加顺序
func EntriesForWeek(entries []PersonalEntry, week int) []PersonalEntry {
	out := make([]PersonalEntry, 0, len(entries))
	for _, e := range entries {
		if e.Week == week {
			out = append(out, e)
		}
	}
	return out
}
