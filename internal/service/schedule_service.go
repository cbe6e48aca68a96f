package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ── 周视图 / 导出模块业务错误 ──

var (
	ErrChecklistKeyUnknown = errors.New("该行不在本周视图中")
	ErrExportColumnUnknown = errors.New("未知的导出列")
)

// DefaultExportColumns 未指定列时导出的课表列
var DefaultExportColumns = append(append([]string{}, model.RequiredColumns...), model.ColumnNote)

// ExportFile 待下载的文件
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScheduleService 周视图、勾选与导出
type ScheduleService interface {
	WeeklyView(ctx context.Context, sessionID string, week int) (*dto.WeeklyViewResponse, error)
	SetChecklist(ctx context.Context, sessionID string, req *dto.UpdateChecklistRequest) (*dto.WeeklyViewResponse, error)
	ExportXLSX(ctx context.Context, sessionID string, week int, columns []string) (*ExportFile, error)
	ExportICS(ctx context.Context, sessionID string, week int) (*ExportFile, error)
}

type scheduleService struct {
	repo     *repository.Repository
	writer   ExportWriter
	calendar *CalendarExporter
	view     config.ViewConfig
	logger   *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(
	repo *repository.Repository,
	writer ExportWriter,
	calendar *CalendarExporter,
	view config.ViewConfig,
	logger *zap.Logger,
) ScheduleService {
	return &scheduleService{
		repo:     repo,
		writer:   writer,
		calendar: calendar,
		view:     view,
		logger:   logger,
	}
}

// weekRows 会话在指定周的视图行；未上传课表时为空
func weekRows(sess *model.Session, week int, dayOrder string) []model.WeeklyViewRow {
	if sess.Timetable == nil {
		return []model.WeeklyViewRow{}
	}
	rows := BuildWeeklyView(sess.Timetable.Rows, sess.Selected, week, dayOrder)
	return WeeklyViewRows(rows, week, sess.Done)
}

// ────────────────────── WeeklyView ──────────────────────

func (s *scheduleService) WeeklyView(ctx context.Context, sessionID string, week int) (*dto.WeeklyViewResponse, error) {
	if err := checkWeek(week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toWeeklyViewResponse(sess, week), nil
}

// ────────────────────── SetChecklist ──────────────────────

func (s *scheduleService) SetChecklist(ctx context.Context, sessionID string, req *dto.UpdateChecklistRequest) (*dto.WeeklyViewResponse, error) {
	if err := checkWeek(req.Week, s.view.MaxWeek); err != nil {
		return nil, err
	}

	sess, err := s.repo.Session.Update(ctx, sessionID, func(sess *model.Session) error {
		found := false
		for _, r := range weekRows(sess, req.Week, s.view.DayOrder) {
			if r.Key == req.Key {
				found = true
				break
			}
		}
		if !found {
			return ErrChecklistKeyUnknown
		}
		if req.Done {
			sess.Done[req.Key] = true
		} else {
			delete(sess.Done, req.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toWeeklyViewResponse(sess, req.Week), nil
}

// ────────────────────── ExportXLSX ──────────────────────

// ExportXLSX 导出指定周：学校课表（周视图）+ 该周的个人安排
func (s *scheduleService) ExportXLSX(ctx context.Context, sessionID string, week int, columns []string) (*ExportFile, error) {
	if err := checkWeek(week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = DefaultExportColumns
	}
	for _, col := range columns {
		if _, ok := (&model.TimetableRow{}).Value(col); !ok {
			return nil, fmt.Errorf("%w: %s", ErrExportColumnUnknown, col)
		}
	}

	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	views := weekRows(sess, week, s.view.DayOrder)
	rows := make([]model.TimetableRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, v.TimetableRow)
	}

	buf, err := s.writer.Write(ctx, SchoolSheetTable(rows, columns), model.EntriesForWeek(sess.Personal, week))
	if err != nil {
		s.logger.Error("导出 Excel 失败", zap.String("session_id", sessionID), zap.Int("week", week), zap.Error(err))
		return nil, err
	}

	return &ExportFile{
		Filename:    ExportFilename(week),
		ContentType: XLSXContentType,
		Data:        buf.Bytes(),
	}, nil
}

// ────────────────────── ExportICS ──────────────────────

func (s *scheduleService) ExportICS(ctx context.Context, sessionID string, week int) (*ExportFile, error) {
	if err := checkWeek(week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	views := weekRows(sess, week, s.view.DayOrder)
	rows := make([]model.TimetableRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, v.TimetableRow)
	}

	out, err := s.calendar.Export(sessionID, week, rows, model.EntriesForWeek(sess.Personal, week))
	if err != nil {
		return nil, err
	}
	if out.Skipped > 0 {
		s.logger.Info("部分日程无法识别星期，已跳过",
			zap.String("session_id", sessionID),
			zap.Int("week", week),
			zap.Int("skipped", out.Skipped),
		)
	}

	return &ExportFile{
		Filename:    out.Filename,
		ContentType: CalendarContentType,
		Data:        []byte(out.Content),
	}, nil
}

// ParseColumns 解析逗号分隔的列名参数
func ParseColumns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ── 内部方法 ──

func (s *scheduleService) toWeeklyViewResponse(sess *model.Session, week int) *dto.WeeklyViewResponse {
	views := weekRows(sess, week, s.view.DayOrder)
	rows := make([]dto.WeeklyViewRowResponse, 0, len(views))
	for _, v := range views {
		rows = append(rows, dto.WeeklyViewRowResponse{
			Key:         v.Key,
			Week:        v.Week,
			Weekday:     v.Weekday,
			TimeSlot:    v.TimeSlot,
			CourseName:  v.CourseName,
			Room:        v.Room,
			SectionCode: v.SectionCode,
			Note:        v.Note,
			Label:       v.Label,
			Done:        v.Done,
		})
	}

	return &dto.WeeklyViewResponse{
		Week:       week,
		Rows:       rows,
		Unfinished: len(Unfinished(views)),
		Personal:   toPersonalEntryResponses(model.EntriesForWeek(sess.Personal, week)),
	}
}

func toPersonalEntryResponses(entries []model.PersonalEntry) []dto.PersonalEntryResponse {
	out := make([]dto.PersonalEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PersonalEntryResponse{
			ID:        e.ID,
			Week:      e.Week,
			Day:       e.Day,
			Time:      e.Time,
			Content:   e.Content,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
