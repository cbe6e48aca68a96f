package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ── 课表 / 选课模块业务错误 ──

var (
	ErrTimetableNotLoaded = errors.New("尚未上传课表")
	ErrSectionUnknown     = errors.New("课表中不存在该教学班")
)

// TimetableService 课表上传与教学班选择
type TimetableService interface {
	Upload(ctx context.Context, sessionID string, r io.Reader) (*dto.TimetableUploadResponse, error)
	Sections(ctx context.Context, sessionID string) (*dto.SectionsResponse, error)
	UpdateSelection(ctx context.Context, sessionID string, req *dto.UpdateSelectionRequest) (*dto.SectionsResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	loader TimetableLoader
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, loader TimetableLoader, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, loader: loader, logger: logger}
}

// ────────────────────── Upload ──────────────────────

// Upload 解析上传的课表并替换会话中的课表
// 已选教学班中不再存在的会被移除；换了文件时清空勾选状态
func (s *timetableService) Upload(ctx context.Context, sessionID string, r io.Reader) (*dto.TimetableUploadResponse, error) {
	tt, err := s.loader.Load(ctx, r)
	if err != nil {
		s.logger.Warn("课表解析失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	var dropped []string
	sess, err := s.repo.Session.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.Timetable == nil || sess.Timetable.Digest != tt.Digest {
			sess.Done = map[string]bool{}
		}
		sess.Timetable = tt

		kept := make([]string, 0, len(sess.Selected))
		dropped = dropped[:0]
		for _, label := range sess.Selected {
			if tt.HasSection(label) {
				kept = append(kept, label)
			} else {
				dropped = append(dropped, label)
			}
		}
		sess.Selected = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("课表已加载",
		zap.String("session_id", sessionID),
		zap.String("sheet", tt.SheetName),
		zap.Int("rows", len(tt.Rows)),
		zap.Int("dropped", len(dropped)),
	)

	if dropped == nil {
		dropped = []string{}
	}
	return &dto.TimetableUploadResponse{
		SheetName: tt.SheetName,
		RowCount:  len(tt.Rows),
		Sections:  tt.Sections(),
		Selected:  sess.Selected,
		Dropped:   dropped,
	}, nil
}

// ────────────────────── Sections ──────────────────────

func (s *timetableService) Sections(ctx context.Context, sessionID string) (*dto.SectionsResponse, error) {
	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Timetable == nil {
		return nil, ErrTimetableNotLoaded
	}
	return &dto.SectionsResponse{Sections: sess.Timetable.Sections(), Selected: sess.Selected}, nil
}

// ────────────────────── UpdateSelection ──────────────────────

// UpdateSelection 整体替换已选教学班（重复项只保留第一次出现）
func (s *timetableService) UpdateSelection(ctx context.Context, sessionID string, req *dto.UpdateSelectionRequest) (*dto.SectionsResponse, error) {
	sess, err := s.repo.Session.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.Timetable == nil {
			return ErrTimetableNotLoaded
		}

		var unknown []string
		seen := make(map[string]bool, len(req.Sections))
		selected := make([]string, 0, len(req.Sections))
		for _, label := range req.Sections {
			if seen[label] {
				continue
			}
			seen[label] = true
			if !sess.Timetable.HasSection(label) {
				unknown = append(unknown, label)
				continue
			}
			selected = append(selected, label)
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: %s", ErrSectionUnknown, strings.Join(unknown, "; "))
		}

		sess.Selected = selected
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SectionsResponse{Sections: sess.Timetable.Sections(), Selected: sess.Selected}, nil
}
