package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"schedule-maker/internal/model"
)

// ── 课表加载模块业务错误 ──

var (
	ErrTimetableLoadFailed     = errors.New("无法读取课表文件")
	ErrTimetableMissingColumns = errors.New("课表文件缺少必需的列")
	ErrTimetableTooLarge       = errors.New("课表文件过大")
)

const (
	// timetableHeaderRow 表头所在行（从 0 开始）：前两行是学校模板的标题横幅
	timetableHeaderRow = 2
	// timetableCacheSize 解析结果缓存条数
	timetableCacheSize = 16
)

// TimetableLoader 课表加载接口
//
// 设计说明：
//   - 只读取第一个工作表，第 3 行为表头，列名按 model.RequiredColumns 校验
//   - "无法读取" 与 "缺少列" 返回不同的错误，由调用方决定如何展示
//   - 同一文件（按内容 sha256 判断）只解析一次
type TimetableLoader interface {
	Load(ctx context.Context, r io.Reader) (*model.Timetable, error)
}

type timetableLoader struct {
	maxBytes int64
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]*model.Timetable
	order []string
}

// NewTimetableLoader 创建 TimetableLoader 实例
// maxBytes<=0 表示不限制文件大小
func NewTimetableLoader(maxBytes int64, logger *zap.Logger) TimetableLoader {
	return &timetableLoader{
		maxBytes: maxBytes,
		logger:   logger,
		cache:    make(map[string]*model.Timetable),
	}
}

func (l *timetableLoader) Load(ctx context.Context, r io.Reader) (*model.Timetable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.readAll(r)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if cached := l.lookup(digest); cached != nil {
		l.logger.Debug("课表命中缓存", zap.String("digest", digest))
		return cached, nil
	}

	tt, err := parseTimetable(data)
	if err != nil {
		l.logger.Warn("课表解析失败", zap.String("digest", digest), zap.Error(err))
		return nil, err
	}
	tt.Digest = digest

	l.store(digest, tt)
	l.logger.Info("课表解析完成",
		zap.String("digest", digest),
		zap.String("sheet", tt.SheetName),
		zap.Int("rows", len(tt.Rows)),
	)
	return tt, nil
}

func (l *timetableLoader) readAll(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTimetableLoadFailed, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimetableLoadFailed, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrTimetableTooLarge
	}
	return data, nil
}

func (l *timetableLoader) lookup(digest string) *model.Timetable {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache[digest]
}

func (l *timetableLoader) store(digest string, tt *model.Timetable) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[digest]; ok {
		return
	}
	if len(l.order) >= timetableCacheSize {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.cache, oldest)
	}
	l.cache[digest] = tt
	l.order = append(l.order, digest)
}

// parseTimetable 解析 xlsx 内容
func parseTimetable(data []byte) (*model.Timetable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimetableLoadFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: 文件中没有工作表", ErrTimetableLoadFailed)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimetableLoadFailed, err)
	}
	if len(rows) <= timetableHeaderRow {
		return nil, fmt.Errorf("%w: 第 %d 行应为表头", ErrTimetableLoadFailed, timetableHeaderRow+1)
	}

	// 表头索引：列名 → 列号（重复列名取第一次出现）
	headIdx := make(map[string]int)
	for col, name := range rows[timetableHeaderRow] {
		key := normalizeHeader(name)
		if _, dup := headIdx[key]; !dup {
			headIdx[key] = col
		}
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := headIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrTimetableMissingColumns, strings.Join(missing, ", "))
	}

	cellOf := func(row []string, column string) string {
		idx, ok := headIdx[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	tt := &model.Timetable{SheetName: sheet, Rows: make([]model.TimetableRow, 0, len(rows))}
	for _, row := range rows[timetableHeaderRow+1:] {
		if isBlankRow(row) {
			continue
		}
		course := cellOf(row, model.ColumnCourseName)
		section := cellOf(row, model.ColumnSectionCode)
		tt.Rows = append(tt.Rows, model.TimetableRow{
			Index:       len(tt.Rows),
			Week:        cellOf(row, model.ColumnWeek),
			Weekday:     cellOf(row, model.ColumnWeekday),
			TimeSlot:    cellOf(row, model.ColumnTimeSlot),
			CourseName:  course,
			Room:        cellOf(row, model.ColumnRoom),
			SectionCode: section,
			Note:        cellOf(row, model.ColumnNote),
			Label:       model.SectionLabel(course, section),
		})
	}
	return tt, nil
}

// normalizeHeader 表头按 NFC 规范化，兼容以组合字符保存越南语声调的文件
func normalizeHeader(name string) string {
	return norm.NFC.String(name)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
