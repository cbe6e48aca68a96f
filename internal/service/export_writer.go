package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schedule-maker/internal/model"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// 导出文件约定
const (
	SheetSchoolSchedule   = "Lịch Học Trường"
	SheetPersonalSchedule = "Lịch Cá Nhân"
	XLSXContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PersonalSheetColumns 个人安排工作表的列
var PersonalSheetColumns = []string{"day", "time", "content"}

// SheetTable 写入工作表的二维表：列名 + 行
// 列的选择与顺序完全由调用方决定，写入时原样输出
type SheetTable struct {
	Columns []string
	Rows    [][]string
}

// Empty 没有列或没有行都视为空表
func (t SheetTable) Empty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}

// SchoolSheetTable 将周视图行按列名投影为 SheetTable
// 未知列名输出空字符串
func SchoolSheetTable(rows []model.TimetableRow, columns []string) SheetTable {
	table := SheetTable{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for i := range rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j], _ = rows[i].Value(col)
		}
		table.Rows = append(table.Rows, values)
	}
	return table
}

// ExportFilename 导出文件名
func ExportFilename(week int) string {
	return fmt.Sprintf("Lich_Ca_Nhan_Tuan_%d.xlsx", week)
}

// ExportWriter 导出接口
//
// 设计说明：
//   - 输出两个工作表："Lịch Học Trường"（学校课表）与 "Lịch Cá Nhân"（个人安排）
//   - 任一为空则省略对应工作表；两者都为空时保留一个空白的默认工作表
//   - 以 bytes.Buffer 返回，由 Handler 层设置下载响应头
type ExportWriter interface {
	Write(ctx context.Context, school SheetTable, personal []model.PersonalEntry) (*bytes.Buffer, error)
}

type exportWriter struct {
	logger *zap.Logger
}

// NewExportWriter 创建 ExportWriter 实例
func NewExportWriter(logger *zap.Logger) ExportWriter {
	return &exportWriter{logger: logger}
}

func (w *exportWriter) Write(ctx context.Context, school SheetTable, personal []model.PersonalEntry) (*bytes.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	created := 0

	if !school.Empty() {
		if err := writeSheet(f, SheetSchoolSchedule, school); err != nil {
			w.logger.Error("写入学校课表工作表失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		created++
	}

	if len(personal) > 0 {
		table := SheetTable{Columns: PersonalSheetColumns, Rows: make([][]string, 0, len(personal))}
		for _, p := range personal {
			table.Rows = append(table.Rows, []string{p.Day, p.Time, p.Content})
		}
		if err := writeSheet(f, SheetPersonalSchedule, table); err != nil {
			w.logger.Error("写入个人安排工作表失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		created++
	}

	if created > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			w.logger.Error("删除默认工作表失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		f.SetActiveSheet(0)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		w.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// writeSheet 新建工作表并写入表头与数据
func writeSheet(f *excelize.File, sheet string, table SheetTable) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	for i, col := range table.Columns {
		if err := f.SetCellStr(sheet, cell(colName(i), 1), col); err != nil {
			return err
		}
	}
	last := cell(colName(len(table.Columns)-1), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range table.Rows {
		for i, v := range row {
			if err := f.SetCellStr(sheet, cell(colName(i), r+2), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
