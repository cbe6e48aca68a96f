package service

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// defaultHeader 学校模板的表头
var defaultHeader = []string{"STT", "Tên_HP", "Mã_lớp", "Tuần", "Thứ", "Thời_gian", "Phòng", "Ghi_chú"}

// buildTimetableXLSX 生成带两行标题横幅的课表文件
func buildTimetableXLSX(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	set := func(col, row int, v string) {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatalf("坐标转换失败: %v", err)
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			t.Fatalf("写入单元格失败: %v", err)
		}
	}
	set(1, 1, "TRƯỜNG ĐẠI HỌC")
	set(1, 2, "THỜI KHÓA BIỂU HỌC KỲ I")
	for i, h := range header {
		set(i+1, 3, h)
	}
	for r, row := range rows {
		for c, v := range row {
			set(c+1, r+4, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成 xlsx 失败: %v", err)
	}
	return buf.Bytes()
}

// readSheet 读取导出文件中的指定工作表
func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("读取工作表 %s 失败: %v", sheet, err)
	}
	return rows
}

func bytesReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
