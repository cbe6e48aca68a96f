package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
	pkgerrors "schedule-maker/pkg/errors"
	"schedule-maker/pkg/jwt"
)

// ── 测试辅助 ──

var testViewConfig = config.ViewConfig{DayOrder: config.DayOrderLexical, MaxWeek: 50}

// sampleRows 三行课表：Giải tích 两次课，Vật lý 只在第 2、4 周
var sampleRows = [][]string{
	{"1", "Giải tích", "IT01", "1-10", "Thứ 3", "7:00-9:00", "A101", ""},
	{"2", "Vật lý", "PH02", "2,4", "Thứ 2", "9:30-11:00", "B202", "Lab"},
	{"3", "Giải tích", "IT01", "1-10", "Thứ 5", "13:00-15:00", "A102", ""},
}

const (
	labelCalculus = "Giải tích (IT01)"
	labelPhysics  = "Vật lý (PH02)"
)

type testServices struct {
	repo      *repository.Repository
	logs      *mockReminderLogRepo
	session   SessionService
	timetable TimetableService
	schedule  ScheduleService
	personal  PersonalService
}

func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	repo, logs := newTestRepository()
	logger := zap.NewNop()
	jwtMgr := jwt.NewManager(&config.SessionConfig{Secret: "test-secret-key-for-unit-testing-2026", TTL: time.Hour})
	calendar, err := NewCalendarExporter(&config.CalendarConfig{SemesterStart: "2026-09-07", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("NewCalendarExporter 失败: %v", err)
	}
	return &testServices{
		repo:      repo,
		logs:      logs,
		session:   NewSessionService(repo, jwtMgr, logger),
		timetable: NewTimetableService(repo, NewTimetableLoader(0, logger), logger),
		schedule:  NewScheduleService(repo, NewExportWriter(logger), calendar, testViewConfig, logger),
		personal:  NewPersonalService(repo, testViewConfig, logger),
	}
}

// newSessionWithTimetable 创建会话、上传 sampleRows 并选中给定教学班
func (ts *testServices) newSessionWithTimetable(t *testing.T, selected ...string) string {
	t.Helper()
	ctx := context.Background()
	tok, err := ts.session.Create(ctx)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	data := buildTimetableXLSX(t, defaultHeader, sampleRows)
	if _, err := ts.timetable.Upload(ctx, tok.SessionID, bytesReader(data)); err != nil {
		t.Fatalf("Upload 失败: %v", err)
	}
	if len(selected) > 0 {
		if _, err := ts.timetable.UpdateSelection(ctx, tok.SessionID, &dto.UpdateSelectionRequest{Sections: selected}); err != nil {
			t.Fatalf("UpdateSelection 失败: %v", err)
		}
	}
	return tok.SessionID
}

// ── Session ──

func TestSessionService_Lifecycle(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	tok, err := ts.session.Create(ctx)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if tok.AccessToken == "" || tok.SessionID == "" {
		t.Fatal("应返回会话 ID 与令牌")
	}
	if tok.ExpiresIn != 3600 {
		t.Errorf("期望 ExpiresIn=3600，实际=%d", tok.ExpiresIn)
	}

	sum, err := ts.session.Summary(ctx, tok.SessionID)
	if err != nil {
		t.Fatalf("Summary 失败: %v", err)
	}
	if sum.HasTimetable || sum.SectionCount != 0 || len(sum.Selected) != 0 {
		t.Errorf("新会话应为空: %+v", sum)
	}

	if err := ts.session.End(ctx, tok.SessionID); err != nil {
		t.Fatalf("End 失败: %v", err)
	}
	if _, err := ts.session.Summary(ctx, tok.SessionID); !errors.Is(err, pkgerrors.ErrSessionNotFound) {
		t.Errorf("结束后期望 ErrSessionNotFound，实际 %v", err)
	}
}

// ── Timetable ──

func TestTimetableService_UploadAndSections(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t)

	res, err := ts.timetable.Sections(context.Background(), id)
	if err != nil {
		t.Fatalf("Sections 失败: %v", err)
	}
	if len(res.Sections) != 2 || res.Sections[0] != labelCalculus || res.Sections[1] != labelPhysics {
		t.Errorf("教学班应按首次出现排序去重，实际 %v", res.Sections)
	}
}

func TestTimetableService_SectionsWithoutUpload(t *testing.T) {
	ts := setupTestServices(t)
	tok, _ := ts.session.Create(context.Background())

	if _, err := ts.timetable.Sections(context.Background(), tok.SessionID); !errors.Is(err, ErrTimetableNotLoaded) {
		t.Errorf("期望 ErrTimetableNotLoaded，实际 %v", err)
	}
}

func TestTimetableService_UploadBadFileKeepsState(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	id := ts.newSessionWithTimetable(t, labelCalculus)

	_, err := ts.timetable.Upload(ctx, id, strings.NewReader("not a workbook"))
	if !errors.Is(err, ErrTimetableLoadFailed) {
		t.Fatalf("期望 ErrTimetableLoadFailed，实际 %v", err)
	}

	res, err := ts.timetable.Sections(ctx, id)
	if err != nil {
		t.Fatalf("Sections 失败: %v", err)
	}
	if len(res.Selected) != 1 || res.Selected[0] != labelCalculus {
		t.Errorf("上传失败不应影响已有状态，实际 %v", res.Selected)
	}
}

func TestTimetableService_UploadPrunesSelection(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	id := ts.newSessionWithTimetable(t, labelCalculus, labelPhysics)

	onlyPhysics := buildTimetableXLSX(t, defaultHeader, sampleRows[1:2])
	res, err := ts.timetable.Upload(ctx, id, bytesReader(onlyPhysics))
	if err != nil {
		t.Fatalf("Upload 失败: %v", err)
	}
	if len(res.Selected) != 1 || res.Selected[0] != labelPhysics {
		t.Errorf("期望只保留 %s，实际 %v", labelPhysics, res.Selected)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != labelCalculus {
		t.Errorf("期望移除 %s，实际 %v", labelCalculus, res.Dropped)
	}
}

func TestTimetableService_UpdateSelection_Unknown(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	id := ts.newSessionWithTimetable(t, labelCalculus)

	_, err := ts.timetable.UpdateSelection(ctx, id, &dto.UpdateSelectionRequest{Sections: []string{labelPhysics, "Hóa học (CH09)"}})
	if !errors.Is(err, ErrSectionUnknown) {
		t.Fatalf("期望 ErrSectionUnknown，实际 %v", err)
	}
	if !strings.Contains(err.Error(), "Hóa học (CH09)") {
		t.Errorf("错误信息应包含未知标签: %v", err)
	}

	res, _ := ts.timetable.Sections(ctx, id)
	if len(res.Selected) != 1 || res.Selected[0] != labelCalculus {
		t.Errorf("校验失败不应修改选择，实际 %v", res.Selected)
	}
}

func TestTimetableService_UpdateSelection_Dedup(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t)

	res, err := ts.timetable.UpdateSelection(context.Background(), id,
		&dto.UpdateSelectionRequest{Sections: []string{labelPhysics, labelCalculus, labelPhysics}})
	if err != nil {
		t.Fatalf("UpdateSelection 失败: %v", err)
	}
	if len(res.Selected) != 2 || res.Selected[0] != labelPhysics {
		t.Errorf("期望去重并保持顺序，实际 %v", res.Selected)
	}
}

// ── Schedule ──

func TestScheduleService_WeeklyView(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t, labelCalculus, labelPhysics)

	view, err := ts.schedule.WeeklyView(context.Background(), id, 2)
	if err != nil {
		t.Fatalf("WeeklyView 失败: %v", err)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("第 2 周期望 3 行，实际 %d", len(view.Rows))
	}
	// 按 (星期, 时间) 排序：Thứ 2 < Thứ 3 < Thứ 5
	wantKeys := []string{"w2:r1", "w2:r0", "w2:r2"}
	for i, k := range wantKeys {
		if view.Rows[i].Key != k {
			t.Errorf("第 %d 行期望 key=%s，实际 %s", i, k, view.Rows[i].Key)
		}
	}
	if view.Unfinished != 3 {
		t.Errorf("期望 3 行未完成，实际 %d", view.Unfinished)
	}

	week3, _ := ts.schedule.WeeklyView(context.Background(), id, 3)
	if len(week3.Rows) != 2 {
		t.Errorf("第 3 周 Vật lý 无课，期望 2 行，实际 %d", len(week3.Rows))
	}
}

func TestScheduleService_WeeklyView_NoSelection(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t)

	view, err := ts.schedule.WeeklyView(context.Background(), id, 2)
	if err != nil {
		t.Fatalf("WeeklyView 失败: %v", err)
	}
	if view.Rows == nil || len(view.Rows) != 0 {
		t.Errorf("未选择教学班时应返回空列表，实际 %v", view.Rows)
	}
}

func TestScheduleService_WeekOutOfRange(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t, labelCalculus)

	for _, week := range []int{0, 51} {
		if _, err := ts.schedule.WeeklyView(context.Background(), id, week); !errors.Is(err, ErrWeekOutOfRange) {
			t.Errorf("week=%d 期望 ErrWeekOutOfRange，实际 %v", week, err)
		}
	}
}

func TestScheduleService_SetChecklist(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	id := ts.newSessionWithTimetable(t, labelCalculus, labelPhysics)

	view, err := ts.schedule.SetChecklist(ctx, id, &dto.UpdateChecklistRequest{Week: 2, Key: "w2:r1", Done: true})
	if err != nil {
		t.Fatalf("SetChecklist 失败: %v", err)
	}
	if !view.Rows[0].Done || view.Unfinished != 2 {
		t.Errorf("勾选后期望首行完成、剩余 2 行，实际 done=%v unfinished=%d", view.Rows[0].Done, view.Unfinished)
	}

	// 其他周不受影响
	week4, _ := ts.schedule.WeeklyView(ctx, id, 4)
	for _, r := range week4.Rows {
		if r.Done {
			t.Errorf("第 4 周不应有已完成行: %s", r.Key)
		}
	}

	view, _ = ts.schedule.SetChecklist(ctx, id, &dto.UpdateChecklistRequest{Week: 2, Key: "w2:r1", Done: false})
	if view.Unfinished != 3 {
		t.Errorf("取消勾选后期望 3 行未完成，实际 %d", view.Unfinished)
	}
}

func TestScheduleService_SetChecklist_UnknownKey(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t, labelCalculus)

	// r1 是 Vật lý，未被选中
	_, err := ts.schedule.SetChecklist(context.Background(), id, &dto.UpdateChecklistRequest{Week: 2, Key: "w2:r1", Done: true})
	if !errors.Is(err, ErrChecklistKeyUnknown) {
		t.Errorf("期望 ErrChecklistKeyUnknown，实际 %v", err)
	}
}

func TestScheduleService_ExportXLSX(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	id := ts.newSessionWithTimetable(t, labelPhysics)
	if _, err := ts.personal.Add(ctx, id, &dto.CreatePersonalEntryRequest{Week: 2, Text: "Thứ 7, 8:00, Đá bóng"}); err != nil {
		t.Fatalf("Add 失败: %v", err)
	}

	file, err := ts.schedule.ExportXLSX(ctx, id, 2, []string{model.ColumnCourseName, model.ColumnRoom})
	if err != nil {
		t.Fatalf("ExportXLSX 失败: %v", err)
	}
	if file.Filename != "Lich_Ca_Nhan_Tuan_2.xlsx" || file.ContentType != XLSXContentType {
		t.Errorf("文件名或类型错误: %s %s", file.Filename, file.ContentType)
	}

	school := readSheet(t, file.Data, SheetSchoolSchedule)
	if len(school) != 2 || school[0][0] != model.ColumnCourseName || school[1][1] != "B202" {
		t.Errorf("学校课表工作表内容错误: %v", school)
	}
	personal := readSheet(t, file.Data, SheetPersonalSchedule)
	if len(personal) != 2 || personal[1][2] != "Đá bóng" {
		t.Errorf("个人安排工作表内容错误: %v", personal)
	}
}

func TestScheduleService_ExportXLSX_UnknownColumn(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t, labelPhysics)

	_, err := ts.schedule.ExportXLSX(context.Background(), id, 2, []string{"Giảng_viên"})
	if !errors.Is(err, ErrExportColumnUnknown) {
		t.Errorf("期望 ErrExportColumnUnknown，实际 %v", err)
	}
}

func TestScheduleService_ExportICS(t *testing.T) {
	ts := setupTestServices(t)
	id := ts.newSessionWithTimetable(t, labelPhysics)

	file, err := ts.schedule.ExportICS(context.Background(), id, 2)
	if err != nil {
		t.Fatalf("ExportICS 失败: %v", err)
	}
	content := string(file.Data)
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "SUMMARY:"+labelPhysics) {
		t.Errorf("日历内容缺少事件:\n%s", content)
	}
	// 学期 2026-09-07 为周一，第 2 周周一 = 2026-09-14
	if !strings.Contains(content, "20260914T093000") {
		t.Errorf("事件开始时间错误:\n%s", content)
	}
}

func TestParseColumns(t *testing.T) {
	got := ParseColumns(" Tên_HP, ,Phòng ")
	if len(got) != 2 || got[0] != "Tên_HP" || got[1] != "Phòng" {
		t.Errorf("ParseColumns 结果错误: %v", got)
	}
	if ParseColumns("  ") != nil {
		t.Error("空参数应返回 nil")
	}
}

// ── Personal ──

func TestPersonalService_AddListDelete(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	tok, _ := ts.session.Create(ctx)

	entry, err := ts.personal.Add(ctx, tok.SessionID, &dto.CreatePersonalEntryRequest{Week: 3, Text: "CN, 19:00, Họp nhóm, phòng 2"})
	if err != nil {
		t.Fatalf("Add 失败: %v", err)
	}
	if entry.Content != "Họp nhóm, phòng 2" {
		t.Errorf("内容应保留逗号，实际 %q", entry.Content)
	}

	if list, _ := ts.personal.List(ctx, tok.SessionID, 4); len(list) != 0 {
		t.Errorf("第 4 周不应有安排，实际 %d", len(list))
	}
	list, err := ts.personal.List(ctx, tok.SessionID, 3)
	if err != nil || len(list) != 1 {
		t.Fatalf("第 3 周期望 1 条安排，实际 %d (%v)", len(list), err)
	}

	if err := ts.personal.Delete(ctx, tok.SessionID, entry.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if err := ts.personal.Delete(ctx, tok.SessionID, entry.ID); !errors.Is(err, ErrPersonalEntryNotFound) {
		t.Errorf("重复删除期望 ErrPersonalEntryNotFound，实际 %v", err)
	}
}

func TestPersonalService_AddBadFormat(t *testing.T) {
	ts := setupTestServices(t)
	tok, _ := ts.session.Create(context.Background())

	_, err := ts.personal.Add(context.Background(), tok.SessionID, &dto.CreatePersonalEntryRequest{Week: 1, Text: "Thứ 2, 8:00"})
	if !errors.Is(err, ErrPersonalEntryFormat) {
		t.Errorf("期望 ErrPersonalEntryFormat，实际 %v", err)
	}
}
