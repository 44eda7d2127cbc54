package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"planeador/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写出
//   - 工作簿包含 Tareas / Exámenes / Notas 三个 Sheet，数据来自科目详情
type ExportService interface {
	// ExportSubject 导出科目为 Excel，返回内容与建议文件名
	ExportSubject(ctx context.Context, subjectID, userID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	subjects SubjectService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{subjects: NewSubjectService(repo, logger), logger: logger}
}

const (
	sheetTasks = "Tareas"
	sheetExams = "Exámenes"
	sheetNotes = "Notas"
)

// ════════════════════════════════════════════════════════════
// ExportSubject
// ════════════════════════════════════════════════════════════
//
//	Tareas    | Descripción | Fecha límite | Completada |
//	Exámenes  | Tema | Fecha | Calificación |
//	Notas     | Contenido | Creada |

func (s *exportService) ExportSubject(ctx context.Context, subjectID, userID uint) (*bytes.Buffer, string, error) {
	// 归属校验与子记录读取复用科目详情
	detail, err := s.subjects.GetDetails(ctx, subjectID, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Tareas ──
	if err := f.SetSheetName("Sheet1", sheetTasks); err != nil {
		return nil, "", s.fail(err)
	}
	rows := [][]interface{}{{"Descripción", "Fecha límite", "Completada"}}
	for _, t := range detail.Tasks {
		rows = append(rows, []interface{}{t.Description, derefOr(t.DueDate, ""), yesNo(t.Completed)})
	}
	if err := writeSheet(f, sheetTasks, rows, headerStyle, []float64{50, 14, 12}); err != nil {
		return nil, "", s.fail(err)
	}

	// ── Exámenes ──
	if _, err := f.NewSheet(sheetExams); err != nil {
		return nil, "", s.fail(err)
	}
	rows = [][]interface{}{{"Tema", "Fecha", "Calificación"}}
	for _, e := range detail.Exams {
		rows = append(rows, []interface{}{e.Topic, derefOr(e.ExamDate, ""), derefOr(e.Grade, "")})
	}
	if err := writeSheet(f, sheetExams, rows, headerStyle, []float64{40, 14, 14}); err != nil {
		return nil, "", s.fail(err)
	}

	// ── Notas ──
	if _, err := f.NewSheet(sheetNotes); err != nil {
		return nil, "", s.fail(err)
	}
	rows = [][]interface{}{{"Contenido", "Creada"}}
	for _, n := range detail.Notes {
		rows = append(rows, []interface{}{n.Content, n.CreatedAt})
	}
	if err := writeSheet(f, sheetNotes, rows, headerStyle, []float64{80, 24}); err != nil {
		return nil, "", s.fail(err)
	}

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("materia_%s.xlsx", detail.Name)
	return buf, filename, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("写入 Excel 失败", zap.Error(err))
	return ErrExportGenerateFail
}

// ── 辅助函数 ──

// writeSheet 第一行为表头，widths 依次对应 A、B、C… 列宽
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, widths []float64) error {
	for i, w := range widths {
		col := colName(i)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	for r, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func derefOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
