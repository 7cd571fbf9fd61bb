package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
)

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// 单次导出的最大行数
const maxExportRows = 10000

// ═══════════════════════════════════════════════════════════
// Export 导出费用为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Expenses"
//   - 列：Date | Trip | Category | Description | Amount | Verified
//   - 末行为合计

func (s *expenseService) Export(ctx context.Context, userID string, req *dto.ExpenseExportRequest) (*bytes.Buffer, string, error) {
	filters, err := buildExpenseFilters(userID, req.Trip, req.Category, req.Search, req.Ordering, req.StartDate, req.EndDate)
	if err != nil {
		return nil, "", err
	}

	expenses, err := s.repo.Expense.ListAll(ctx, filters, maxExportRows)
	if err != nil {
		s.logger.Error("查询导出费用失败", zap.Error(err))
		return nil, "", err
	}

	buf, err := buildExpenseWorkbook(expenses)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("expenses_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

func buildExpenseWorkbook(expenses []model.Expense) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Expenses"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 38)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 10)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00

	headers := []string{"Date", "Trip", "Category", "Description", "Amount", "Verified"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	total := decimal.Zero
	row := 2
	for i := range expenses {
		e := &expenses[i]
		f.SetCellValue(sheetName, cell("A", row), e.Date.String())
		f.SetCellValue(sheetName, cell("B", row), e.TripID)
		f.SetCellValue(sheetName, cell("C", row), categoryLabel(e.Category))
		f.SetCellValue(sheetName, cell("D", row), e.Description)
		f.SetCellFloat(sheetName, cell("E", row), e.Amount.InexactFloat64(), 2, 64)
		f.SetCellValue(sheetName, cell("F", row), e.Verified)
		total = total.Add(e.Amount)
		row++
	}

	f.SetCellValue(sheetName, cell("D", row), "Total")
	f.SetCellFloat(sheetName, cell("E", row), total.InexactFloat64(), 2, 64)
	f.SetCellStyle(sheetName, "E2", cell("E", row), amountStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func categoryLabel(category string) string {
	if label, ok := model.ExpenseCategories[category]; ok {
		return label
	}
	return category
}
