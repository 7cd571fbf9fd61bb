package reportjob

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"trip-expense/backend/internal/model"
)

var csvHeader = []string{"Category", "Description", "Amount", "Date"}

// BuildCSV 生成月度费用 CSV：表头、逐条费用、末尾合计行
// 调用方负责按类别、创建时间排序
func BuildCSV(expenses []model.Expense) ([]byte, decimal.Decimal, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for i := range expenses {
		e := &expenses[i]
		if err := w.Write([]string{
			e.Category,
			e.Description,
			e.Amount.StringFixed(2),
			e.Date.String(),
		}); err != nil {
			return nil, decimal.Zero, err
		}
		total = total.Add(e.Amount)
	}

	if err := w.Write([]string{"", "Total", total.StringFixed(2), ""}); err != nil {
		return nil, decimal.Zero, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, decimal.Zero, err
	}
	return buf.Bytes(), total, nil
}
