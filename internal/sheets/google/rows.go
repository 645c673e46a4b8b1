package google

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

func expenseRow(e core.Expense) []any {
	return []any{e.ID, e.OwnerID, e.Date.String(), e.Category.Name, e.Description, e.Amount.String()}
}

// findRow returns the 1-based sheet row whose first cell equals id, or 0.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}
