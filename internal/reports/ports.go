package reports

import (
	"context"

	"seniorcare/internal/core"
)

// Sink receives finished fund reports. Implementations: Google Sheets for
// the treasurer's workbook, memory for tests.
type Sink interface {
	PublishFundReport(ctx context.Context, report core.MonthlyFundReport) error
}
