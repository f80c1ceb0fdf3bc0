package interfaces

import "trading-report/internal/types"

// Renderer turns a report into document bytes
type Renderer interface {
	Render(report *types.Report) ([]byte, error)
}
