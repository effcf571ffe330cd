package interfaces

import "context"

// ReportStore uploads a rendered report to remote storage
type ReportStore interface {
	Put(ctx context.Context, uri string, data []byte, contentType string) error
}

// Notifier announces a finished report
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
