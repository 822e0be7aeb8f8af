package flusher

import (
	"context"
	"time"
)

// Report описывает один непустой flush.
type Report struct {
	Timestamp  time.Time
	Count      int
	ThreadName string
	TaskID     string
}

// Reporter принимает отчёты о flush. Доставка не гарантируется:
// ошибка Reporter логируется и не влияет на состояние буфера.
type Reporter interface {
	Report(ctx context.Context, report Report) error
}

// ReporterFunc позволяет использовать функцию как Reporter.
type ReporterFunc func(ctx context.Context, report Report) error

func (f ReporterFunc) Report(ctx context.Context, report Report) error {
	return f(ctx, report)
}
