package application

import (
	"context"
	"fmt"
	"log/slog"
)

// Diagnostic is a best-effort failure that was isolated rather than returned
type Diagnostic struct {
	Stage   Stage
	Subject string
	Err     error
}

// Event is the dotted log event name for the diagnostic
func (d Diagnostic) Event() string {
	return string(d.Stage) + ".err"
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %v", d.Stage, d.Subject, d.Err)
}

// LogDiagnostics writes each diagnostic at warn level
func LogDiagnostics(ctx context.Context, logger *slog.Logger, diags []Diagnostic) {
	if logger == nil {
		return
	}
	for _, d := range diags {
		logger.LogAttrs(ctx, slog.LevelWarn, d.Event(),
			slog.String("subject", d.Subject),
			slog.String("err", d.Err.Error()),
		)
	}
}
