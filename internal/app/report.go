package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Report prints the bounded per-item price history.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	window := a.Config.ResolveWindow(opts.Window)
	entries, err := store.ReportData(ctx, window)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no observations found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Item\tPoints\tOldest\tLatest\tLatest Price")

	for _, entry := range entries {
		oldest := entry.History[0]
		latest := entry.History[len(entry.History)-1]
		fmt.Fprintf(
			writer,
			"%s\t%d\t%s\t%s\t%s\n",
			entry.Item,
			len(entry.History),
			oldest.Timestamp.UTC().Format(time.RFC3339),
			latest.Timestamp.UTC().Format(time.RFC3339),
			latest.Price,
		)
	}

	writer.Flush()
	return nil
}
