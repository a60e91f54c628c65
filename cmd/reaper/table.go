package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reaper/internal/logging"
	"reaper/internal/staging"
)

// renderStagingTable lists work directories with their age and size. Rows
// older than staleAfter are marked as candidates for `staging clean`.
func renderStagingTable(dirs []staging.DirInfo, now time.Time, staleAfter time.Duration) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Directory", "Age", "Size", "Stale"})

	var total int64
	for _, dir := range dirs {
		age := now.Sub(dir.ModTime).Truncate(time.Minute)
		stale := ""
		if staleAfter > 0 && age >= staleAfter {
			stale = "yes"
		}
		total += dir.Size
		tw.AppendRow(table.Row{dir.Name, formatAge(age), logging.FormatBytes(dir.Size), stale})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d directories", len(dirs)), "", logging.FormatBytes(total), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignCenter, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
