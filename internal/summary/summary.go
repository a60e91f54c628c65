// Package summary renders a read-only overview of a scanned hierarchy so an
// operator can review it before anything is uploaded.
package summary

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reaper/internal/hierarchy"
)

// Summary holds hierarchy totals.
type Summary struct {
	Sessions     int
	Acquisitions int
	Datasets     int
	Images       int
}

// Summarize counts every level of h.
func Summarize(h *hierarchy.Hierarchy) Summary {
	var s Summary
	if h == nil {
		return s
	}
	for _, session := range h.Sessions() {
		s.Sessions++
		for _, acq := range session.Acquisitions() {
			s.Acquisitions++
			for _, ds := range acq.Datasets() {
				s.Datasets++
				s.Images += ds.ImageCount()
			}
		}
	}
	return s
}

// Empty reports whether there is nothing to upload.
func (s Summary) Empty() bool {
	return s.Datasets == 0
}

// RenderTable renders the totals as a two-column table.
func RenderTable(s Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Level", "Count"})
	tw.AppendRows([]table.Row{
		{"Sessions", strconv.Itoa(s.Sessions)},
		{"Acquisitions", strconv.Itoa(s.Acquisitions)},
		{"Datasets", strconv.Itoa(s.Datasets)},
		{"Images", strconv.Itoa(s.Images)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// RenderTree writes the nested group/project, session, acquisition, dataset
// tree to w. An empty project leaves the root as just group.
func RenderTree(w io.Writer, h *hierarchy.Hierarchy, group, project string) error {
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)

	root := group
	if project != "" {
		root = group + "/" + project
	}
	lw.AppendItem(root)
	lw.Indent()
	if h != nil {
		for _, session := range h.Sessions() {
			lw.AppendItem(fmt.Sprintf("%s (subject %s)", session.Label, session.SubjectCode))
			lw.Indent()
			for _, acq := range session.Acquisitions() {
				lw.AppendItem(acq.Label)
				lw.Indent()
				for _, ds := range acq.Datasets() {
					lw.AppendItem(fmt.Sprintf("%s [%s]", ds.Label, pluralize(ds.ImageCount(), "image")))
				}
				lw.UnIndent()
			}
			lw.UnIndent()
		}
	}

	if _, err := fmt.Fprintln(w, lw.Render()); err != nil {
		return fmt.Errorf("write summary tree: %w", err)
	}
	return nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
