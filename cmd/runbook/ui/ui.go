// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package ui renders the runbook CLI's human-facing output: styled
// status lines, step tables, and run summaries.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette, muted and dark-terminal friendly.
var (
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	blue   = lipgloss.Color("75")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	AccentStyle  = lipgloss.NewStyle().Foreground(blue)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

// Single-line message helpers, no trailing newline.

func SuccessMsg(format string, a ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return ErrorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

func WarnMsg(format string, a ...any) string {
	return WarnStyle.Render("!") + " " + fmt.Sprintf(format, a...)
}

func InfoMsg(format string, a ...any) string {
	return AccentStyle.Render("●") + " " + fmt.Sprintf(format, a...)
}

// StatusBadge renders a step status word in its color.
func StatusBadge(status string) string {
	switch status {
	case "ok", "completed":
		return SuccessStyle.Render(status)
	case "failed":
		return ErrorStyle.Render(status)
	case "skipped", "stopped":
		return WarnStyle.Render(status)
	default:
		return MutedStyle.Render(status)
	}
}

// Checklist renders one line per entry: a colored marker, the name,
// and an optional note in muted text. Used by the list command to show
// steps against saved progress.
type ChecklistEntry struct {
	Name string
	Done bool
	Note string
}

func Checklist(entries []ChecklistEntry) string {
	var sb strings.Builder
	for i, entry := range entries {
		marker := MutedStyle.Render("○")
		if entry.Done {
			marker = SuccessStyle.Render("●")
		}
		sb.WriteString(fmt.Sprintf("  %s %2d. %s", marker, i+1, entry.Name))
		if entry.Note != "" {
			sb.WriteString("  " + MutedStyle.Render(entry.Note))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Table renders a bordered table for show/list output.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(blue).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}
