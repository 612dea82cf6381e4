package sheetsclient

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// headerRowIndex is the row the header is written to, after a 2-row gap
const headerRowIndex = 2

// PublishedRouteRow is one route of a published week, one cell per weekday
type PublishedRouteRow struct {
	RouteNumber int
	Days        []string // volunteer names joined per day, or "Closed"
}

// PublishedWeek is the grid exported when a week is published
type PublishedWeek struct {
	StartDate  string   // Format: "2006-01-02"
	DayHeaders []string // Format: "Mon Jan 02"
	Rows       []PublishedRouteRow
}

// PublishWeek writes a published week to its own tab.
// If the tab doesn't exist it is created with the title "Week of Mon Jun 03 2024".
// If it exists, the route and day columns are overwritten and any columns to their
// right (notes added by hand) are preserved row by row.
func (c *Client) PublishWeek(spreadsheetID string, week *PublishedWeek) error {
	tabTitle, err := generateWeekTabTitle(week.StartDate)
	if err != nil {
		return fmt.Errorf("failed to generate tab title: %w", err)
	}

	existed, err := c.ensureTab(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if existed {
		existing, err = c.readValues(spreadsheetID, fmt.Sprintf("'%s'!A1:ZZ", tabTitle))
		if err != nil {
			return fmt.Errorf("failed to read existing tab data: %w", err)
		}
	}

	rows := buildWeekRows(week, existing)
	if err := c.writeValues(spreadsheetID, fmt.Sprintf("'%s'!A1", tabTitle), rows); err != nil {
		return fmt.Errorf("failed to write week tab: %w", err)
	}

	c.logger.Info("Wrote week tab",
		zap.String("tab", tabTitle),
		zap.Bool("existed", existed),
		zap.Int("routes", len(week.Rows)))

	return nil
}

// generateWeekTabTitle creates a tab title in the format "Week of Mon Jun 03 2024"
func generateWeekTabTitle(startDate string) (string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	return "Week of " + start.Format("Mon Jan 02 2006"), nil
}

// buildWeekRows lays out the week under a 2-row gap.
// Cells to the right of the day columns in existing are carried over.
func buildWeekRows(week *PublishedWeek, existing [][]interface{}) [][]interface{} {
	gridWidth := 1 + len(week.DayHeaders)

	header := []interface{}{"Route"}
	for _, h := range week.DayHeaders {
		header = append(header, h)
	}
	if len(existing) > headerRowIndex {
		header = append(header, extraCells(existing[headerRowIndex], gridWidth)...)
	}

	rows := [][]interface{}{
		{}, // Row 1 (empty)
		{}, // Row 2 (empty)
		header,
	}

	for i, route := range week.Rows {
		row := []interface{}{fmt.Sprintf("Route %d", route.RouteNumber)}
		for d := 0; d < len(week.DayHeaders); d++ {
			if d < len(route.Days) {
				row = append(row, route.Days[d])
			} else {
				row = append(row, "")
			}
		}

		if existingIdx := headerRowIndex + 1 + i; existingIdx < len(existing) {
			row = append(row, extraCells(existing[existingIdx], gridWidth)...)
		}

		rows = append(rows, row)
	}

	return rows
}

// extraCells returns the cells of row beyond the first width columns
func extraCells(row []interface{}, width int) []interface{} {
	if len(row) <= width {
		return nil
	}
	return row[width:]
}
