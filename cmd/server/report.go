package main

import (
	"fmt"
	"strconv"
	"strings"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/survey"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportDimension  string
	reportValues     []string
	reportTheme      string
	reportTags       []string
	reportDumpConfig string
)

var reportCmd = &cobra.Command{
	Use:   "report <file.csv>",
	Short: "Print the Overview and Themes views of a survey CSV",
	Long: `Loads a survey CSV with the configured schema and prints the Overview
distribution of one dimension, followed by theme and tag prevalence in the
filtered subset.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportDimension, "dimension", "d", "", "Dimension to break down (default: first dimension)")
	reportCmd.Flags().StringSliceVar(&reportValues, "values", nil, "Dimension values to keep (default: All)")
	reportCmd.Flags().StringVar(&reportTheme, "theme", "", "Theme a listed response must be flagged with")
	reportCmd.Flags().StringSliceVar(&reportTags, "tags", nil, "Tags a response must carry at least one of")
	reportCmd.Flags().StringVar(&reportDumpConfig, "dump-config", "", "Write the effective config as YAML to this path")
}

var (
	reportTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	reportHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	reportCell   = lipgloss.NewStyle().Padding(0, 1)
	reportMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

func runReport(cmd *cobra.Command, args []string) error {
	if reportDumpConfig != "" {
		if err := cfg.Save(reportDumpConfig); err != nil {
			return err
		}
		logger.Info("config written", zap.String("path", reportDumpConfig))
	}

	df, err := analysis.NewCSVService().ParseFile(args[0])
	if err != nil {
		return err
	}
	table, err := survey.Normalize(df.Headers, df.Rows, cfg.Survey.Schema())
	if err != nil {
		return fmt.Errorf("%s: %w", df.FileName, err)
	}

	out, err := renderReport(table, survey.Query{
		Dimension: reportDimension,
		Values:    reportValues,
		Theme:     reportTheme,
		Tags:      reportTags,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// renderReport prints the Overview distribution for q's dimension, then the
// theme and tag counts of the subset q selects. The theme filter only limits
// the response count line at the bottom.
func renderReport(t *survey.Table, q survey.Query) (string, error) {
	overview, err := survey.Overview(t, survey.OverviewRequest{Dimension: q.Dimension, Values: q.Values})
	if err != nil {
		return "", err
	}
	q.Dimension = overview.Dimension

	themes, err := survey.Themes(t, q)
	if err != nil {
		return "", err
	}
	quotes, err := survey.Quotes(t, q)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(renderBuckets("Overview: "+overview.Dimension, overview.Summary, overview.Dimension, overview.Buckets))
	sb.WriteString(renderBuckets("Themes", themes.Summary, "Theme", themes.Themes))
	sb.WriteString(renderBuckets("Tags", themes.Summary, "Tag", themes.Tags))
	sb.WriteString(reportMuted.Render(themes.Disclaimer))
	sb.WriteString("\n")
	sb.WriteString(reportMuted.Render("Quotation Bank: " + quotes.Summary))
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderBuckets(title, summary, label string, buckets []survey.Bucket) string {
	rows := make([][]string, len(buckets))
	for i, b := range buckets {
		name := b.Label
		if name == "" {
			name = "(blank)"
		}
		rows[i] = []string{name, strconv.Itoa(b.Count), survey.FormatPercent(b.Percent)}
	}

	var sb strings.Builder
	sb.WriteString(reportTitle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(reportMuted.Render(summary))
	sb.WriteString("\n")
	sb.WriteString(renderTable([]string{label, "Count", "Percent"}, rows))
	sb.WriteString("\n")
	return sb.String()
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Width includes padding.
	total := len(headers) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	writeRow := func(style lipgloss.Style, cells []string) {
		for i, cell := range cells {
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(cells)-1 {
				sb.WriteString(reportMuted.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(reportHeader, headers)
	sb.WriteString(reportMuted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(reportCell, row)
	}
	return sb.String()
}
