package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/treedist/domain"
)

// DistanceFormatterImpl implements the DistanceOutputFormatter interface
type DistanceFormatterImpl struct {
	utils *FormatUtils
}

// NewDistanceFormatter creates a new distance formatter
func NewDistanceFormatter() *DistanceFormatterImpl {
	return &DistanceFormatterImpl{utils: NewFormatUtils()}
}

// WithColor enables ANSI colors in text output
func (f *DistanceFormatterImpl) WithColor(enabled bool) *DistanceFormatterImpl {
	f.utils.WithColor(enabled)
	return f
}

// Write writes a single comparison in the requested format
func (f *DistanceFormatterImpl) Write(response *domain.DistanceResponse, format domain.OutputFormat, showScript bool, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("no distance response to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		return writeString(writer, f.formatText(response, showScript))
	case domain.OutputFormatJSON:
		return WriteJSON(writer, f.scriptFiltered(response, showScript))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, f.scriptFiltered(response, showScript))
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteBatch writes a pairwise comparison in the requested format
func (f *DistanceFormatterImpl) WriteBatch(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("no batch response to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		return writeString(writer, f.formatBatchText(response))
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeBatchCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// scriptFiltered drops the operations from a copy when scripts are not wanted
func (f *DistanceFormatterImpl) scriptFiltered(response *domain.DistanceResponse, showScript bool) *domain.DistanceResponse {
	if showScript {
		return response
	}
	clone := *response
	clone.Results = make([]domain.StrategyResult, len(response.Results))
	for i, r := range response.Results {
		r.Operations = nil
		clone.Results[i] = r
	}
	return &clone
}

func (f *DistanceFormatterImpl) formatText(response *domain.DistanceResponse, showScript bool) string {
	var b strings.Builder
	u := f.utils

	b.WriteString(u.FormatMainHeader("Tree Edit Distance Report"))

	b.WriteString(u.FormatSectionHeader("Trees"))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Source", describeTree(response.Source)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Target", describeTree(response.Target)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Identical", response.Identical))
	b.WriteString(u.FormatSectionSeparator())

	b.WriteString(u.FormatSectionHeader("Result"))
	if response.HasDistance {
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Distance", u.Colorize(ColorBold, u.FormatCost(response.Distance))))
	} else {
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Distance", "unknown"))
	}
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Bounds",
		fmt.Sprintf("[%s, %s]", u.FormatCost(response.LowerBound), u.FormatCost(response.UpperBound))))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Costs",
		fmt.Sprintf("insert %s, delete %s, replace %s",
			u.FormatCost(response.Costs.Insert), u.FormatCost(response.Costs.Delete), u.FormatCost(response.Costs.Replace))))
	b.WriteString(u.FormatSectionSeparator())

	b.WriteString(u.FormatSectionHeader("Strategies"))
	b.WriteString(u.FormatTableHeader(
		fmt.Sprintf("%-20s", "Strategy"), fmt.Sprintf("%8s", "Cost"), fmt.Sprintf("%-11s", "Status"),
		fmt.Sprintf("%10s", "Visited"), fmt.Sprintf("%10s", "Pruned"), fmt.Sprintf("%8s", "Time")))
	for _, r := range response.Results {
		cost := "-"
		if r.Success {
			cost = u.FormatCost(r.Cost)
		}
		b.WriteString(fmt.Sprintf("%-20s  %8s  %-11s  %10s  %10s  %8s\n",
			r.Strategy, cost, u.FormatStatus(r), u.FormatSearchCount(r, r.Visited), u.FormatSearchCount(r, r.Pruned),
			u.FormatDuration(r.DurationMs)))
	}
	b.WriteString(u.FormatSectionSeparator())

	if showScript {
		for _, r := range response.Results {
			if !r.Success || len(r.Operations) == 0 {
				continue
			}
			b.WriteString(u.FormatSectionHeader(fmt.Sprintf("Edit script (%s)", r.Strategy)))
			for i, op := range r.Operations {
				b.WriteString(fmt.Sprintf("%s%3d. %s\n", strings.Repeat(" ", SectionPadding), i+1, op.String()))
			}
			b.WriteString(u.FormatSectionSeparator())
			break
		}
	}

	b.WriteString(u.FormatWarningsSection(response.Warnings))
	return b.String()
}

func describeTree(s domain.TreeSummary) string {
	return fmt.Sprintf("%s (size %d, height %d, leaves %d)", s.Name, s.Size, s.Height, s.Leaves)
}

func (f *DistanceFormatterImpl) writeCSV(response *domain.DistanceResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"source", "target", "strategy", "exact", "success", "cost", "visited", "pruned", "improvements", "duration_ms", "error"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, r := range response.Results {
		cost := ""
		if r.Success {
			cost = f.utils.FormatCost(r.Cost)
		}
		record := []string{
			response.Source.Name,
			response.Target.Name,
			string(r.Strategy),
			strconv.FormatBool(r.Exact),
			strconv.FormatBool(r.Success),
			cost,
			strconv.FormatInt(r.Visited, 10),
			strconv.FormatInt(r.Pruned, 10),
			strconv.FormatInt(r.Improvements, 10),
			strconv.FormatInt(r.DurationMs, 10),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

func (f *DistanceFormatterImpl) formatBatchText(response *domain.BatchResponse) string {
	var b strings.Builder
	u := f.utils

	b.WriteString(u.FormatMainHeader("Tree Edit Distance Matrix"))

	b.WriteString(u.FormatSectionHeader("Summary"))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Strategy", response.Strategy))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Trees", len(response.Trees)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Pairs", len(response.Pairs)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Duration", u.FormatDuration(response.DurationMs)))
	b.WriteString(u.FormatSectionSeparator())

	b.WriteString(u.FormatSectionHeader("Trees"))
	for i, t := range response.Trees {
		b.WriteString(fmt.Sprintf("%s[%d] %s\n", strings.Repeat(" ", SectionPadding), i, describeTree(t)))
	}
	b.WriteString(u.FormatSectionSeparator())

	if len(response.Matrix) > 0 {
		b.WriteString(u.FormatSectionHeader("Matrix"))
		b.WriteString(fmt.Sprintf("%6s", ""))
		for j := range response.Matrix {
			b.WriteString(fmt.Sprintf(" %8s", fmt.Sprintf("[%d]", j)))
		}
		b.WriteString("\n")
		for i, row := range response.Matrix {
			b.WriteString(fmt.Sprintf("%6s", fmt.Sprintf("[%d]", i)))
			for _, d := range row {
				b.WriteString(fmt.Sprintf(" %8s", u.FormatCost(d)))
			}
			b.WriteString("\n")
		}
		b.WriteString(u.FormatSectionSeparator())
	}

	b.WriteString(u.FormatWarningsSection(response.Warnings))
	return b.String()
}

func (f *DistanceFormatterImpl) writeBatchCSV(response *domain.BatchResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write([]string{"source", "target", "distance", "shortcut", "error"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, p := range response.Pairs {
		distance := ""
		if p.Error == "" {
			distance = f.utils.FormatCost(p.Distance)
		}
		record := []string{
			treeName(response.Trees, p.Source),
			treeName(response.Trees, p.Target),
			distance,
			strconv.FormatBool(p.Shortcut),
			p.Error,
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

func treeName(trees []domain.TreeSummary, i int) string {
	if i >= 0 && i < len(trees) {
		return trees[i].Name
	}
	return strconv.Itoa(i)
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

var _ domain.DistanceOutputFormatter = (*DistanceFormatterImpl)(nil)
