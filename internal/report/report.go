// Package report prints the human-readable conversion summary.
package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/emiliopalmerini/expconv/internal/convert"
	"github.com/emiliopalmerini/expconv/internal/pkg/tui/components"
	"github.com/emiliopalmerini/expconv/internal/pkg/tui/theme"
)

const (
	rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

	// SampleSize is how many records the summary previews.
	SampleSize = 3
	// DescriptionPreview is the number of description characters shown per sample.
	DescriptionPreview = 100

	usageBarWidth = 30
)

// DefaultModelLabel names the downstream model in the token analysis.
const DefaultModelLabel = "Claude 3.5 Sonnet"

// Reporter writes conversion output for people, not machines.
type Reporter struct {
	w          io.Writer
	p          *message.Printer
	styles     *theme.Styles
	modelLabel string
}

// New creates a Reporter writing to w. Colors are used only when w is a
// color-capable terminal.
func New(w io.Writer, modelLabel string) *Reporter {
	if modelLabel == "" {
		modelLabel = DefaultModelLabel
	}
	return &Reporter{
		w:          w,
		p:          message.NewPrinter(language.English),
		styles:     theme.New(lipgloss.NewRenderer(w)),
		modelLabel: modelLabel,
	}
}

// Summary prints statistics, token analysis and a preview of the first records.
func (r *Reporter) Summary(res *convert.Result) {
	s := res.Stats

	r.line(r.styles.Title.Render("Conversion completed!"))
	r.section("📊 STATISTICS:")
	r.line(r.p.Sprintf("Total experiments: %d", s.RecordCount))
	r.line(r.p.Sprintf("JSON file size: %d bytes", s.OutputBytes) + fmt.Sprintf(" (%.2f MB)", s.OutputMegabytes()))
	r.line(r.p.Sprintf("Estimated total tokens: %d", s.TotalTokens))
	r.line(fmt.Sprintf("Average tokens per experiment: %d", s.AverageTokens))

	r.section("💡 TOKEN ANALYSIS:")
	r.line(r.p.Sprintf("%s context limit: %d tokens", r.modelLabel, s.ContextBudget))
	r.line(fmt.Sprintf("Percentage of context used: %.1f%%", s.PercentUsed))
	bar := components.NewUsageBar(usageBarWidth, s.TotalTokens, s.ContextBudget, r.styles)
	r.line(bar.View())

	if s.OverBudget {
		r.line(r.styles.Warning.Render("⚠️  WARNING: Token count exceeds model limits!"))
		if s.RecommendedBatch > 0 {
			r.line(fmt.Sprintf("📝 Recommendation: Process in batches of ~%d experiments", s.RecommendedBatch))
		}
	} else {
		r.line(r.styles.Success.Render("✅ Token count is within model limits"))
	}

	r.line("")
	r.line(r.styles.Heading.Render("📋 SAMPLE EXPERIMENTS:"))
	r.line(r.styles.Rule.Render(rule))
	for i, rec := range res.Records {
		if i == SampleSize {
			break
		}
		n := 0
		if i < len(res.RecordTokens) {
			n = res.RecordTokens[i]
		}
		r.line(fmt.Sprintf("%d. %s (%d tokens)", i+1, r.styles.Bold.Render(rec.Tactic), n))
		r.line(fmt.Sprintf("   Funnel: %s | Probability: %s | Effort: %s", rec.FunnelStep, rec.Probability, rec.Effort))
		r.line(fmt.Sprintf("   Description: %s...", Truncate(rec.Description, DescriptionPreview)))
		r.line("")
	}
}

// Success prints the closing lines of a successful run.
func (r *Reporter) Success(count int, outputPath string) {
	r.line(fmt.Sprintf("🎉 Successfully converted %d experiments to JSON!", count))
	r.line(fmt.Sprintf("📁 JSON file saved to: %s", outputPath))
}

// InputNotFound reports a missing input file.
func (r *Reporter) InputNotFound(path string) {
	r.line(r.styles.Error.Render("❌ CSV file not found: " + path))
}

// Failure reports an error that aborted the conversion.
func (r *Reporter) Failure(err error) {
	r.line(r.styles.Error.Render("❌ Error during conversion: " + err.Error()))
}

func (r *Reporter) section(title string) {
	r.line(r.styles.Rule.Render(rule))
	r.line(r.styles.Heading.Render(title))
	r.line(r.styles.Rule.Render(rule))
}

func (r *Reporter) line(s string) {
	_, _ = io.WriteString(r.w, s+"\n")
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
