package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

type printStyles struct {
	header lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	poor   lipgloss.Style
	dim    lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		fair:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		poor:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// cell pads s to width using the rendered width so styled text still lines up.
func cell(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func renderAllocation(res *services.WeightAllocationResult, action services.SaveAction) string {
	styles := newPrintStyles()
	var b strings.Builder

	title := fmt.Sprintf("WEIGHT ALLOCATION  %s  (bridge type %d, %s)", res.BridgeInstanceName, res.BridgeTypeID, res.CalculationMode)
	if res.AssessmentUnitInstanceName != nil {
		title += "  unit " + *res.AssessmentUnitInstanceName
	}
	fmt.Fprintln(&b, styles.header.Render(title))
	fmt.Fprintln(&b, styles.header.Render(cell("PART", 20)+cell("COMPONENT TYPE", 22)+cell("WEIGHT", 10)+cell("COUNT", 8)+cell("CUSTOM", 8)+"ADJUSTED"))

	currentPart := int64(-1)
	for _, it := range res.Items {
		part := it.PartName
		if it.PartID == currentPart {
			part = ""
		}
		currentPart = it.PartID
		adjusted := it.AdjustedWeight.StringFixed(4)
		if it.AdjustedWeight.IsZero() {
			adjusted = styles.dim.Render(adjusted)
		}
		custom := styles.dim.Render("-")
		if it.UseCustomCount {
			custom = fmt.Sprint(it.CustomComponentCount)
		}
		fmt.Fprintln(&b,
			cell(part, 20)+
				cell(it.ComponentTypeName, 22)+
				cell(it.Weight.StringFixed(4), 10)+
				cell(fmt.Sprint(it.ComponentCount), 8)+
				cell(custom, 8)+
				adjusted)
	}
	footer := fmt.Sprintf("%d links", res.Total)
	if action != "" {
		footer += ", " + string(action)
	}
	fmt.Fprintln(&b, styles.dim.Render(footer))
	return b.String()
}

func renderScores(res *services.ScoreCalculationResult) string {
	styles := newPrintStyles()
	var b strings.Builder

	fmt.Fprintln(&b, styles.header.Render(fmt.Sprintf("COMPONENT SCORES  %s  (bridge type %d)", res.BridgeInstanceName, res.BridgeTypeID)))
	fmt.Fprintln(&b, styles.header.Render(cell("PART", 20)+cell("COMPONENT", 36)+cell("DAMAGES", 9)+"SCORE"))
	for _, c := range res.Components {
		name := c.ComponentTypeName
		if c.ComponentFormName != "" {
			name += "/" + c.ComponentFormName
		}
		name += "/" + c.ComponentName
		fmt.Fprintln(&b,
			cell(c.PartName, 20)+
				cell(name, 36)+
				cell(fmt.Sprint(c.DamageCount), 9)+
				scoreStyle(styles, c.ComponentScore).Render(fmt.Sprintf("%6.2f", c.ComponentScore)))
	}
	footer := fmt.Sprintf("%d components, %d damages", res.Total, res.DamageCount)
	if res.UnscoredCount > 0 {
		footer += styles.poor.Render(fmt.Sprintf(", %d unscored", res.UnscoredCount))
	}
	fmt.Fprintln(&b, styles.dim.Render(footer))
	return b.String()
}

func scoreStyle(styles printStyles, score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return styles.good
	case score >= 60:
		return styles.fair
	default:
		return styles.poor
	}
}
