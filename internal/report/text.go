package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders r as plain text, one block per paragraph.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Diabetes risk: %s\n", r.Percent)
	if r.Zone != "" {
		fmt.Fprintf(&b, "Zone: %s risk\n", r.Zone)
	}
	if r.Variant == VariantLifestyle {
		fmt.Fprintf(&b, "BMI: %.1f\n", r.BMI)
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", r.Outcome.Title, r.Outcome.Message)
	if len(r.Outcome.Plan) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", r.Outcome.PlanTitle)
		for _, item := range r.Outcome.Plan {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}

	if len(r.Dashboard) > 0 {
		b.WriteString("\nHealth metrics:\n")
		for _, c := range r.Dashboard {
			value := c.Value
			if c.Unit != "" {
				value += " " + c.Unit
			}
			fmt.Fprintf(&b, "  %-8s %-12s %s %s\n", c.Metric, value, c.Icon, c.Status)
		}
	}

	if len(r.Tips) > 0 {
		b.WriteString("\nHealth tips:\n")
		for _, tip := range r.Tips {
			fmt.Fprintf(&b, "  - %s\n", tip)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", r.Disclaimer)

	_, err := io.WriteString(w, b.String())
	return err
}
