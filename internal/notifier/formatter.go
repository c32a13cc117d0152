package notifier

import (
	"fmt"
	"strings"

	"EcoUrban/internal/calculator"
	"EcoUrban/internal/model"
)

// FormatForecastReport formats the dashboard snapshot into a Telegram message.
func FormatForecastReport(snap model.Snapshot, series model.EnergySeries) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("⚡ <b>EcoUrban forecast</b> | %s\n\n", snap.UpdatedAt.Format("2006-01-02 15:04")))

	switch snap.RequestState {
	case model.PhaseSucceeded:
		b.WriteString(fmt.Sprintf("Next hour: <b>%s kWh</b>\n", formatKWh(snap.ForecastValue)))
	case model.PhaseFailed:
		b.WriteString(fmt.Sprintf("❌ Forecast unavailable: %s\n", escape(snap.Error)))
	case model.PhaseInFlight:
		b.WriteString("⏳ Forecast in progress\n")
	default:
		b.WriteString("No forecast requested yet\n")
	}

	b.WriteString(fmt.Sprintf("Current: %s kWh | Average: %s kWh\n", formatKWh(snap.Current), formatKWh(snap.Average)))
	if snap.SavingPercent != nil {
		b.WriteString(fmt.Sprintf("Saving potential: %+.1f%%\n", *snap.SavingPercent))
	}

	values := series.Values()
	if high, low, err := calculator.CalculateRange(values); err == nil {
		b.WriteString(fmt.Sprintf("24h range: %.0f-%.0f kWh", low, high))
		if idx, err := calculator.PeakIndex(values); err == nil {
			b.WriteString(fmt.Sprintf(" (peak at %s)", series.Labels()[idx]))
		}
		b.WriteString("\n")
	}

	if snap.IsAnomaly {
		b.WriteString("\n⚠️ <b>Anomaly:</b> forecast is more than 30% above the 24h average\n")
	}
	if snap.Recommendation != nil {
		b.WriteString(fmt.Sprintf("\n💡 %s\n", escape(*snap.Recommendation)))
	}
	return b.String()
}

// FormatAnomalyAlert formats a short alert for an anomalous forecast.
func FormatAnomalyAlert(snap model.Snapshot) string {
	var b strings.Builder
	b.WriteString("🚨 <b>Energy anomaly expected</b>\n\n")
	b.WriteString(fmt.Sprintf("Forecast: %s kWh\n", formatKWh(snap.ForecastValue)))
	if snap.ForecastValue != nil && snap.Average != nil && *snap.Average != 0 {
		over := (*snap.ForecastValue - *snap.Average) / *snap.Average * 100
		b.WriteString(fmt.Sprintf("24h average: %s kWh (%+.1f%%)\n", formatKWh(snap.Average), over))
	}
	if snap.Recommendation != nil {
		b.WriteString(fmt.Sprintf("\n%s", escape(*snap.Recommendation)))
	}
	return b.String()
}

func formatKWh(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape makes free text safe for Telegram's HTML parse mode.
func escape(s string) string {
	return htmlEscaper.Replace(s)
}
