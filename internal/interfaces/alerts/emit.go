// Package alerts renders scan results to files for downstream consumers:
// a JSON report with a run summary and a flat CSV for spreadsheet triage.
package alerts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/scan"
)

type Emitter struct{}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// EmitReportJSON writes the full scan outcome: run metadata, alert counts
// by priority, and the per-symbol assessments with their alerts.
func (e *Emitter) EmitReportJSON(filePath string, summary *scan.Summary) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report JSON file: %w", err)
	}
	defer file.Close()

	report := map[string]interface{}{
		"run": map[string]interface{}{
			"id":          summary.RunID,
			"started_at":  summary.StartedAt,
			"duration_ms": summary.Duration.Milliseconds(),
			"requested":   summary.Requested,
			"assessed":    summary.Assessed,
			"failed":      summary.Failed,
		},
		"alert_summary": map[string]interface{}{
			"total_alerts":    e.countAlerts(summary.Results),
			"high_priority":   e.countByPriority(summary.Results, engine.PriorityHigh),
			"medium_priority": e.countByPriority(summary.Results, engine.PriorityMedium),
			"low_priority":    e.countByPriority(summary.Results, engine.PriorityLow),
			"avg_score":       e.avgScore(summary.Results),
		},
		"results": e.enrichResults(summary.Results),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report JSON: %w", err)
	}

	return nil
}

// EmitResultsCSV writes one row per symbol, assessed or failed.
func (e *Emitter) EmitResultsCSV(filePath string, summary *scan.Summary) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Symbol", "Score", "Confidence", "Risk", "Opportunity",
		"Social", "Technical", "Fundamental", "Analyst", "Structure",
		"Divergences", "Alerts", "Error",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range summary.Results {
		if result.Assessment == nil {
			record := make([]string, len(header))
			record[0] = result.Symbol
			record[len(record)-1] = result.Error
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
			continue
		}

		a := result.Assessment
		record := []string{
			a.Symbol,
			fmt.Sprintf("%.2f", a.Score),
			fmt.Sprintf("%.2f", a.Confidence),
			string(a.Risk),
			string(a.Opportunity),
			formatComponentCSV(a.Components.Social),
			formatComponentCSV(a.Components.Technical),
			formatComponentCSV(a.Components.Fundamental),
			formatComponentCSV(a.Components.Analyst),
			formatComponentCSV(a.Components.Structure),
			strconv.Itoa(len(a.Divergences)),
			strconv.Itoa(len(result.Alerts)),
			"",
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}

func (e *Emitter) enrichResults(results []scan.Result) []map[string]interface{} {
	enriched := make([]map[string]interface{}, len(results))

	for i, result := range results {
		if result.Assessment == nil {
			enriched[i] = map[string]interface{}{
				"symbol": result.Symbol,
				"error":  result.Error,
			}
			continue
		}

		a := result.Assessment
		enriched[i] = map[string]interface{}{
			"symbol":      a.Symbol,
			"score":       a.Score,
			"confidence":  a.Confidence,
			"risk":        a.Risk,
			"opportunity": a.Opportunity,
			"components": map[string]interface{}{
				"social":      componentJSON(a.Components.Social),
				"technical":   componentJSON(a.Components.Technical),
				"fundamental": componentJSON(a.Components.Fundamental),
				"analyst":     componentJSON(a.Components.Analyst),
				"structure":   componentJSON(a.Components.Structure),
			},
			"divergences": a.Divergences,
			"alerts":      result.Alerts,
		}
	}

	return enriched
}

func componentJSON(cs engine.ComponentScore) map[string]interface{} {
	if cs.Missing() {
		return map[string]interface{}{"completeness": cs.Completeness}
	}
	return map[string]interface{}{
		"value":        cs.Value,
		"completeness": cs.Completeness,
	}
}

func (e *Emitter) countAlerts(results []scan.Result) int {
	count := 0
	for _, r := range results {
		count += len(r.Alerts)
	}
	return count
}

func (e *Emitter) countByPriority(results []scan.Result, priority engine.Priority) int {
	count := 0
	for _, r := range results {
		for _, a := range r.Alerts {
			if a.Priority == priority {
				count++
			}
		}
	}
	return count
}

func (e *Emitter) avgScore(results []scan.Result) float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Assessment == nil {
			continue
		}
		sum += r.Assessment.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func formatComponentCSV(cs engine.ComponentScore) string {
	if cs.Missing() {
		return "-"
	}
	return fmt.Sprintf("%.1f", cs.Value)
}
