package finance

import (
	"regexp"
	"strings"

	"reportctx/internal/report"
)

// Metric patterns for Indian-market annual reports. Pattern order is
// priority order: the first match wins.
var (
	revenuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)revenue[:\s]*₹?\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)total\s+revenue[:\s]*₹?\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)sales[:\s]*₹?\s*([\d,]+\.?\d*)`),
	}
	profitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)net\s+profit[:\s]*₹?\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)profit\s+after\s+tax[:\s]*₹?\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)\bpat[:\s]*₹?\s*([\d,]+\.?\d*)`),
	}
	epsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)earnings\s+per\s+share[:\s]*₹?\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)\beps[:\s]*₹?\s*([\d,]+\.?\d*)`),
	}
)

// ExtractMetrics pulls headline financial figures out of normalized
// report text. Missing metrics are left empty; this never fails.
func ExtractMetrics(text string) report.FinancialData {
	return report.FinancialData{
		Revenue:   firstMatch(text, revenuePatterns),
		NetProfit: firstMatch(text, profitPatterns),
		EPS:       firstMatch(text, epsPatterns),
	}
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, pat := range patterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// FormatSummary renders extracted metrics as the FINANCIAL SUMMARY
// block body, one metric per line.
func FormatSummary(fd report.FinancialData) string {
	if fd.Empty() {
		return "No financial data extracted."
	}
	var lines []string
	if fd.Revenue != "" {
		lines = append(lines, "Revenue: ₹"+fd.Revenue)
	}
	if fd.NetProfit != "" {
		lines = append(lines, "Net Profit: ₹"+fd.NetProfit)
	}
	if fd.EPS != "" {
		lines = append(lines, "EPS: ₹"+fd.EPS)
	}
	return strings.Join(lines, "\n")
}
