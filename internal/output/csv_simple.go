package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/drawdown/internal/domain"
)

// CSVFormatter writes one row per simulated year followed by a summary
// block with one row per scenario.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

var csvYearHeader = []string{
	"Scenario", "Year", "Age", "GuaranteedIncome", "WithdrawalNeed", "RMDTotal",
	"Withdrawals", "OrdinaryIncome", "CapitalGains", "TaxableSocialSecurity",
	"TotalTax", "NetIncome", "Shortfall", "PortfolioValue",
}

var csvSummaryHeader = []string{
	"Scenario", "Success", "FailureYear", "YearsSimulated", "StartingPortfolio",
	"FinalPortfolio", "TotalWithdrawals", "TotalTaxes",
}

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(csvYearHeader); err != nil {
		return nil, err
	}
	for _, res := range report.Projections {
		for _, p := range res.Plans {
			row := []string{
				res.ScenarioName,
				strconv.Itoa(p.Year),
				strconv.Itoa(p.Age),
				p.GuaranteedIncome.StringFixed(2),
				p.WithdrawalNeed.StringFixed(2),
				sumRMDs(p).StringFixed(2),
				p.TotalWithdrawals().StringFixed(2),
				p.OrdinaryIncome.StringFixed(2),
				p.CapitalGains.StringFixed(2),
				p.Tax.TaxableSocialSecurity.StringFixed(2),
				p.TotalTax.StringFixed(2),
				p.TotalNetIncome.StringFixed(2),
				p.Shortfall.StringFixed(2),
				p.TotalPortfolioValue.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	if err := w.Write(nil); err != nil {
		return nil, err
	}
	if err := w.Write(csvSummaryHeader); err != nil {
		return nil, err
	}
	for _, res := range report.Projections {
		if err := w.Write(summaryRow(res)); err != nil {
			return nil, err
		}
	}

	if mc := report.MonteCarlo; mc != nil {
		rows := [][]string{
			nil,
			{"MonteCarloScenario", "Runs", "Years", "SuccessRate", "P10", "Median", "P90"},
			{
				mc.ScenarioName,
				strconv.Itoa(mc.NumRuns),
				strconv.Itoa(mc.MaxYears),
				mc.SuccessRate.StringFixed(2),
				mc.Percentile10Value.StringFixed(2),
				mc.MedianFinalValue.StringFixed(2),
				mc.Percentile90Value.StringFixed(2),
			},
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func summaryRow(res *domain.ProjectionResult) []string {
	failure := ""
	if res.FailureYear != nil {
		failure = strconv.Itoa(*res.FailureYear)
	}
	return []string{
		res.ScenarioName,
		strconv.FormatBool(res.Success),
		failure,
		strconv.Itoa(res.YearsSimulated),
		res.StartingPortfolioValue.StringFixed(2),
		res.FinalPortfolioValue.StringFixed(2),
		res.TotalWithdrawals.StringFixed(2),
		res.TotalTaxesPaid.StringFixed(2),
	}
}
