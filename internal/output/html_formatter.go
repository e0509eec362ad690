package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/drawdown/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"risk": RiskLevel,
	"rmd":  sumRMDs,
	"withdrawn": func(p domain.WithdrawalPlan) string {
		return FormatCurrency(p.TotalWithdrawals())
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
