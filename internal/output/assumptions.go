package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Federal tax: 2024 brackets and standard deduction held constant (no indexing)",
	"Long-term gains and qualified dividends stacked on ordinary income (0/15/20%)",
	"Social Security taxed under the 50%/85% provisional income tiers",
	"RMDs per SECURE 2.0 start ages and the IRS Uniform Lifetime Table",
	"No state or local income tax; no early-withdrawal penalties",
	"Account growth applied once at the end of each year",
}
