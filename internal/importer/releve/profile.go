package releve

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montant" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a bank's CSV relevé. Adding
// support for another bank is adding a Profile here.
type Profile struct {
	Name       string
	DateCol    string
	LabelCol   string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

// requiredCols returns the columns that must all be present for the
// profile to match a header row.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.LabelCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of layouts tried during auto-detection;
// more specific layouts first.
var profiles = []Profile{
	{
		Name:       "debit-credit",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSplit,
		DebitCol:   "Débit",
		CreditCol:  "Crédit",
	},
	{
		Name:       "montant",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSingle,
		AmountCol:  "Montant",
	},
	{
		Name:       "operation-montant",
		DateCol:    "Date opération",
		LabelCol:   "Libellé opération",
		AmountMode: amountSingle,
		AmountCol:  "Montant",
	},
}
