package importer

// Profile describes one CSV layout. Adding a format is adding a Profile to
// profiles.
type Profile struct {
	Name        string
	Comma       rune
	DateCol     string
	CategoryCol string
	DescCol     string
	AmountCol   string
	DateLayouts []string
	// DecimalComma selects "1.234,56" amounts instead of "1,234.56".
	DecimalComma bool
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.CategoryCol, p.DescCol, p.AmountCol}
}

const (
	ProfileStandard = "standard"
	ProfileEuropean = "european"
)

// profiles are tried in order during auto-detection.
var profiles = []Profile{
	{
		Name:         ProfileEuropean,
		Comma:        ';',
		DateCol:      "Data",
		CategoryCol:  "Categoria",
		DescCol:      "Descrição",
		AmountCol:    "Montante",
		DateLayouts:  []string{"02-01-2006", "02/01/2006"},
		DecimalComma: true,
	},
	{
		Name:        ProfileStandard,
		Comma:       ',',
		DateCol:     "Date",
		CategoryCol: "Category",
		DescCol:     "Description",
		AmountCol:   "Amount",
		DateLayouts: []string{"2006-01-02", "01/02/2006"},
	},
}

func lookupProfile(name string) (Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}

	return Profile{}, false
}
