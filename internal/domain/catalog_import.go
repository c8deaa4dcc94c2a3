package domain

// CategoryRef names a category by kind and name in spreadsheet rows.
// An empty Kind matches any kind.
type CategoryRef struct {
	Kind CategoryKind
	Name string
}

// ImportRow is one catalog line read from a spreadsheet.
type ImportRow struct {
	Line       int
	BrandName  string
	Categories []CategoryRef
	Battery    BatteryInput
	// Problems holds cells that could not be parsed; such rows are rejected.
	Problems map[string]string
}

type ImportRowError struct {
	Line int
	Err  string
}

type ImportReport struct {
	Created int
	Updated int
	Errors  []ImportRowError
}
