package model

// Mapping names the workbook columns the estimator reads. Name fields may list
// alternatives separated by "|" (e.g. "Size|Dimensions"); resolution happens in
// the handler/service layer against the actual headers.
type Mapping struct {
	DimKey      string // dimension string column ("500mm x 700mm")
	MaterialKey string // material / stock description column
	VolumeKey   string // total-volume (quantity) column
	LotKey      string // optional lot identifier column
	ItemKey     string // optional item description column
	RunsKey     string // optional runs-per-annum column
	RunsCol     int    // 1-based positional fallback for runs-per-annum, 0 = off
	HeaderRow   int    // header row (1-based)
	ForceSides  string // "double" or "single" overrides per-line inference
}

// Line is one workbook row after parsing, before pricing.
type Line struct {
	Index       int               `json:"index"`
	Dimensions  string            `json:"dimensions"`
	Material    string            `json:"material"`  // raw stock description cell
	StockName   string            `json:"stockName"` // first comma-delimited segment
	DoubleSided bool              `json:"doubleSided"`
	Quantity    *float64          `json:"quantity,omitempty"` // nil when unparseable
	AreaM2      *float64          `json:"areaM2,omitempty"`   // per unit, nil when unparseable
	Lot         string            `json:"lot,omitempty"`
	Item        string            `json:"item,omitempty"`
	RunsPA      *float64          `json:"runsPerAnnum,omitempty"`
	Raw         map[string]string `json:"-"` // original record, for export passthrough
}

// PricedLine is a Line with the resolved group and computed value attached.
// Derived on every compute pass, never stored.
type PricedLine struct {
	Line
	Group      string  `json:"group"`
	Friendly   string  `json:"friendly"`
	UnitPrice  float64 `json:"unitPrice"`
	PriceFrom  string  `json:"priceFrom"` // "material" | "group" | "none"
	Multiplier float64 `json:"multiplier"`
	Value      float64 `json:"value"`
}

// GroupSummary aggregates priced lines sharing one assigned group.
type GroupSummary struct {
	Group     string  `json:"group"`
	Friendly  string  `json:"friendly"`
	Materials int     `json:"materials"` // distinct material descriptions
	Lines     int     `json:"lines"`
	AreaM2    float64 `json:"areaM2"` // sum of area*qty over lines with both
	UnitPrice float64 `json:"unitPrice"`
	Value     float64 `json:"value"`
}

// GroupingView is one grouping-store entry as shown to the operator.
type GroupingView struct {
	Material      string `json:"material"`
	InitialGroup  string `json:"initialGroup"`
	AssignedGroup string `json:"assignedGroup"`
}

type Result struct {
	Lines          []PricedLine   `json:"lines"`
	Groups         []GroupSummary `json:"groups"`
	Grouping       []GroupingView `json:"grouping"`
	TotalAreaM2    float64        `json:"totalAreaM2"`
	TotalValue     float64        `json:"totalValue"`
	TotalFormatted string         `json:"totalFormatted"`
	LoadingPct     float64        `json:"loadingPct"`
}
