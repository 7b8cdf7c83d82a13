package ports

// ChartValue is one labeled value of a chart.
type ChartValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Boundary to the charting widget. Rendering to a target replaces whatever
// was previously rendered there.
type ChartWidget interface {
	RenderPie(target string, values []ChartValue) error
	RenderBar(target string, values []ChartValue) error
}

// SummaryText holds the formatted scalar summary of a result.
type SummaryText struct {
	TotalCost     string `json:"total_cost"`
	TotalDistance string `json:"total_distance"`
	TotalTime     string `json:"total_time"`
	VehiclesUsed  string `json:"vehicles_used"`
}

// RouteCard is the formatted entry for one route in the route list.
type RouteCard struct {
	Title       string `json:"title"`
	Stops       int    `json:"stops"`
	Distance    string `json:"distance"`
	Time        string `json:"time"`
	Load        string `json:"load"`
	Utilization string `json:"utilization"`
}

// ResultPanel is everything a text view shows for one result.
type ResultPanel struct {
	Summary SummaryText `json:"summary"`
	Routes  []RouteCard `json:"routes"`
}

// Boundary to the textual result views.
type TextView interface {
	ShowResult(panel ResultPanel) error
	ClearResult()
}

// BusyIndicator is the "work in progress" signal shown during an optimize
// round trip.
type BusyIndicator interface {
	SetBusy(busy bool)
}
