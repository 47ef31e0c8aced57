package model

// Position is the trend-following state at a time step.
type Position string

const (
	PositionLong Position = "long"
	PositionFlat Position = "flat"
)

// DcaScheduleEntry is one contribution in a DCA projection.
type DcaScheduleEntry struct {
	Date            string  `json:"date"`
	Price           float64 `json:"price"`
	Contribution    float64 `json:"contribution"`
	Units           float64 `json:"units"`
	CumulativeUnits float64 `json:"cumulativeUnits"`
	CumulativeCost  float64 `json:"cumulativeCost"`
	CostBasis       float64 `json:"costBasis"`
}

// DcaProjection is the strategy-specific part of a DCA package.
type DcaProjection struct {
	Schedule           []DcaScheduleEntry `json:"schedule"`
	TotalContribution  float64            `json:"totalContribution"`
	ProjectedHoldings  float64            `json:"projectedHoldings"`
	ProjectedValue     float64            `json:"projectedValue"`
	AverageCostBasis   float64            `json:"averageCostBasis"`
	ProjectedReturnPct float64            `json:"projectedReturnPct"`
}

// DipTrigger is a historical day whose drawdown crossed the dip threshold.
type DipTrigger struct {
	Date     string  `json:"date"`
	Drawdown float64 `json:"drawdown"`
	Price    float64 `json:"price"`
}

// DipWindow is a future buying window with its budget share.
type DipWindow struct {
	WindowStart   string  `json:"windowStart"`
	WindowEnd     string  `json:"windowEnd"`
	Allocation    float64 `json:"allocation"`
	ExpectedPrice float64 `json:"expectedPrice"`
}

// DipBuy is a single spaced buy in the dip overlay.
type DipBuy struct {
	Index       int     `json:"index"`
	Date        string  `json:"date"`
	Price       float64 `json:"price"`
	DrawdownPct float64 `json:"drawdownPct"`
	Amount      float64 `json:"amount"`
	Quantity    float64 `json:"quantity"`
}

// DipOverlay is the point-level dip simulation used for chart overlays.
type DipOverlay struct {
	Buys          []DipBuy `json:"buys"`
	TotalInvested float64  `json:"totalInvested"`
	TotalQuantity float64  `json:"totalQuantity"`
	AveragePrice  float64  `json:"averagePrice"`
}

// DipProjection is the strategy-specific part of a buy-the-dip package.
type DipProjection struct {
	Triggers            []DipTrigger `json:"triggers"`
	Windows             []DipWindow  `json:"windows"`
	AverageIntervalDays float64      `json:"averageIntervalDays"`
	AllocatedBudget     float64      `json:"allocatedBudget"`
	UnallocatedBudget   float64      `json:"unallocatedBudget"`
	Overlay             DipOverlay   `json:"overlay"`
}

// TrendState is the crossover state at a time step.
type TrendState struct {
	Date     string   `json:"date"`
	ShortMA  float64  `json:"shortMa"`
	LongMA   float64  `json:"longMa"`
	Position Position `json:"position"`
}

// EquityPoint is strategy and buy-and-hold equity at a time step.
type EquityPoint struct {
	Date     string  `json:"date"`
	Strategy float64 `json:"strategy"`
	Hodl     float64 `json:"hodl"`
	Cash     float64 `json:"cash"`
	Units    float64 `json:"units"`
}

// TrendProjection is the strategy-specific part of a trend-following package.
type TrendProjection struct {
	States          []TrendState  `json:"states"`
	Equity          []EquityPoint `json:"equity"`
	FinalEquity     float64       `json:"finalEquity"`
	HodlEquity      float64       `json:"hodlEquity"`
	TotalReturnPct  float64       `json:"totalReturnPct"`
	HodlReturnPct   float64       `json:"hodlReturnPct"`
	Sharpe          float64       `json:"sharpe"`
	MaxDrawdownPct  float64       `json:"maxDrawdownPct"`
	TimeInMarketPct float64       `json:"timeInMarketPct"`
	CrossoverCount  int           `json:"crossoverCount"`
	ForecastPath    []PathPoint   `json:"forecastPath,omitempty"`
	// ForecastStart is the index in States where forecast points begin; -1 when none.
	ForecastStart int `json:"forecastStart"`
}
