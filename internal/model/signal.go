package model

// TriggerType indicates what started an analysis run.
type TriggerType string

const (
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerCommand   TriggerType = "COMMAND"
	TriggerManual    TriggerType = "MANUAL"
)

// StrategyKind names a simulator.
type StrategyKind string

const (
	StrategyDCA       StrategyKind = "dca"
	StrategyDip       StrategyKind = "dip"
	StrategyTrend     StrategyKind = "trend"
	StrategyTrendProj StrategyKind = "trend_projection"
)
