// Package alert resolves price alerts linked to drawings and indicators
// into concrete prices, and keeps the alert store and alert log.
package alert

import "time"

// Condition is the comparison an external trigger engine applies
type Condition string

const (
	Crossing     Condition = "crossing"
	CrossingUp   Condition = "crossing_up"
	CrossingDown Condition = "crossing_down"
	GreaterThan  Condition = "greater_than"
	LessThan     Condition = "less_than"
)

// TriggerFrequency limits how often a satisfied condition may fire again
type TriggerFrequency string

const (
	OnlyOnce        TriggerFrequency = "once"
	OncePerBar      TriggerFrequency = "once_per_bar"
	OncePerBarClose TriggerFrequency = "once_per_bar_close"
	OncePerMinute   TriggerFrequency = "once_per_minute"
)

// PriceAlert targets a drawing, an indicator output or a fixed value
type PriceAlert struct {
	ID                  string            `json:"id"`
	Symbol              string            `json:"symbol"`
	DrawingID           string            `json:"drawingId,omitempty"`
	IndicatorID         string            `json:"indicatorId,omitempty"`
	AlertConditionID    string            `json:"alertConditionId,omitempty"`
	ConditionParameters map[string]string `json:"conditionParameters,omitempty"`
	Condition           Condition         `json:"condition"`
	Value               *float64          `json:"value,omitempty"`
	FibLevel            *float64          `json:"fibLevel,omitempty"`
	Message             string            `json:"message"`
	Triggered           bool              `json:"triggered"`
	TriggerFrequency    TriggerFrequency  `json:"triggerFrequency"`
	CreatedAt           time.Time         `json:"createdAt"`
	LastTriggeredAt     *time.Time        `json:"lastTriggeredAt,omitempty"`
}

// OutputParameter selects the indicator output an alert follows
const OutputParameter = "output"

// Output returns the indicator output name, "main" when unset
func (a PriceAlert) Output() string {
	if out := a.ConditionParameters[OutputParameter]; out != "" {
		return out
	}
	return "main"
}

// ValueOnly reports whether the alert follows a fixed price
func (a PriceAlert) ValueOnly() bool {
	return a.DrawingID == "" && a.IndicatorID == ""
}

// Clone returns a copy sharing no pointers with a
func (a PriceAlert) Clone() PriceAlert {
	if a.ConditionParameters != nil {
		params := make(map[string]string, len(a.ConditionParameters))
		for k, v := range a.ConditionParameters {
			params[k] = v
		}
		a.ConditionParameters = params
	}
	if a.Value != nil {
		v := *a.Value
		a.Value = &v
	}
	if a.FibLevel != nil {
		v := *a.FibLevel
		a.FibLevel = &v
	}
	if a.LastTriggeredAt != nil {
		v := *a.LastTriggeredAt
		a.LastTriggeredAt = &v
	}
	return a
}

// Float returns a pointer to v, for the optional numeric fields
func Float(v float64) *float64 { return &v }
