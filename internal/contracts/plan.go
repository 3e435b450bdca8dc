package contracts

// PlanCategory groups plan items
type PlanCategory string

const (
	CategoryProfit      PlanCategory = "profit"
	CategoryRisk        PlanCategory = "risk"
	CategoryExpiry      PlanCategory = "expiry"
	CategoryOpportunity PlanCategory = "opportunity"
	CategoryEfficiency  PlanCategory = "efficiency"
)

// Plan priorities (0 highest)
const (
	PriorityProfitRisk  = 0
	PriorityExpiry      = 1
	PriorityOpportunity = 2
	PriorityDeadMoney   = 3
)

// PlanItem is one row of the prioritized weekly plan
type PlanItem struct {
	Priority int          `json:"priority"`
	Category PlanCategory `json:"category"`
	Action   string       `json:"action"`
	Detail   string       `json:"detail,omitempty"`
	Urgency  Urgency      `json:"urgency"`
}
