package models

// TriggerKind identifies the domain event that fires matching workflows.
// Values are storage constants; do not rename.
type TriggerKind string

const (
	TriggerLeadCreated       TriggerKind = "LEAD_CREATED"
	TriggerLeadUpdated       TriggerKind = "LEAD_UPDATED"
	TriggerLeadStatusChanged TriggerKind = "LEAD_STATUS_CHANGED"
	TriggerLeadAssigned      TriggerKind = "LEAD_ASSIGNED"
	TriggerDealCreated       TriggerKind = "DEAL_CREATED"
	TriggerDealUpdated       TriggerKind = "DEAL_UPDATED"
	TriggerDealStageChanged  TriggerKind = "DEAL_STAGE_CHANGED"
	TriggerTaskCreated       TriggerKind = "TASK_CREATED"
	TriggerTaskCompleted     TriggerKind = "TASK_COMPLETED"
)

var triggerKinds = map[TriggerKind]struct{}{
	TriggerLeadCreated:       {},
	TriggerLeadUpdated:       {},
	TriggerLeadStatusChanged: {},
	TriggerLeadAssigned:      {},
	TriggerDealCreated:       {},
	TriggerDealUpdated:       {},
	TriggerDealStageChanged:  {},
	TriggerTaskCreated:       {},
	TriggerTaskCompleted:     {},
}

// Valid reports whether k is one of the known trigger kinds.
func (k TriggerKind) Valid() bool {
	_, ok := triggerKinds[k]

	return ok
}

// TriggerKinds returns all known trigger kinds.
func TriggerKinds() []TriggerKind {
	kinds := make([]TriggerKind, 0, len(triggerKinds))
	for k := range triggerKinds {
		kinds = append(kinds, k)
	}

	return kinds
}
