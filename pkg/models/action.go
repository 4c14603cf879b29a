package models

// ActionType identifies a side-effecting operation a workflow can run.
// Values are storage constants; do not rename.
type ActionType string

const (
	ActionAssignToUser ActionType = "ASSIGN_TO_USER"
	ActionAssignToTeam ActionType = "ASSIGN_TO_TEAM"
	ActionChangeStatus ActionType = "CHANGE_STATUS"
	ActionSendEmail    ActionType = "SEND_EMAIL"
	ActionSendWhatsApp ActionType = "SEND_WHATSAPP"
	ActionCreateTask   ActionType = "CREATE_TASK"
	ActionAddTag       ActionType = "ADD_TAG"
	ActionRemoveTag    ActionType = "REMOVE_TAG"
	ActionUpdateField  ActionType = "UPDATE_FIELD"
	ActionSendWebhook  ActionType = "SEND_WEBHOOK"
)

// Action is one entry in a workflow's ordered action list. Config is
// action-type-specific (e.g. ASSIGN_TO_USER requires "user_id").
type Action struct {
	Type   ActionType     `json:"type"   validate:"required"`
	Config map[string]any `json:"config"`
}

// ActionResult is the normalized outcome of one action attempt. A failed
// action carries its error here; it never aborts the remaining actions.
type ActionResult struct {
	Action  Action `json:"action"`
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}
