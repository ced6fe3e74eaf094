package handlers

// RosterTextRequest replaces the roster from free text, one name per line
type RosterTextRequest struct {
	Text string `json:"text"`
}

// ConfirmRequest acknowledges a destructive action
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// DrawModeRequest switches between no-repeat and repeat draws
type DrawModeRequest struct {
	AllowRepeat bool `json:"allow_repeat"`
}

// GroupsRequest starts a partition run; zero uses the saved default size
type GroupsRequest struct {
	GroupSize int `json:"group_size"`
}
