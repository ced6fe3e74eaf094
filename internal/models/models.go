package models

import "time"

// Participant is one person on the roster. ID is assigned at ingestion and is the
// identity for every set operation; Name is display only and may repeat.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is one team produced by a partition run
type Group struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Motto   string        `json:"motto"`
	Members []Participant `json:"members"`
}

// RosterSummary is what the list tab shows about the current roster
type RosterSummary struct {
	Participants   []Participant `json:"participants"`
	Total          int           `json:"total"`
	Unique         int           `json:"unique"`
	DuplicateNames []string      `json:"duplicate_names"`
}

// DrawState is a read-only snapshot of the draw engine
type DrawState struct {
	Pool        []Participant `json:"pool"`
	PoolSize    int           `json:"pool_size"`
	RosterSize  int           `json:"roster_size"`
	AllowRepeat bool          `json:"allow_repeat"`
	History     []Participant `json:"history"`
	LastWinner  *Participant  `json:"last_winner,omitempty"`
	Spinning    bool          `json:"spinning"`
}

// GroupSet is the result of the most recent partition run
type GroupSet struct {
	RunID       int64     `json:"run_id,omitempty"`
	GroupSize   int       `json:"group_size"`
	Groups      []Group   `json:"groups"`
	FellBack    bool      `json:"fell_back"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DrawRecord is an archived winner
type DrawRecord struct {
	ID              int64     `json:"id"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	AllowRepeat     bool      `json:"allow_repeat"`
	DrawnAt         time.Time `json:"drawn_at"`
}

// GroupRun is an archived partition run with its members flattened
type GroupRun struct {
	ID          int64     `json:"id"`
	GroupSize   int       `json:"group_size"`
	GroupCount  int       `json:"group_count"`
	FellBack    bool      `json:"fell_back"`
	GeneratedAt time.Time `json:"generated_at"`
	Groups      []Group   `json:"groups,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket message types
const (
	MsgSnapshot      = "snapshot"
	MsgRosterUpdated = "roster_updated"
	MsgDrawStarted   = "draw_started"
	MsgDrawTick      = "draw_tick"
	MsgDrawResult    = "draw_result"
	MsgDrawState     = "draw_state"
	MsgGroupsReady   = "groups_ready"
)

// DrawTick is the payload of a draw_tick message
type DrawTick struct {
	Tick  int         `json:"tick"`
	Total int         `json:"total"`
	Shown Participant `json:"shown"`
}

// DrawStarted is the payload of a draw_started message
type DrawStarted struct {
	AllowRepeat bool `json:"allow_repeat"`
	Candidates  int  `json:"candidates"`
}

// DrawResult is the payload of a draw_result message
type DrawResult struct {
	Winner Participant `json:"winner"`
	State  DrawState   `json:"state"`
}

// Snapshot is sent to every new websocket client
type Snapshot struct {
	Roster RosterSummary `json:"roster"`
	Draw   DrawState     `json:"draw"`
	Groups *GroupSet     `json:"groups,omitempty"`
}
