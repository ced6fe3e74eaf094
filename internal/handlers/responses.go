package handlers

import "github.com/abrezinsky/rosterdraw/internal/models"

// DrawStartedResponse is returned when a spin begins without waiting for it
type DrawStartedResponse struct {
	Spinning    bool `json:"spinning"`
	AllowRepeat bool `json:"allow_repeat"`
	Candidates  int  `json:"candidates"`
}

// DrawResultResponse is returned when the caller waited for the winner
type DrawResultResponse struct {
	Winner models.Participant `json:"winner"`
	State  models.DrawState   `json:"state"`
}

// DrawResultsResponse lists archived winners
type DrawResultsResponse struct {
	Results []models.DrawRecord `json:"results"`
}

// GroupRunsResponse lists archived partition runs
type GroupRunsResponse struct {
	Runs []models.GroupRun `json:"runs"`
}
