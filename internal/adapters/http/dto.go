package http

import "github.com/randomtoy/dicegame/internal/ports"

// ViewResponse is the JSON shape of a view snapshot, used by the REST
// endpoints and as the SSE event payload.
type ViewResponse struct {
	ViewID      string   `json:"view_id"`
	Kind        string   `json:"kind"`
	Rolling     bool     `json:"rolling"`
	Values      []int    `json:"values"`
	Sum         *int     `json:"sum"`
	Rolls       int      `json:"rolls"`
	Display     string   `json:"display"`
	DiceDisplay []string `json:"dice_display"`
}

type MountRequest struct {
	Kind string `json:"kind"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// pageData is what the HTML templates render.
type pageData struct {
	Snapshot ports.ViewSnapshot
}

func toResponse(s ports.ViewSnapshot) ViewResponse {
	resp := ViewResponse{
		ViewID:      s.ViewID,
		Kind:        string(s.Kind),
		Rolling:     s.Rolling,
		Values:      s.Values,
		Rolls:       s.Rolls,
		Display:     s.Display,
		DiceDisplay: s.DiceDisplay,
	}
	if s.HasSum {
		sum := s.Sum
		resp.Sum = &sum
	}
	return resp
}
