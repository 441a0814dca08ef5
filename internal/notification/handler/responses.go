package handler

import (
	"praxis/internal/notification/sequencer"
	vishandler "praxis/internal/visibility/handler"
)

// StateResponse is the wire shape of a carousel snapshot.
type StateResponse struct {
	Phase   string                      `json:"phase"`
	Queue   []string                    `json:"queue,omitempty"`
	Cursor  int                         `json:"cursor"`
	Current *vishandler.MessageResponse `json:"current,omitempty"`
}

func FromState(st sequencer.State) StateResponse {
	resp := StateResponse{
		Phase:  string(st.Phase),
		Cursor: st.Cursor,
	}
	for _, msgID := range st.Queue {
		resp.Queue = append(resp.Queue, msgID.String())
	}
	if st.Current != nil {
		current := vishandler.FromMessage(*st.Current)
		resp.Current = &current
	}
	return resp
}

// UnreadCountResponse is the wire shape of the badge count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
