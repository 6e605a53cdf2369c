package events

import "time"

const LeaveRequestLifecycleTopic = "leave.request.lifecycle.v1"

const (
	EventTypeLeaveRequestSubmitted = "leave.request.submitted"
	EventTypeLeaveRequestApproved  = "leave.request.approved"
	EventTypeLeaveRequestRejected  = "leave.request.rejected"
)

type LeaveRequestLifecycleEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	Status      string    `json:"status"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Days        string    `json:"days"`
	ApproverID  string    `json:"approver_id,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
