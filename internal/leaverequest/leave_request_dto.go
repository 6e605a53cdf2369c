package leaverequest

import "time"

type CreateLeaveRequestRequest struct {
	LeaveType string `json:"leave_type" form:"leave_type" binding:"required"`
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required"`
	Reason    string `json:"reason" form:"reason"`
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type LeaveRequestResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	LeaveTypeID     string   `json:"leave_type_id"`
	LeaveType       string   `json:"leave_type,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	DaysRequested   string   `json:"days_requested"`
	Reason          string   `json:"reason,omitempty"`
	Status          string   `json:"status"`
	ApproverID      *string  `json:"approver_id,omitempty"`
	ApproverComment *string  `json:"approver_comment,omitempty"`
	DecidedAt       *string  `json:"decided_at,omitempty"`
	DocumentURLs    []string `json:"document_urls"`
	CreatedAt       string   `json:"created_at"`
}

func mapToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		LeaveTypeID:   r.LeaveTypeID.String(),
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		DaysRequested: r.DaysRequested.StringFixed(2),
		Reason:        r.Reason,
		Status:        r.Status,
		DocumentURLs:  r.DocumentURLs,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ApproverID != nil {
		v := r.ApproverID.String()
		resp.ApproverID = &v
	}
	if r.ApproverComment != nil {
		resp.ApproverComment = r.ApproverComment
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if resp.DocumentURLs == nil {
		resp.DocumentURLs = []string{}
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, mapToResponse(r))
	}
	return resp
}
