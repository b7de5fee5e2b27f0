// Package policy holds the one authorization table for timesheet actions.
// Every endpoint that reads or changes a timesheet asks Authorize before touching it.
package policy

import (
	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// Action is something an actor wants to do with a timesheet.
type Action string

const (
	ActionView        Action = "view"
	ActionEditEntries Action = "edit_entries"
	ActionSubmit      Action = "submit"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionUnapprove   Action = "unapprove"
	ActionRecalculate Action = "recalculate"
	ActionDelete      Action = "delete"
)

// Messages returned to clients.
const (
	MsgForbidden             = "Forbidden"
	MsgTimesheetLocked       = "Timesheet is locked"
	MsgRunningTimer          = "Cannot submit timesheet with a running timer"
	MsgCannotSubmit          = "Timesheet cannot be submitted in its current status"
	MsgOnlySubmittedApprove  = "Only submitted timesheets can be approved"
	MsgOnlySubmittedReject   = "Only submitted timesheets can be rejected"
	MsgOnlyApprovedUnapprove = "Only approved timesheets can be unapproved"
	MsgDeleteApproved        = "Cannot delete approved timesheet"
	MsgDeleteLocked          = "Cannot delete locked timesheet"
	MsgUnknownAction         = "Invalid action"
)

type rule struct {
	// actor may perform the action on ts
	actor func(ts *domain.Timesheet, id domain.Identity) bool
	// state returns a non-nil error when ts is in the wrong state for the action
	state func(ts *domain.Timesheet, id domain.Identity) error
}

func ownerOrReviewer(ts *domain.Timesheet, id domain.Identity) bool {
	return ts.IsOwnedBy(id.UserID) || id.CanReviewOthers()
}

func ownerOrAdmin(ts *domain.Timesheet, id domain.Identity) bool {
	return ts.IsOwnedBy(id.UserID) || id.IsAdmin()
}

func reviewer(_ *domain.Timesheet, id domain.Identity) bool {
	return id.CanReviewOthers()
}

func admin(_ *domain.Timesheet, id domain.Identity) bool {
	return id.IsAdmin()
}

func anyState(*domain.Timesheet, domain.Identity) error { return nil }

var rules = map[Action]rule{
	ActionView: {actor: ownerOrReviewer, state: anyState},
	ActionEditEntries: {
		actor: ownerOrReviewer,
		state: func(ts *domain.Timesheet, id domain.Identity) error {
			if ts.IsLocked && !id.IsAdmin() {
				return apperrors.NewForbiddenError(MsgTimesheetLocked)
			}
			return nil
		},
	},
	ActionSubmit: {
		actor: ownerOrAdmin,
		state: func(ts *domain.Timesheet, _ domain.Identity) error {
			switch ts.Status {
			case domain.StatusUnsubmitted, domain.StatusRejected, domain.StatusSubmitted:
			default:
				return apperrors.NewValidationFailedError(MsgCannotSubmit)
			}
			if len(ts.RunningEntryKeys()) > 0 {
				return apperrors.NewValidationFailedError(MsgRunningTimer)
			}
			return nil
		},
	},
	ActionApprove: {
		actor: reviewer,
		state: requireStatus(domain.StatusSubmitted, MsgOnlySubmittedApprove),
	},
	ActionReject: {
		actor: reviewer,
		state: requireStatus(domain.StatusSubmitted, MsgOnlySubmittedReject),
	},
	ActionUnapprove: {
		actor: admin,
		state: requireStatus(domain.StatusApproved, MsgOnlyApprovedUnapprove),
	},
	ActionRecalculate: {actor: ownerOrReviewer, state: anyState},
	ActionDelete: {
		actor: admin,
		state: func(ts *domain.Timesheet, _ domain.Identity) error {
			if ts.Status == domain.StatusApproved {
				return apperrors.NewValidationFailedError(MsgDeleteApproved)
			}
			if ts.IsLocked {
				return apperrors.NewValidationFailedError(MsgDeleteLocked)
			}
			return nil
		},
	},
}

func requireStatus(want domain.TimesheetStatus, msg string) func(*domain.Timesheet, domain.Identity) error {
	return func(ts *domain.Timesheet, _ domain.Identity) error {
		if ts.Status != want {
			return apperrors.NewValidationFailedError(msg)
		}
		return nil
	}
}

// Authorize decides whether actor may perform action on ts.
// Role and ownership are checked before state, so a caller without rights never
// learns the timesheet's status. It returns a 403 AppError for the actor and lock
// checks, and a 400 AppError for invalid transitions.
func Authorize(action Action, ts *domain.Timesheet, actor domain.Identity) error {
	r, ok := rules[action]
	if !ok {
		return apperrors.NewValidationFailedError(MsgUnknownAction)
	}
	if actor.UserID == "" || !r.actor(ts, actor) {
		return apperrors.NewForbiddenError(MsgForbidden)
	}
	return r.state(ts, actor)
}

// CanListFor reports whether actor may list timesheets owned by userID.
func CanListFor(userID string, actor domain.Identity) bool {
	return userID == actor.UserID || actor.CanReviewOthers()
}
