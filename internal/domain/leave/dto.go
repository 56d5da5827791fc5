package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SetBalancesRequest struct {
	EmployeeID string                       `json:"emp_id"`
	Year       int                          `json:"year"`
	Granted    map[Category]decimal.Decimal `json:"granted"`
}

func (r *SetBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id must be a valid employee id",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}
	if len(r.Granted) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "granted",
			Message: "granted must contain at least one category",
		})
	}
	for category, days := range r.Granted {
		if !category.IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "granted",
				Message: fmt.Sprintf("unknown leave category %q", category),
			})
			continue
		}
		if days.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "granted",
				Message: fmt.Sprintf("%s must not be negative", category),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApplyRequest struct {
	EmployeeID  string   `json:"-"`
	Category    Category `json:"leave_type"`
	FromDate    string   `json:"from_date"`
	ToDate      string   `json:"to_date"`
	FromSession Session  `json:"from_session"`
	ToSession   Session  `json:"to_session"`
	Reason      string   `json:"reason"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Category.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is not a known leave category",
		})
	}
	if r.FromSession == "" {
		r.FromSession = SessionFirst
	}
	if r.ToSession == "" {
		r.ToSession = SessionSecond
	}
	if !r.FromSession.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "from_session",
			Message: "from_session must be SESSION_1 or SESSION_2",
		})
	}
	if !r.ToSession.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "to_session",
			Message: "to_session must be SESSION_1 or SESSION_2",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	from, fromErr := time.Parse(DateLayout, r.FromDate)
	if fromErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}
	to, toErr := time.Parse(DateLayout, r.ToDate)
	if toErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
	}
	if fromErr == nil && toErr == nil {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to_date",
				Message: "to_date must not be before from_date",
			})
		} else if from.Equal(to) && r.FromSession == SessionSecond && r.ToSession == SessionFirst {
			errs = append(errs, validator.ValidationError{
				Field:   "to_session",
				Message: "to_session must not be before from_session on a single day",
			})
		} else if from.Year() != to.Year() {
			errs = append(errs, validator.ValidationError{
				Field:   "to_date",
				Message: "leave must not span two calendar years",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WithdrawRequest struct {
	LeaveID    string `json:"leave_id"`
	EmployeeID string `json:"-"`
}

type ReviewRequest struct {
	LeaveID       string `json:"-"`
	Action        Action `json:"action"`
	ResolverEmail string `json:"-"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_id",
			Message: "leave_id is required",
		})
	}
	if r.Action != ActionApprove && r.Action != ActionReject {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be APPROVE or REJECT",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayInput struct {
	Date string `json:"date"`
	Name string `json:"reason"`
}

type SetHolidaysRequest struct {
	Year     int            `json:"year"`
	Month    *int           `json:"month,omitempty"`
	Holidays []HolidayInput `json:"holidays"`
}

// Validate also rejects holidays outside the period being replaced.
func (r *SetHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}
	prefix := fmt.Sprintf("%04d-", r.Year)
	if r.Month != nil {
		if *r.Month < 1 || *r.Month > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12",
			})
		}
		prefix = fmt.Sprintf("%04d-%02d-", r.Year, *r.Month)
	}
	for i, h := range r.Holidays {
		field := fmt.Sprintf("holidays[%d]", i)
		if _, ok := validator.IsValidDate(h.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "date must be in YYYY-MM-DD format",
			})
			continue
		}
		if !strings.HasPrefix(h.Date, prefix) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "date is outside the period being set",
			})
		}
		if validator.IsEmpty(h.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "reason is required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceResponse struct {
	EmployeeID string          `json:"emp_id"`
	Year       int             `json:"year"`
	Category   Category        `json:"leave_type"`
	Granted    decimal.Decimal `json:"granted"`
	Used       decimal.Decimal `json:"used"`
	Balance    decimal.Decimal `json:"balance"`
}

type LeaveResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"emp_id"`
	Category    Category        `json:"leave_type"`
	FromDate    string          `json:"from_date"`
	ToDate      string          `json:"to_date"`
	FromSession Session         `json:"from_session"`
	ToSession   Session         `json:"to_session"`
	Days        decimal.Decimal `json:"days"`
	Reason      string          `json:"reason"`
	Status      Status          `json:"status"`
	AppliedAt   string          `json:"applied_on"`
	ActionAt    *string         `json:"action_date,omitempty"`
	ActionBy    *string         `json:"action_by,omitempty"`
}

type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"reason"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID: b.EmployeeID,
		Year:       b.Year,
		Category:   b.Category,
		Granted:    b.Granted,
		Used:       b.Used,
		Balance:    b.Remaining(),
	}
}

func ToLeaveResponse(r Request, loc *time.Location) LeaveResponse {
	resp := LeaveResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Category:    r.Category,
		FromDate:    r.FromDate,
		ToDate:      r.ToDate,
		FromSession: r.FromSession,
		ToSession:   r.ToSession,
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      r.Status,
		AppliedAt:   r.AppliedAt.In(loc).Format(time.RFC3339),
		ActionBy:    r.ActionBy,
	}
	if r.ActionAt != nil {
		s := r.ActionAt.In(loc).Format(time.RFC3339)
		resp.ActionAt = &s
	}
	return resp
}
