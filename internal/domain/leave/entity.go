package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type Category string

const (
	CategoryLossOfPay       Category = "Loss of Pay"
	CategoryOptionalHoliday Category = "Optional Holiday"
	CategoryCompOff         Category = "Comp Off"
	CategoryPaternity       Category = "Paternity Leave"
	CategoryWFHContract     Category = "Work From Home - Contract"
	CategoryPaidLeave       Category = "Paid Leave"
)

// Categories lists every leave category in display order.
func Categories() []Category {
	return []Category{
		CategoryLossOfPay,
		CategoryOptionalHoliday,
		CategoryCompOff,
		CategoryPaternity,
		CategoryWFHContract,
		CategoryPaidLeave,
	}
}

func (c Category) IsValid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// RequiresBalance reports whether applying for c is limited by the granted balance.
func (c Category) RequiresBalance() bool {
	return c != CategoryLossOfPay
}

// Session is a half of a working day.
type Session string

const (
	SessionFirst  Session = "SESSION_1"
	SessionSecond Session = "SESSION_2"
)

func (s Session) IsValid() bool {
	return s == SessionFirst || s == SessionSecond
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// Balance is the leave granted to an employee for one category and year.
// Used grows as requests are approved.
type Balance struct {
	EmployeeID string
	Year       int
	Category   Category
	Granted    decimal.Decimal
	Used       decimal.Decimal
	UpdatedAt  time.Time
}

func (b Balance) Remaining() decimal.Decimal {
	return b.Granted.Sub(b.Used)
}

type Request struct {
	ID          string
	EmployeeID  string
	Category    Category
	FromDate    string
	ToDate      string
	FromSession Session
	ToSession   Session
	Days        decimal.Decimal
	Reason      string
	Status      Status
	AppliedAt   time.Time
	ActionAt    *time.Time
	ActionBy    *string
}

// Year is the balance year a request is charged against.
func (r Request) Year() int {
	t, err := time.Parse(DateLayout, r.FromDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

type Holiday struct {
	Date string
	Year int
	Name string
}

var half = decimal.NewFromFloat(0.5)

// CountDays returns the number of leave days between from and to inclusive.
// Holidays are not counted. Starting in the second session or ending in the
// first removes half a day from that boundary day.
func CountDays(from, to time.Time, fromSession, toSession Session, holidays map[string]bool) decimal.Decimal {
	days := decimal.Zero
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !holidays[d.Format(DateLayout)] {
			days = days.Add(decimal.NewFromInt(1))
		}
	}
	if days.IsZero() {
		return days
	}
	if fromSession == SessionSecond && !holidays[from.Format(DateLayout)] {
		days = days.Sub(half)
	}
	if toSession == SessionFirst && !holidays[to.Format(DateLayout)] {
		days = days.Sub(half)
	}
	if days.IsNegative() {
		return decimal.Zero
	}
	return days
}
