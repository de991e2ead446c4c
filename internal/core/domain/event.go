package domain

import "time"

// AccountEventType names what happened to an account.
type AccountEventType string

const (
	EventCustomerRegistered AccountEventType = "customer_registered"
	EventCompanyRegistered  AccountEventType = "company_registered"
	EventLoginSucceeded     AccountEventType = "login_succeeded"
	EventLoginFailed        AccountEventType = "login_failed"
)

// AccountEvent is an audit trail entry for sign-ups and logins.
type AccountEvent struct {
	Type      AccountEventType
	UserID    string // empty when the account could not be resolved
	Email     string
	Timestamp time.Time
}
