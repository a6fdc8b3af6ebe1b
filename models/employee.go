package models

import (
	"strings"

	"github.com/goccy/go-json"
)

const (
	EmployeeActive    = "active"
	EmployeeIdle      = "idle"
	EmployeeOffline   = "offline"
	EmployeeInMeeting = "in-meeting"
)

// Employee merges a record from the external user directory with the runtime
// state this service owns (status, last known location, current task).
type Employee struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Designation string    `json:"designation,omitempty" bson:"designation,omitempty"`
	Company     string    `json:"company,omitempty" bson:"company,omitempty"`
	Status      string    `json:"status" bson:"status"`
	Location    *Location `json:"location,omitempty" bson:"location,omitempty"`
	LastUpdate  string    `json:"lastUpdate,omitempty" bson:"lastUpdate,omitempty"`
	CurrentTask string    `json:"currentTask,omitempty" bson:"currentTask,omitempty"`
	SyncedAt    string    `json:"syncedAt,omitempty" bson:"syncedAt,omitempty"`
}

func (e Employee) GetID() string { return e.ID }

// IsEmployeeStatus reports whether s is a known employee status.
func IsEmployeeStatus(s string) bool {
	switch s {
	case EmployeeActive, EmployeeIdle, EmployeeOffline, EmployeeInMeeting:
		return true
	}
	return false
}

// ExternalUser is one record as returned by the external user directory.
type ExternalUser struct {
	ID          FlexString `json:"id"`
	UserID      FlexString `json:"userId"`
	Name        string     `json:"name"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       FlexString `json:"phone"`
	Mobile      FlexString `json:"mobile"`
	Designation string     `json:"designation"`
	Company     string     `json:"company"`
	CompanyName string     `json:"companyName"`
}

// FlexString decodes a JSON string or number into a string; the directory is not consistent.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		*f = FlexString(unquoted)
	default:
		*f = FlexString(s)
	}
	return nil
}
