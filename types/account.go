package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Role is the account kind a request acts on.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole normalizes a client supplied role. Unknown values report false.
func ParseRole(raw string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleTeacher, RoleStudent, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

// Collection returns the record collection that stores accounts of this role.
// Admins are teacher rows identified by email.
func (r Role) Collection() Collection {
	if r == RoleStudent {
		return CollectionStudents
	}
	return CollectionTeachers
}

// Tag is the upper-case label used in activity descriptions.
func (r Role) Tag() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleStudent:
		return "STUDENT"
	default:
		return "FACULTY"
	}
}

// Collection identifies one of the two account tables.
type Collection int

const (
	CollectionTeachers Collection = iota
	CollectionStudents
)

func (c Collection) String() string {
	if c == CollectionStudents {
		return "students"
	}
	return "teachers"
}

// TeacherStatus gates teacher logins.
type TeacherStatus string

const (
	StatusPending  TeacherStatus = "pending"
	StatusActive   TeacherStatus = "active"
	StatusInactive TeacherStatus = "inactive"
)

// Teacher represents a faculty account. The admin is a teacher row.
type Teacher struct {
	ID int64 `json:"id" db:"id"`

	FullName string `json:"full_name" db:"full_name"`

	Email string `json:"email" db:"email"`

	// Password holds the stored credential. It is never serialized.
	Password string `json:"-" db:"password"`

	Status TeacherStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Student represents a learner account.
type Student struct {
	ID int64 `json:"id" db:"id"`

	FullName string `json:"full_name" db:"full_name"`

	Email string `json:"email" db:"email"`

	Password string `json:"-" db:"password"`

	Course string `json:"course" db:"course"`

	YearLevel string `json:"year_level" db:"year_level"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Account is the collection-independent view used by login, edit and
// delete. Status is empty for students; Course and YearLevel are empty
// for teachers.
type Account struct {
	ID        int64
	FullName  string
	Email     string
	Password  string
	Status    TeacherStatus
	Course    string
	YearLevel string
	CreatedAt time.Time
}

// FlexString accepts a JSON string or number. Web forms send year levels
// and ids either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int64 parses the value as a positive id.
func (f FlexString) Int64() (int64, bool) {
	id, err := strconv.ParseInt(string(f), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
