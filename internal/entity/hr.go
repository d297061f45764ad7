package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusHalfDay = "half_day"
)

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type Employee struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeCode string          `json:"employee_code" gorm:"size:50;not null;uniqueIndex"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	Designation  string          `json:"designation" gorm:"size:64"`
	Department   string          `json:"department" gorm:"size:64;index"`
	Phone        string          `json:"phone" gorm:"size:20"`
	Email        string          `json:"email" gorm:"size:128"`
	BasicSalary  decimal.Decimal `json:"basic_salary" gorm:"type:decimal(12,2);not null"`
	OvertimeRate decimal.Decimal `json:"overtime_rate" gorm:"type:decimal(12,2);default:0"` // per hour
	JoinedAt     *time.Time      `json:"joined_at"`
	Status       string          `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Attendance is one row per employee per calendar day.
type Attendance struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeID    string     `json:"employee_id" gorm:"type:uuid;not null;index:idx_attendance_emp_date,unique"`
	Date          string     `json:"date" gorm:"type:date;not null;index:idx_attendance_emp_date,unique"` // YYYY-MM-DD
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	Status        string     `json:"status" gorm:"size:20;not null;default:present"`
	OvertimeHours float64    `json:"overtime_hours" gorm:"type:decimal(6,2);default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}

type LeaveRequest struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeID string     `json:"employee_id" gorm:"type:uuid;not null;index"`
	LeaveType  string     `json:"leave_type" gorm:"size:20;not null"` // annual, casual, medical
	StartDate  string     `json:"start_date" gorm:"type:date;not null"`
	EndDate    string     `json:"end_date" gorm:"type:date;not null"`
	Reason     string     `json:"reason" gorm:"type:text"`
	Status     string     `json:"status" gorm:"size:20;not null;default:pending"`
	ReviewedBy string     `json:"reviewed_by" gorm:"size:64"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type SalaryRecord struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeID  string          `json:"employee_id" gorm:"type:uuid;not null;index:idx_salary_emp_month,unique"`
	Month       string          `json:"month" gorm:"size:7;not null;index:idx_salary_emp_month,unique"` // YYYY-MM
	Basic       decimal.Decimal `json:"basic" gorm:"type:decimal(12,2);not null"`
	Overtime    decimal.Decimal `json:"overtime" gorm:"type:decimal(12,2);default:0"`
	Deductions  decimal.Decimal `json:"deductions" gorm:"type:decimal(12,2);default:0"`
	NetPay      decimal.Decimal `json:"net_pay" gorm:"type:decimal(12,2);not null"`
	GeneratedBy string          `json:"generated_by" gorm:"size:64"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}
