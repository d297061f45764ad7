package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/repository"
)

type HRService struct {
	repo *repository.HRRepository
}

func NewHRService(repo *repository.HRRepository) *HRService {
	return &HRService{repo: repo}
}

// --- Employees ---

type EmployeeRequest struct {
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name" binding:"required"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	BasicSalary  string `json:"basic_salary" binding:"required"`
	OvertimeRate string `json:"overtime_rate"`
	JoinedAt     string `json:"joined_at"` // YYYY-MM-DD
}

func (s *HRService) CreateEmployee(req EmployeeRequest) (*entity.Employee, error) {
	basic, err := parseMoney(req.BasicSalary, "basic_salary")
	if err != nil {
		return nil, err
	}
	otRate, err := parseMoney(req.OvertimeRate, "overtime_rate")
	if err != nil {
		return nil, err
	}
	code := req.EmployeeCode
	if code == "" {
		code = fmt.Sprintf("EMP-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	}
	emp := &entity.Employee{
		EmployeeCode: code,
		Name:         req.Name,
		Designation:  req.Designation,
		Department:   req.Department,
		Phone:        req.Phone,
		Email:        req.Email,
		BasicSalary:  basic,
		OvertimeRate: otRate,
		Status:       entity.EmployeeStatusActive,
	}
	if req.JoinedAt != "" {
		t, err := time.Parse("2006-01-02", req.JoinedAt)
		if err != nil {
			return nil, &ValidationError{Field: "joined_at", Reason: "must be YYYY-MM-DD"}
		}
		emp.JoinedAt = &t
	}
	if err := s.repo.CreateEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *HRService) UpdateEmployee(id string, req EmployeeRequest) (*entity.Employee, error) {
	emp, err := s.GetEmployee(id)
	if err != nil {
		return nil, err
	}
	basic, err := parseMoney(req.BasicSalary, "basic_salary")
	if err != nil {
		return nil, err
	}
	otRate, err := parseMoney(req.OvertimeRate, "overtime_rate")
	if err != nil {
		return nil, err
	}
	emp.Name = req.Name
	emp.Designation = req.Designation
	emp.Department = req.Department
	emp.Phone = req.Phone
	emp.Email = req.Email
	emp.BasicSalary = basic
	emp.OvertimeRate = otRate
	if err := s.repo.SaveEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *HRService) GetEmployee(id string) (*entity.Employee, error) {
	emp, err := s.repo.GetEmployee(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "employee", ID: id}
		}
		return nil, err
	}
	return emp, nil
}

func (s *HRService) ListEmployees(department, status string, page, size int) ([]entity.Employee, int64, error) {
	return s.repo.ListEmployees(department, status, page, size)
}

// --- Attendance ---

// CheckIn opens today's attendance row for an employee. Checking in twice on
// the same day is a conflict.
func (s *HRService) CheckIn(employeeID string) (*entity.Attendance, error) {
	if _, err := s.GetEmployee(employeeID); err != nil {
		return nil, err
	}
	now := time.Now()
	date := now.Format("2006-01-02")
	if existing, err := s.repo.GetAttendance(employeeID, date); err == nil && existing.CheckIn != nil {
		return nil, &ConflictError{Reason: "already checked in today"}
	}
	att := &entity.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		CheckIn:    &now,
		Status:     entity.AttendanceStatusPresent,
	}
	if err := s.repo.CreateAttendance(att); err != nil {
		return nil, err
	}
	return att, nil
}

// CheckOut closes today's row and credits overtime beyond the 8h shift.
func (s *HRService) CheckOut(employeeID string) (*entity.Attendance, error) {
	now := time.Now()
	date := now.Format("2006-01-02")
	att, err := s.repo.GetAttendance(employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ConflictError{Reason: "no check-in recorded today"}
		}
		return nil, err
	}
	if att.CheckOut != nil {
		return nil, &ConflictError{Reason: "already checked out today"}
	}
	att.CheckOut = &now
	if att.CheckIn != nil {
		worked := now.Sub(*att.CheckIn).Hours()
		if worked > 8 {
			att.OvertimeHours = worked - 8
		}
		if worked < 4 {
			att.Status = entity.AttendanceStatusHalfDay
		}
	}
	if err := s.repo.SaveAttendance(att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *HRService) ListAttendance(employeeID, from, to string) ([]entity.Attendance, error) {
	return s.repo.ListAttendance(employeeID, from, to)
}

// --- Leave ---

type LeaveRequestInput struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	LeaveType  string `json:"leave_type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

func (s *HRService) RequestLeave(req LeaveRequestInput) (*entity.LeaveRequest, error) {
	if _, err := s.GetEmployee(req.EmployeeID); err != nil {
		return nil, err
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	lr := &entity.LeaveRequest{
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     entity.LeaveStatusPending,
	}
	if err := s.repo.CreateLeave(lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *HRService) ReviewLeave(id, decision, reviewerID string) (*entity.LeaveRequest, error) {
	if decision != entity.LeaveStatusApproved && decision != entity.LeaveStatusRejected {
		return nil, &ValidationError{Field: "decision", Reason: "must be approved or rejected"}
	}
	lr, err := s.repo.GetLeave(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "leave request", ID: id}
		}
		return nil, err
	}
	if lr.Status != entity.LeaveStatusPending {
		return nil, &ConflictError{Reason: "leave request is already reviewed"}
	}
	now := time.Now()
	lr.Status = decision
	lr.ReviewedBy = reviewerID
	lr.ReviewedAt = &now
	if err := s.repo.SaveLeave(lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *HRService) ListLeaves(employeeID, status string, page, size int) ([]entity.LeaveRequest, int64, error) {
	return s.repo.ListLeaves(employeeID, status, page, size)
}

// --- Salary ---

// ComputeNetPay applies the payroll formula: basic + overtimeHours * rate -
// deductions, rounded to cents. Net pay never goes below zero.
func ComputeNetPay(basic, overtimeRate decimal.Decimal, overtimeHours float64, deductions decimal.Decimal) (overtime, net decimal.Decimal) {
	overtime = overtimeRate.Mul(decimal.NewFromFloat(overtimeHours)).Round(2)
	net = basic.Add(overtime).Sub(deductions).Round(2)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return overtime, net
}

type GenerateSalaryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Month      string `json:"month" binding:"required"` // YYYY-MM
	Deductions string `json:"deductions"`
}

// GenerateSalary produces the payslip record for one employee-month.
// Overtime hours come from the attendance records of that month.
func (s *HRService) GenerateSalary(req GenerateSalaryRequest, userID string) (*entity.SalaryRecord, error) {
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return nil, &ValidationError{Field: "month", Reason: "must be YYYY-MM"}
	}
	emp, err := s.GetEmployee(req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetSalary(req.EmployeeID, req.Month); err == nil {
		return nil, &ConflictError{Reason: "salary already generated for this month"}
	}
	deductions, err := parseMoney(req.Deductions, "deductions")
	if err != nil {
		return nil, err
	}
	otHours, err := s.repo.SumOvertimeHours(req.EmployeeID, req.Month)
	if err != nil {
		return nil, err
	}
	overtime, net := ComputeNetPay(emp.BasicSalary, emp.OvertimeRate, otHours, deductions)
	rec := &entity.SalaryRecord{
		EmployeeID:  req.EmployeeID,
		Month:       req.Month,
		Basic:       emp.BasicSalary,
		Overtime:    overtime,
		Deductions:  deductions,
		NetPay:      net,
		GeneratedBy: userID,
	}
	if err := s.repo.CreateSalary(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *HRService) ListSalaries(month string) ([]entity.SalaryRecord, error) {
	return s.repo.ListSalaries(month)
}
