package repository

import (
	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/entity"
	"gorm.io/gorm"
)

type HRRepository struct {
	db *gorm.DB
}

func NewHRRepository(db *gorm.DB) *HRRepository {
	return &HRRepository{db: db}
}

// --- Employees ---

func (r *HRRepository) GetEmployee(id string) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.db.First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *HRRepository) CreateEmployee(emp *entity.Employee) error {
	return r.db.Create(emp).Error
}

func (r *HRRepository) SaveEmployee(emp *entity.Employee) error {
	return r.db.Save(emp).Error
}

func (r *HRRepository) ListEmployees(department, status string, page, size int) ([]entity.Employee, int64, error) {
	query := r.db.Model(&entity.Employee{})
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var emps []entity.Employee
	err := query.Order("employee_code ASC").Offset((page - 1) * size).Limit(size).Find(&emps).Error
	return emps, total, err
}

// --- Attendance ---

func (r *HRRepository) GetAttendance(employeeID, date string) (*entity.Attendance, error) {
	var att entity.Attendance
	err := r.db.First(&att, "employee_id = ? AND date = ?", employeeID, date).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *HRRepository) CreateAttendance(att *entity.Attendance) error {
	return r.db.Create(att).Error
}

func (r *HRRepository) SaveAttendance(att *entity.Attendance) error {
	return r.db.Save(att).Error
}

func (r *HRRepository) ListAttendance(employeeID, from, to string) ([]entity.Attendance, error) {
	query := r.db.Model(&entity.Attendance{}).Where("employee_id = ?", employeeID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	var records []entity.Attendance
	err := query.Order("date DESC").Find(&records).Error
	return records, err
}

// SumOvertimeHours totals overtime for an employee in a YYYY-MM month.
func (r *HRRepository) SumOvertimeHours(employeeID, month string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(overtime_hours), 0) AS total
		FROM attendance_records
		WHERE employee_id = ? AND to_char(date, 'YYYY-MM') = ?
	`, employeeID, month).Scan(&result).Error
	return result.Total, err
}

// --- Leave ---

func (r *HRRepository) GetLeave(id string) (*entity.LeaveRequest, error) {
	var lr entity.LeaveRequest
	err := r.db.First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *HRRepository) CreateLeave(lr *entity.LeaveRequest) error {
	return r.db.Create(lr).Error
}

func (r *HRRepository) SaveLeave(lr *entity.LeaveRequest) error {
	return r.db.Save(lr).Error
}

func (r *HRRepository) ListLeaves(employeeID, status string, page, size int) ([]entity.LeaveRequest, int64, error) {
	query := r.db.Model(&entity.LeaveRequest{})
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var leaves []entity.LeaveRequest
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&leaves).Error
	return leaves, total, err
}

// --- Salary ---

func (r *HRRepository) GetSalary(employeeID, month string) (*entity.SalaryRecord, error) {
	var rec entity.SalaryRecord
	err := r.db.First(&rec, "employee_id = ? AND month = ?", employeeID, month).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *HRRepository) CreateSalary(rec *entity.SalaryRecord) error {
	return r.db.Create(rec).Error
}

func (r *HRRepository) ListSalaries(month string) ([]entity.SalaryRecord, error) {
	query := r.db.Model(&entity.SalaryRecord{})
	if month != "" {
		query = query.Where("month = ?", month)
	}
	var recs []entity.SalaryRecord
	err := query.Order("created_at DESC").Find(&recs).Error
	return recs, err
}
