package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"clinicare/internal/db"
)

type DirectoryRepository struct {
	DB *sql.DB
}

func NewDirectoryRepository(database *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{DB: database}
}

func (r *DirectoryRepository) ListDoctors(specialty string) ([]db.Doctor, error) {
	query := `
	SELECT id, name, specialty, COALESCE(bio, ''), COALESCE(image_url, '')
	FROM doctors
	WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if specialty != "" {
		query += " AND specialty = $" + strconv.Itoa(idx)
		args = append(args, specialty)
		idx++
	}
	query += " ORDER BY name"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []db.Doctor
	for rows.Next() {
		var d db.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Bio, &d.ImageURL); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *DirectoryRepository) GetDoctor(id int) (*db.Doctor, error) {
	var d db.Doctor
	err := r.DB.QueryRow(`
		SELECT id, name, specialty, COALESCE(bio, ''), COALESCE(image_url, '')
		FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.Bio, &d.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying doctor %d: %w", id, err)
	}
	return &d, nil
}

func (r *DirectoryRepository) ListSpecialties() ([]string, error) {
	rows, err := r.DB.Query(`SELECT DISTINCT specialty FROM doctors ORDER BY specialty`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialties []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		specialties = append(specialties, s)
	}
	return specialties, rows.Err()
}

func (r *DirectoryRepository) ListDepartments() ([]db.Department, error) {
	rows, err := r.DB.Query(`SELECT id, name, COALESCE(description, '') FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []db.Department
	for rows.Next() {
		var d db.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// DoctorsForDepartment resolves the doctor_department association.
func (r *DirectoryRepository) DoctorsForDepartment(departmentID int) ([]db.Doctor, error) {
	rows, err := r.DB.Query(`
		SELECT d.id, d.name, d.specialty, COALESCE(d.bio, ''), COALESCE(d.image_url, '')
		FROM doctors d
		JOIN doctor_department dd ON dd.doctor_id = d.id
		WHERE dd.department_id = $1
		ORDER BY d.name`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []db.Doctor
	for rows.Next() {
		var d db.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Bio, &d.ImageURL); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *DirectoryRepository) ListServices() ([]db.Service, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(description, ''), department_id
		FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DepartmentID); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
