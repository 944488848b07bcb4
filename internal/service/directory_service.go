package service

import (
	"clinicare/internal/apperrors"
	"clinicare/internal/db"
	"clinicare/internal/entities"
	"clinicare/internal/repository"
)

type DirectoryService struct {
	repo *repository.DirectoryRepository
}

func NewDirectoryService(repo *repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) ListDoctors(specialty string) ([]entities.DoctorView, error) {
	doctors, err := s.repo.ListDoctors(specialty)
	if err != nil {
		return nil, err
	}
	return doctorViews(doctors), nil
}

func (s *DirectoryService) GetDoctor(id int) (*entities.DoctorView, error) {
	doctor, err := s.repo.GetDoctor(id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor not found")
	}
	view := doctorView(*doctor)
	return &view, nil
}

func (s *DirectoryService) ListSpecialties() ([]string, error) {
	return s.repo.ListSpecialties()
}

func (s *DirectoryService) ListDepartments() ([]entities.DepartmentView, error) {
	departments, err := s.repo.ListDepartments()
	if err != nil {
		return nil, err
	}

	views := make([]entities.DepartmentView, 0, len(departments))
	for _, d := range departments {
		doctors, err := s.repo.DoctorsForDepartment(d.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, entities.DepartmentView{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Doctors:     doctorViews(doctors),
		})
	}
	return views, nil
}

func (s *DirectoryService) ListServices() ([]entities.ServiceView, error) {
	services, err := s.repo.ListServices()
	if err != nil {
		return nil, err
	}
	views := make([]entities.ServiceView, 0, len(services))
	for _, svc := range services {
		views = append(views, entities.ServiceView{
			ID:           svc.ID,
			Name:         svc.Name,
			Description:  svc.Description,
			DepartmentID: svc.DepartmentID,
		})
	}
	return views, nil
}

func doctorView(d db.Doctor) entities.DoctorView {
	return entities.DoctorView{
		ID:        d.ID,
		Name:      d.Name,
		Specialty: d.Specialty,
		Bio:       d.Bio,
		ImageURL:  d.ImageURL,
	}
}

func doctorViews(doctors []db.Doctor) []entities.DoctorView {
	views := make([]entities.DoctorView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, doctorView(d))
	}
	return views
}
