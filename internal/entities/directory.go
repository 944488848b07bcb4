package entities

// DoctorView is the public shape of a doctor, as served by the directory API.
type DoctorView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Bio       string `json:"bio,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type DepartmentView struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Doctors     []DoctorView `json:"doctors"`
}

type ServiceView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DepartmentID *int   `json:"department_id,omitempty"`
}
