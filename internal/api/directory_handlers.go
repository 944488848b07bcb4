package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"clinicare/internal/service"
)

type DirectoryHandler struct {
	Service *service.DirectoryService
}

func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Service: svc}
}

func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	specialty := r.URL.Query().Get("specialty")
	doctors, err := h.Service.ListDoctors(specialty)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *DirectoryHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	doctor, err := h.Service.GetDoctor(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

func (h *DirectoryHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.Service.ListSpecialties()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, specialties)
}

func (h *DirectoryHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *DirectoryHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListServices()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, services)
}
