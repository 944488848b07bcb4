package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"clinicare/internal/api"
	"clinicare/internal/apperrors"
	"clinicare/internal/auth"
	"clinicare/internal/db"
	"clinicare/internal/entities"
	"clinicare/internal/service"
	"clinicare/internal/utils"
)

const (
	testDoctorID  = 1
	testPatientID = 10
	otherPatient  = 11
)

type memStore struct {
	mu           sync.Mutex
	windows      []db.DoctorAvailability
	appointments map[int]*db.Appointment
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{appointments: make(map[int]*db.Appointment), nextID: 1}
}

func (m *memStore) DoctorByID(id int) (*db.Doctor, error) {
	if id != testDoctorID {
		return nil, nil
	}
	return &db.Doctor{ID: id, Name: "Grace Okafor", Specialty: "Cardiology"}, nil
}

func (m *memStore) PatientByID(id int) (*db.User, error) {
	if id != testPatientID && id != otherPatient {
		return nil, nil
	}
	return &db.User{ID: id, Username: fmt.Sprintf("patient%d", id), Email: fmt.Sprintf("p%d@test.com", id)}, nil
}

func (m *memStore) AvailabilityWindows(doctorID, dayOfWeek int) ([]db.DoctorAvailability, error) {
	var out []db.DoctorAvailability
	for _, w := range m.windows {
		if w.DoctorID == doctorID && w.DayOfWeek == dayOfWeek {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) slotTakenLocked(doctorID int, date time.Time, timeOfDay string) bool {
	key := date.Format(utils.DateLayout)
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Format(utils.DateLayout) == key && a.Time == timeOfDay &&
			(a.Status == service.StatusPending || a.Status == service.StatusConfirmed) {
			return true
		}
	}
	return false
}

func (m *memStore) SlotTaken(doctorID int, date time.Time, timeOfDay string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotTakenLocked(doctorID, date, timeOfDay), nil
}

func (m *memStore) InsertAppointment(a *db.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slotTakenLocked(a.DoctorID, a.Date, a.Time) {
		return apperrors.SlotUnavailable(entities.ReasonSlotTaken)
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	stored := *a
	m.appointments[a.ID] = &stored
	return nil
}

func (m *memStore) AppointmentByID(id int) (*db.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) UpdateAppointmentStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.appointments[id]; ok {
		a.Status = status
	}
	return nil
}

func (m *memStore) AppointmentTimesForDoctorDate(doctorID int, date time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.Format(utils.DateLayout)
	var times []string
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Format(utils.DateLayout) == key &&
			(a.Status == service.StatusPending || a.Status == service.StatusConfirmed) {
			times = append(times, a.Time)
		}
	}
	return times, nil
}

func (m *memStore) AppointmentsForPatient(patientID int) ([]entities.AppointmentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.AppointmentView
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			out = append(out, entities.AppointmentView{ID: a.ID, DoctorID: a.DoctorID, Date: a.Date, Time: a.Time, Status: a.Status})
		}
	}
	return out, nil
}

// asUser injects the authenticated patient id the way the JWT middleware does.
func asUser(userID int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func newTestRouter(t *testing.T, userID int) (*mux.Router, *memStore) {
	t.Helper()
	store := newMemStore()
	store.windows = append(store.windows, db.DoctorAvailability{
		ID: 1, DoctorID: testDoctorID, DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00",
	})
	h := api.NewBookingHandler(service.NewBookingService(store, nil))

	r := mux.NewRouter()
	r.HandleFunc("/api/availability", h.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/doctors/{id}/slots", h.ListSlots).Methods("GET")
	r.HandleFunc("/api/appointments", asUser(userID, h.BookAppointment)).Methods("POST")
	r.HandleFunc("/api/appointments", asUser(userID, h.ListMyAppointments)).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", asUser(userID, h.CancelAppointment)).Methods("DELETE")
	return r, store
}

func nextMonday() time.Time {
	d := utils.Today().AddDate(0, 0, 1)
	for utils.DayOfWeek(d) != 0 {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)
	monday := nextMonday().Format(utils.DateLayout)

	rec := doJSON(t, r, "POST", "/api/availability", api.AvailabilityRequest{
		DoctorID: testDoctorID, Date: monday, Time: "09:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result entities.AvailabilityResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available, got %+v", result)
	}
}

func TestCheckAvailabilityEndpointMalformedDate(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)

	rec := doJSON(t, r, "POST", "/api/availability", api.AvailabilityRequest{
		DoctorID: testDoctorID, Date: "03-06-2024", Time: "09:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckAvailabilityEndpointUnknownDoctor(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)
	monday := nextMonday().Format(utils.DateLayout)

	rec := doJSON(t, r, "POST", "/api/availability", api.AvailabilityRequest{
		DoctorID: 999, Date: monday, Time: "09:00",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBookAppointmentEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)
	monday := nextMonday().Format(utils.DateLayout)

	rec := doJSON(t, r, "POST", "/api/appointments", api.BookAppointmentRequest{
		DoctorID: testDoctorID, Date: monday, Time: "09:00", Reason: "checkup",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result entities.BookingResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != service.StatusPending {
		t.Fatalf("status = %q, want pending", result.Status)
	}

	// Same slot again conflicts.
	rec = doJSON(t, r, "POST", "/api/appointments", api.BookAppointmentRequest{
		DoctorID: testDoctorID, Date: monday, Time: "09:00",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	// Outside hours is a conflict too, with the reason in the body.
	rec = doJSON(t, r, "POST", "/api/appointments", api.BookAppointmentRequest{
		DoctorID: testDoctorID, Date: monday, Time: "08:30",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestBookAppointmentEndpointPastDate(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)
	past := utils.Today().AddDate(0, 0, -7).Format(utils.DateLayout)

	rec := doJSON(t, r, "POST", "/api/appointments", api.BookAppointmentRequest{
		DoctorID: testDoctorID, Date: past, Time: "09:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCancelAppointmentEndpointForbidden(t *testing.T) {
	r, store := newTestRouter(t, testPatientID)
	monday := nextMonday().Format(utils.DateLayout)

	rec := doJSON(t, r, "POST", "/api/appointments", api.BookAppointmentRequest{
		DoctorID: testDoctorID, Date: monday, Time: "10:00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d", rec.Code)
	}
	var result entities.BookingResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// A different patient hitting the cancel route gets 403.
	other, _ := newTestRouterWithStore(t, otherPatient, store)
	rec = doJSON(t, other, "DELETE", fmt.Sprintf("/api/appointments/%d", result.AppointmentID), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func newTestRouterWithStore(t *testing.T, userID int, store *memStore) (*mux.Router, *memStore) {
	t.Helper()
	h := api.NewBookingHandler(service.NewBookingService(store, nil))
	r := mux.NewRouter()
	r.HandleFunc("/api/appointments/{id}", asUser(userID, h.CancelAppointment)).Methods("DELETE")
	return r, store
}

func TestListSlotsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testPatientID)
	monday := nextMonday().Format(utils.DateLayout)

	rec := doJSON(t, r, "GET", fmt.Sprintf("/api/doctors/%d/slots?date=%s&duration=60", testDoctorID, monday), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp entities.SlotListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00"}
	if len(resp.Slots) != len(want) {
		t.Fatalf("slots = %v, want %v", resp.Slots, want)
	}
	for i := range want {
		if resp.Slots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", resp.Slots, want)
		}
	}
}
