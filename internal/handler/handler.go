// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/service"
)

// GymHandler holds all HTTP handlers for the gym API.
type GymHandler struct {
	svc *service.GymService
}

// NewGymHandler constructs a GymHandler.
func NewGymHandler(svc *service.GymService) *GymHandler {
	return &GymHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

// envelope is the body of every API response.
type envelope struct {
	Success bool         `json:"success"`
	Kind    service.Kind `json:"kind,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeResult reports a mutation: successMsg on success, the error kind and
// message otherwise.
func writeResult(w http.ResponseWriter, status int, err error, successMsg string, data any) {
	res := service.Outcome(err, successMsg)
	if !res.Success {
		writeJSON(w, statusFor(res.Kind), envelope{Kind: res.Kind, Message: res.Message})
		return
	}
	writeJSON(w, status, envelope{Success: true, Message: res.Message, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeResult(w, 0, err, "", nil)
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindCapacityExceeded, service.KindDuplicateRegistration, service.KindAmbiguousMember:
		return http.StatusConflict
	case service.KindNoFieldsToUpdate:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &service.Error{Kind: service.KindInvalidInput, Message: "invalid request body: " + err.Error(), Err: err}
	}
	return nil
}

func idParam(r *http.Request, field string) (int64, error) {
	return service.ParseID(chi.URLParam(r, "id"), field)
}

// ─── Members ──────────────────────────────────────────────────────────────────

// ListMembers handles GET /members
func (h *GymHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.ListMembers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, members)
}

// AddMember handles POST /members
// Creates a member and mints their access card.
func (h *GymHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req model.NewMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.svc.AddMember(r.Context(), req)
	var msg string
	if err == nil {
		msg = "Member " + m.Name + " successfully added"
	}
	writeResult(w, http.StatusCreated, err, msg, m)
}

// GetMember handles GET /members/{id}
func (h *GymHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "member_id")
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.svc.GetMember(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

// UpdateMember handles PATCH /members/{id}
// Only the supplied, non-blank fields change.
func (h *GymHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "member_id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd model.MemberUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, err)
		return
	}
	err = h.svc.UpdateMember(r.Context(), id, upd)
	writeResult(w, http.StatusOK, err, "Member "+strconv.FormatInt(id, 10)+" successfully updated", nil)
}

// DeleteMember handles DELETE /members?name=
// Members are deleted by name; a name shared by several members is rejected.
func (h *GymHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	err := h.svc.DeleteMember(r.Context(), name)
	writeResult(w, http.StatusOK, err, "Member "+name+" successfully deleted", nil)
}

// RegistrationHistory handles GET /members/history?name=
func (h *GymHandler) RegistrationHistory(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.RegistrationHistory(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, regs)
}

// MemberRegistrationCount handles GET /members/registration-count?name=
func (h *GymHandler) MemberRegistrationCount(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	n, err := h.svc.MemberRegistrationCount(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"name": name, "total_registrations": n})
}

// ─── Coaches ──────────────────────────────────────────────────────────────────

// ListCoaches handles GET /coaches
func (h *GymHandler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	coaches, err := h.svc.ListCoaches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, coaches)
}

// AddCoach handles POST /coaches
func (h *GymHandler) AddCoach(w http.ResponseWriter, r *http.Request) {
	var req model.NewCoachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.AddCoach(r.Context(), req)
	var msg string
	if err == nil {
		msg = "Coach " + c.Name + " successfully added"
	}
	writeResult(w, http.StatusCreated, err, msg, c)
}

// GetCoach handles GET /coaches/{id}
func (h *GymHandler) GetCoach(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "coach_id")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.GetCoach(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// UpdateCoach handles PATCH /coaches/{id}
func (h *GymHandler) UpdateCoach(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "coach_id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd model.CoachUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, err)
		return
	}
	err = h.svc.UpdateCoach(r.Context(), id, upd)
	writeResult(w, http.StatusOK, err, "Coach "+strconv.FormatInt(id, 10)+" successfully updated", nil)
}

// DeleteCoach handles DELETE /coaches/{id}
// The coach's courses and their registrations are deleted with it.
func (h *GymHandler) DeleteCoach(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "coach_id")
	if err != nil {
		writeError(w, err)
		return
	}
	err = h.svc.DeleteCoach(r.Context(), id)
	writeResult(w, http.StatusOK, err, "Coach "+strconv.FormatInt(id, 10)+" successfully deleted", nil)
}

// ─── Courses ──────────────────────────────────────────────────────────────────

// ListCourses handles GET /courses?specialty=&availability=&sort=
func (h *GymHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := service.ParseCourseFilter(q.Get("specialty"), q.Get("availability"), q.Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}
	courses, err := h.svc.ListCourses(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, courses)
}

// AddCourse handles POST /courses
func (h *GymHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	var req model.NewCourseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.AddCourse(r.Context(), req)
	var msg string
	if err == nil {
		msg = "Course " + c.Name + " successfully added"
	}
	writeResult(w, http.StatusCreated, err, msg, c)
}

// GetCourse handles GET /courses/{id}
func (h *GymHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "course_id")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.GetCourse(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// DeleteCourse handles DELETE /courses/{id}
func (h *GymHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "course_id")
	if err != nil {
		writeError(w, err)
		return
	}
	err = h.svc.DeleteCourse(r.Context(), id)
	writeResult(w, http.StatusOK, err, "Course "+strconv.FormatInt(id, 10)+" successfully deleted", nil)
}

// capacityView is the body of GET /courses/{id}/capacity.
type capacityView struct {
	CourseID      int64 `json:"course_id"`
	Registrations int   `json:"registrations"`
	Available     int   `json:"available"`
}

// CourseCapacity handles GET /courses/{id}/capacity
func (h *GymHandler) CourseCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "course_id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.svc.RegistrationCount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	left, err := h.svc.AvailableCapacity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, capacityView{CourseID: id, Registrations: n, Available: left})
}

// ─── Registrations ────────────────────────────────────────────────────────────

// Register handles POST /registrations
// Admits a member to a course if the member and course exist, the course has
// room and the member is not already registered.
func (h *GymHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	memberID, err := service.ParseID(req.MemberID.String(), "member_id")
	if err != nil {
		writeError(w, err)
		return
	}
	courseID, err := service.ParseID(req.CourseID.String(), "course_id")
	if err != nil {
		writeError(w, err)
		return
	}

	reg, err := h.svc.Register(r.Context(), memberID, courseID)
	writeResult(w, http.StatusCreated, err, service.RegisteredMessage(memberID, courseID), reg)
}

// ListRegistrations handles GET /registrations
// Returns every registration with member and course details.
func (h *GymHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.ListRegistrations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, details)
}

// Statistics handles GET /stats
func (h *GymHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func (h *GymHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
