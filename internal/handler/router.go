package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router with the global middleware stack.
func NewRouter(h *GymHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS)

	r.Get("/health", h.HealthCheck)

	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.ListMembers)
		r.Post("/", h.AddMember)
		r.Delete("/", h.DeleteMember)
		r.Get("/history", h.RegistrationHistory)
		r.Get("/registration-count", h.MemberRegistrationCount)
		r.Get("/{id}", h.GetMember)
		r.Patch("/{id}", h.UpdateMember)
	})

	r.Route("/coaches", func(r chi.Router) {
		r.Get("/", h.ListCoaches)
		r.Post("/", h.AddCoach)
		r.Get("/{id}", h.GetCoach)
		r.Patch("/{id}", h.UpdateCoach)
		r.Delete("/{id}", h.DeleteCoach)
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Post("/", h.AddCourse)
		r.Get("/{id}", h.GetCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Get("/{id}/capacity", h.CourseCapacity)
	})

	r.Route("/registrations", func(r chi.Router) {
		r.Get("/", h.ListRegistrations)
		r.Post("/", h.Register)
	})

	r.Get("/stats", h.Statistics)

	return r
}
