package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/services"
	"github.com/gorilla/mux"
)

// AuthService is the part of services.AuthService the HTTP API needs.
type AuthService interface {
	Resolver
	Login(ctx context.Context, variant models.Variant, email, password string) (*services.Session, error)
	RegisterStudent(ctx context.Context, in services.StudentRegistration) (*services.Session, error)
	SignupAdmin(ctx context.Context, in services.AdminRegistration, createdBy string) (*models.Principal, error)
	ListAdmins(ctx context.Context) ([]*models.Principal, error)
}

// PromotionService is the part of services.PromotionService the HTTP API needs.
type PromotionService interface {
	Promote(ctx context.Context, studentID, clubName, promotedBy string) (*models.Principal, error)
	Demote(ctx context.Context, adminID string) error
}

type handler struct {
	auth  AuthService
	promo PromotionService
	log   logging.Logger
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message   string                 `json:"message"`
	Token     string                 `json:"token"`
	User      models.PublicPrincipal `json:"user"`
	LoginType models.Variant         `json:"loginType"`
}

type adminResponse struct {
	Message string                 `json:"message"`
	Admin   models.PublicPrincipal `json:"admin"`
}

var loginMessages = map[models.Variant]string{
	models.VariantStudent: "Login successful",
	models.VariantAdmin:   "Admin login successful",
	models.VariantFaculty: "Faculty login successful",
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *handler) login(variant models.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in credentials
		if !decode(w, r, &in) {
			return
		}

		sess, err := h.auth.Login(r.Context(), variant, in.Email, in.Password)
		if err != nil {
			writeError(w, err, "Server error during login", nil)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Message:   loginMessages[variant],
			Token:     sess.Token,
			User:      sess.Principal.Public(),
			LoginType: variant,
		})
	}
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	StudentID  string `json:"studentId"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Phone      string `json:"phone"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if !decode(w, r, &in) {
		return
	}

	sess, err := h.auth.RegisterStudent(r.Context(), services.StudentRegistration(in))
	if err != nil {
		writeError(w, err, "Server error during registration", errorMessages{
			common.ErrAlreadyExists: "User already exists with this email or student ID",
		})
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Message:   "User registered successfully",
		Token:     sess.Token,
		User:      sess.Principal.Public(),
		LoginType: models.VariantStudent,
	})
}

type meResponse struct {
	User      models.PublicPrincipal `json:"user"`
	LoginType models.Variant         `json:"loginType"`
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{User: id.Principal.Public(), LoginType: id.LoginType})
}

type adminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ClubName string `json:"clubName"`
	Position string `json:"position"`
}

func (h *handler) adminSignup(w http.ResponseWriter, r *http.Request) {
	var in adminRequest
	if !decode(w, r, &in) {
		return
	}

	admin, err := h.auth.SignupAdmin(r.Context(), services.AdminRegistration(in), "")
	if err != nil {
		writeError(w, err, "Server error during admin registration", errorMessages{
			common.ErrAlreadyExists: "Admin already registered",
		})
		return
	}

	writeJSON(w, http.StatusCreated, adminResponse{Message: "Admin registered successfully", Admin: admin.Public()})
}

func (h *handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var in adminRequest
	if !decode(w, r, &in) {
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	admin, err := h.auth.SignupAdmin(r.Context(), services.AdminRegistration(in), id.Principal.ID)
	if err != nil {
		writeError(w, err, "Server error", errorMessages{
			common.ErrAlreadyExists: "Admin already exists",
		})
		return
	}

	writeJSON(w, http.StatusCreated, adminResponse{Message: "Admin created successfully", Admin: admin.Public()})
}

type adminsResponse struct {
	Admins []models.PublicPrincipal `json:"admins"`
}

func (h *handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	list, err := h.auth.ListAdmins(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list admins", "error", err)
		writeError(w, err, "Server error", nil)
		return
	}

	out := adminsResponse{Admins: make([]models.PublicPrincipal, len(list))}
	for i, a := range list {
		out.Admins[i] = a.Public()
	}
	writeJSON(w, http.StatusOK, out)
}

type promoteRequest struct {
	StudentID string `json:"studentId"`
	ClubName  string `json:"clubName"`
}

func (h *handler) promote(w http.ResponseWriter, r *http.Request) {
	var in promoteRequest
	if !decode(w, r, &in) {
		return
	}
	if in.StudentID == "" {
		writeMessage(w, http.StatusBadRequest, "Student ID is required")
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	admin, err := h.promo.Promote(r.Context(), in.StudentID, in.ClubName, id.Principal.ID)
	if err != nil {
		h.log.Warn(r.Context(), "promote", "student_id", in.StudentID, "error", err)
		writeError(w, err, "Server error", errorMessages{
			common.ErrorNotFound: "Student not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, adminResponse{Message: "Student promoted to admin successfully", Admin: admin.Public()})
}

func (h *handler) demote(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["adminId"]

	if err := h.promo.Demote(r.Context(), adminID); err != nil {
		h.log.Warn(r.Context(), "demote", "admin_id", adminID, "error", err)
		writeError(w, err, "Server error", errorMessages{
			common.ErrorNotFound: "Admin not found",
		})
		return
	}

	writeMessage(w, http.StatusOK, "Admin removed successfully")
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
