package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Age         int      `json:"age"`
	ContactNo   string   `json:"contact_no"`
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
	Designation string   `json:"designation"`
	Affiliation string   `json:"affiliation"`
	Expertise   string   `json:"expertise"`
	CountryCode string   `json:"country_code"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	role := domain.Role(strings.TrimSpace(strings.ToLower(s.Role)))
	if !role.Valid() {
		errs = append(errs, `role must be "attendee", "organizer" or "speaker"`)
	}
	if role == domain.RoleOrganizer && strings.TrimSpace(s.Designation) == "" {
		errs = append(errs, "designation is required for organizers")
	}
	if role == domain.RoleSpeaker {
		if strings.TrimSpace(s.Affiliation) == "" {
			errs = append(errs, "affiliation is required for speakers")
		}
		if strings.TrimSpace(s.Expertise) == "" {
			errs = append(errs, "expertise is required for speakers")
		}
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// ResetInitiateRequest is the request body for POST /auth/password-reset/initiate
type ResetInitiateRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (r ResetInitiateRequest) Validate() []string {
	if strings.TrimSpace(r.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ResetVerifyRequest is the request body for POST /auth/password-reset/verify
type ResetVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (r ResetVerifyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// ResetUpdateRequest is the request body for POST /auth/password-reset/update
type ResetUpdateRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// Validate implements Validator.
func (r ResetUpdateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if len(r.NewPassword) < 8 {
		errs = append(errs, "new_password must be at least 8 characters")
	}
	return errs
}

type AuthController struct {
	Logger       *slog.Logger
	Auth         domain.AuthService
	Reset        domain.PasswordResetService
}

func NewAuthController(logger *slog.Logger, auth domain.AuthService, reset domain.PasswordResetService) *AuthController {
	return &AuthController{Logger: logger, Auth: auth, Reset: reset}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create an account with one of the roles "attendee", "organizer" or "speaker". Organizers must supply a designation, speakers an affiliation and expertise.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Auth.SignUp(r.Context(), domain.SignUpParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		Role:        domain.Role(strings.TrimSpace(strings.ToLower(req.Role))),
		ContactNo:   req.ContactNo,
		Skills:      req.Skills,
		Interests:   req.Interests,
		Designation: req.Designation,
		Affiliation: req.Affiliation,
		Expertise:   req.Expertise,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT and the account record.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type and user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// InitiateReset godoc
// @Summary Request a password reset code
// @Description Sends a reset code to the address when an account exists. The response is identical either way.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetInitiateRequest true "Account email"
// @Success 200 {object} helpers.APIResponse "data contains {\"initiated\": true}"
// @Router /auth/password-reset/initiate [post]
func (c *AuthController) InitiateReset(w http.ResponseWriter, r *http.Request) {
	var req ResetInitiateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	initiated := c.Reset.Initiate(r.Context(), email)
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"initiated": initiated})
}

// VerifyResetCode godoc
// @Summary Verify a password reset code
// @Description Checks the code without consuming it; it stays valid until expiry or a password update.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetVerifyRequest true "Email and code"
// @Success 200 {object} helpers.APIResponse "data contains {\"valid\": true}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /auth/password-reset/verify [post]
func (c *AuthController) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req ResetVerifyRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := c.Reset.VerifyCode(r.Context(), email, strings.TrimSpace(req.Code)); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"valid": true})
}

// UpdatePassword godoc
// @Summary Set a new password
// @Description Replaces the password when a valid reset challenge is outstanding, consuming the challenge.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetUpdateRequest true "Email and new password"
// @Success 200 {object} helpers.APIResponse "data contains {\"updated\": true}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /auth/password-reset/update [post]
func (c *AuthController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req ResetUpdateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := c.Reset.UpdatePassword(r.Context(), email, req.NewPassword); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"updated": true})
}

func (c *AuthController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
