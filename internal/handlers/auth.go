package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/auth"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/middleware"
	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
	resetCodes     *auth.ResetCodeStore
	codeSender     auth.CodeSender
	policy         *auth.Policy
	activity       middleware.ActivityRecorder
	log            logrus.FieldLogger
	now            func() time.Time
}

// NewAuthHandler creates a new authentication handler. Nil reset codes or
// sender fall back to an in-memory store with the default lifetime and a
// sender that logs the code.
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection, resetCodes *auth.ResetCodeStore, sender auth.CodeSender, log logrus.FieldLogger) *AuthHandler {
	if resetCodes == nil {
		resetCodes = auth.NewResetCodeStore(auth.DefaultResetCodeTTL)
	}
	if sender == nil {
		sender = auth.LogCodeSender{Log: log}
	}
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
		resetCodes:     resetCodes,
		codeSender:     sender,
		policy:         auth.DefaultPolicy(),
		log:            log,
		now:            time.Now,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var loginReq models.LoginRequest
	if err := json.Unmarshal(body, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByUsername(r.Context(), loginReq.Username)
	if err != nil {
		h.recordActivity(r, models.ActivityLoginFailed, &models.User{Username: loginReq.Username}, "unknown user")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !user.IsActive {
		h.recordActivity(r, models.ActivityLoginFailed, user, "account deactivated")
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		h.recordActivity(r, models.ActivityLoginFailed, user, "wrong password")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		http.Error(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	// Login still succeeds when the timestamp cannot be stored
	if err := h.userCollection.UpdateLastLogin(r.Context(), user.ID.Hex()); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("Failed to update last login")
	}

	h.log.WithFields(logrus.Fields{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
	}).Info("User logged in")
	h.recordActivity(r, models.ActivityLogin, user, "")

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// selfServiceRoles are the roles a user may pick when registering.
var selfServiceRoles = map[models.Role]bool{
	models.RoleShoreManager:  true,
	models.RoleCaptain:       true,
	models.RoleChiefEngineer: true,
	models.RoleEngineer:      true,
	models.RoleCustomer:      true,
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var registerReq models.RegisterRequest
	if err := json.Unmarshal(body, &registerReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidateUsername(registerReq.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidateEmail(registerReq.Email); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidatePassword(registerReq.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if registerReq.Role == "" {
		registerReq.Role = models.RoleCustomer
	}
	if !models.IsValidRole(registerReq.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if !selfServiceRoles[registerReq.Role] {
		http.Error(w, "Role cannot be self-assigned", http.StatusForbidden)
		return
	}

	var vesselID *primitive.ObjectID
	if registerReq.VesselID != "" {
		oid, err := primitive.ObjectIDFromHex(registerReq.VesselID)
		if err != nil {
			http.Error(w, "Invalid vessel id", http.StatusBadRequest)
			return
		}
		vesselID = &oid
	}

	if _, err := h.userCollection.FindUserByUsername(r.Context(), registerReq.Username); err == nil {
		http.Error(w, "Username already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Failed to check username", http.StatusInternalServerError)
		return
	}

	if _, err := h.userCollection.FindUserByEmail(r.Context(), registerReq.Email); err == nil {
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Failed to check email", http.StatusInternalServerError)
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	now := h.now()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Role:         registerReq.Role,
		FirstName:    registerReq.FirstName,
		LastName:     registerReq.LastName,
		Company:      registerReq.Company,
		Phone:        registerReq.Phone,
		VesselID:     vesselID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userCollection.InsertUser(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			http.Error(w, "Username or email already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		http.Error(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

type profileResponse struct {
	models.User
	Permissions []models.Action `json:"permissions"`
}

// WithPolicy sets the policy used to report a user's permissions.
func (h *AuthHandler) WithPolicy(p *auth.Policy) *AuthHandler {
	if p != nil {
		h.policy = p
	}
	return h
}

// WithActivity records sign-ins, failed sign-ins and sign-outs to rec.
func (h *AuthHandler) WithActivity(rec middleware.ActivityRecorder) *AuthHandler {
	h.activity = rec
	return h
}

func (h *AuthHandler) recordActivity(r *http.Request, action string, user *models.User, details string) {
	if h.activity == nil {
		return
	}
	entry := models.ActivityLog{
		Username:  user.Username,
		Email:     user.Email,
		Action:    action,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Details:   details,
	}
	if !user.ID.IsZero() {
		entry.UserID = user.ID.Hex()
	}
	h.activity.Record(r.Context(), entry)
}

// Logout records the end of the caller's session. Tokens are stateless and
// stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	user := &models.User{Username: claims.Username}
	if oid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		user.ID = oid
	}
	h.recordActivity(r, models.ActivityLogout, user, "")
	h.log.WithField("user_id", claims.UserID).Info("User logged out")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetProfile returns the current user's profile with the actions the
// user's role grants
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:        *user,
		Permissions: h.policy.Actions(user.Role),
	})
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var updateReq struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Company   string `json:"company"`
		Phone     string `json:"phone"`
	}

	if err := json.Unmarshal(body, &updateReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if updateReq.FirstName != "" {
		user.FirstName = updateReq.FirstName
	}
	if updateReq.LastName != "" {
		user.LastName = updateReq.LastName
	}
	if updateReq.Company != "" {
		user.Company = updateReq.Company
	}
	if updateReq.Phone != "" {
		user.Phone = updateReq.Phone
	}
	if updateReq.Email != "" {
		if err := h.authService.ValidateEmail(updateReq.Email); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		existingUser, err := h.userCollection.FindUserByEmail(r.Context(), updateReq.Email)
		if err == nil && existingUser.ID.Hex() != claims.UserID {
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}
		user.Email = updateReq.Email
	}

	if err := h.userCollection.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var passwordReq struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	if err := json.Unmarshal(body, &passwordReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		http.Error(w, "Current password and new password are required", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidatePassword(passwordReq.NewPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if !h.authService.CheckPassword(passwordReq.CurrentPassword, user.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	if err := h.setPassword(r, user, passwordReq.NewPassword); err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *AuthHandler) setPassword(r *http.Request, user *models.User, password string) error {
	hash, err := h.authService.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return h.userCollection.UpdateUser(r.Context(), user.ID.Hex(), *user)
}

const forgotPasswordMessage = "If the email is registered, a reset code has been sent"

// ForgotPassword issues a reset code for an email address. The answer is
// the same whether or not the address is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeJSON(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
		return
	case err != nil:
		h.log.WithError(err).Error("Failed to look up user for password reset")
		http.Error(w, "Failed to issue reset code", http.StatusInternalServerError)
		return
	}

	if user.IsActive {
		code, err := h.resetCodes.Issue(user.Email, h.now())
		if err != nil {
			http.Error(w, "Failed to issue reset code", http.StatusInternalServerError)
			return
		}
		if err := h.codeSender.SendResetCode(r.Context(), user.Email, code); err != nil {
			h.log.WithError(err).WithField("user_id", user.ID.Hex()).Error("Failed to send reset code")
			http.Error(w, "Failed to send reset code", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
}

// ResetPassword sets a new password after checking the emailed code.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		http.Error(w, "Email, code and new password are required", http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(req.NewPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.resetCodes.Verify(req.Email, req.Code, h.now()); err != nil {
		http.Error(w, "Invalid or expired reset code", http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		http.Error(w, "Invalid or expired reset code", http.StatusBadRequest)
		return
	}

	if err := h.setPassword(r, user, req.NewPassword); err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	h.log.WithField("user_id", user.ID.Hex()).Info("Password reset")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// ListUsers lists users, optionally filtered by ?role=.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !models.IsValidRole(role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	users, err := h.userCollection.FindUsers(r.Context(), role)
	if err != nil {
		h.log.WithError(err).Error("Failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes a user account. Users cannot delete themselves.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok && claims.UserID == id {
		http.Error(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}
	if err := h.userCollection.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.log.WithError(err).Error("Failed to delete user")
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
