package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventdiscovery/internal/server/auth"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register, login and profile update. The token
// always binds to the returned user.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register handles POST /users. Emails are compared case-insensitively by
// storing them lowercased.
func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid user data")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		jsonMessage(c, http.StatusConflict, "User already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		jsonMessage(c, http.StatusInternalServerError, "could not register user")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not register user")
		return
	}

	user := User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  hashed,
		Interests: []Interest{},
	}
	if err := s.db.Create(&user).Error; err != nil {
		s.log.Error(c.Request.Context(), "user create failed", "error", err)
		jsonMessage(c, http.StatusInternalServerError, "could not register user")
		return
	}

	token, err := auth.IssueToken(user.ID, s.cfg.Secret(), s.cfg.TokenTTL)
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not register user")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles POST /users/login. Unknown email and wrong password produce
// the same message so accounts cannot be enumerated.
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonMessage(c, http.StatusBadRequest, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user User
	if err := s.db.Preload("Interests").Where("email = ?", email).First(&user).Error; err != nil {
		jsonMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		jsonMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.IssueToken(user.ID, s.cfg.Secret(), s.cfg.TokenTTL)
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// GetProfile handles GET /users/profile.
func (s *Server) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
	Password  *string `json:"password"`
}

// UpdateProfile handles PUT /users/profile. Only supplied fields are merged
// over the stored record; the response carries a freshly issued token.
func (s *Server) UpdateProfile(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid profile data")
		return
	}

	// Re-read the stored record so the merge applies to the latest state.
	var user User
	if err := s.db.Preload("Interests").First(&user, current.ID).Error; err != nil {
		jsonMessage(c, http.StatusNotFound, "User not found")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			var existing User
			if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
				jsonMessage(c, http.StatusConflict, "Email already in use")
				return
			}
			user.Email = email
		}
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			jsonMessage(c, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			jsonMessage(c, http.StatusInternalServerError, "could not update profile")
			return
		}
		user.Password = hashed
	}

	if err := s.db.Omit("Interests").Save(&user).Error; err != nil {
		s.log.Error(c.Request.Context(), "profile update failed", "error", err)
		jsonMessage(c, http.StatusInternalServerError, "could not update profile")
		return
	}

	token, err := auth.IssueToken(user.ID, s.cfg.Secret(), s.cfg.TokenTTL)
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not update profile")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// InterestInput accepts the shapes clients historically sent for an
// interest: a bare string, or an object carrying id and/or name. It is
// normalized to a canonical {id, name} before touching storage.
type InterestInput struct {
	ID   string
	Name string
}

func (i *InterestInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.Name = s
		return nil
	}

	// Catalog ids arrive as numbers, ad-hoc ids as strings.
	var obj struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	switch id := obj.ID.(type) {
	case string:
		i.ID = id
	case float64:
		i.ID = strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
	default:
		return fmt.Errorf("interest id has unsupported type %T", obj.ID)
	}
	i.Name = obj.Name
	return nil
}

type CompleteProfileRequest struct {
	Bio       string          `json:"bio"`
	Interests []InterestInput `json:"interests"`
}

// CompleteProfile handles POST /users/complete-profile. The acting user is
// always the authenticated caller; interest ids are issued here, never
// trusted from input when absent, and the interest set is replaced in one
// transaction.
func (s *Server) CompleteProfile(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid profile data")
		return
	}

	interests := make([]Interest, 0, len(req.Interests))
	for _, in := range req.Interests {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = strings.TrimSpace(in.ID)
		}
		if name == "" {
			jsonMessage(c, http.StatusBadRequest, "interests are not in a valid format")
			return
		}
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = uuid.NewString()
		}
		interests = append(interests, Interest{ID: id, UserID: current.ID, Name: name})
	}

	var user User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, current.ID).Error; err != nil {
			return err
		}
		if req.Bio != "" {
			user.Bio = req.Bio
		}
		user.IsProfileCompleted = true
		if err := tx.Where("user_id = ?", user.ID).Delete(&Interest{}).Error; err != nil {
			return err
		}
		if len(interests) > 0 {
			if err := tx.Create(&interests).Error; err != nil {
				return err
			}
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		s.log.Error(c.Request.Context(), "profile completion failed", "error", err)
		jsonMessage(c, http.StatusInternalServerError, "could not complete profile")
		return
	}

	user.Interests = interests
	c.JSON(http.StatusOK, user)
}
