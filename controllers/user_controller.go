package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/middlewares"
	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

type UserController struct {
	DB       *gorm.DB
	Presence *services.Presence
}

type userResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Avatar       string      `json:"avatar"`
	Online       bool        `json:"online"`
	ActiveStatus interface{} `json:"activeStatus"`
}

// GetUsers lists every verified user except the caller, with online flags.
func (ctl *UserController) GetUsers(c *gin.Context) {
	me := middlewares.CurrentUser(c)

	var users []models.User
	err := ctl.DB.
		Where("id <> ? AND is_verified = ?", me.ID, true).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	base := baseURL(c)
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Avatar:       u.AvatarURL(base),
			Online:       ctl.Presence.IsOnline(u.ID),
			ActiveStatus: u.ActiveStatus,
		})
	}
	utils.RespondSuccess(c, http.StatusOK, out)
}

// GetProfile returns the authenticated user's own profile.
func (ctl *UserController) GetProfile(c *gin.Context) {
	me := middlewares.CurrentUser(c)
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"id":        me.ID,
		"name":      me.Name,
		"email":     me.Email,
		"avatar":    me.AvatarURL(baseURL(c)),
		"createdAt": me.CreatedAt,
	})
}

type updateProfileInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UpdateProfile changes the caller's display name and/or avatar reference.
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	me := middlewares.CurrentUser(c)

	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}
	if input.Name == "" && input.Avatar == "" {
		utils.RespondError(c, utils.Validation("Nothing to update"))
		return
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Avatar != "" {
		updates["avatar"] = input.Avatar
	}
	if err := ctl.DB.Model(me).Updates(updates).Error; err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"id":     me.ID,
		"name":   me.Name,
		"email":  me.Email,
		"avatar": me.AvatarURL(baseURL(c)),
	})
}
