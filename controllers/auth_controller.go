package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Tokens *services.TokenService
	Email  *utils.EmailSender
}

type registerInput struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"required"`
}

// Register creates an unverified user and mails a verification code.
func (ctl *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}
	if input.Password != input.PasswordConfirmation {
		utils.RespondError(c, utils.Validation("Passwords do not match"))
		return
	}

	var existing models.User
	if err := ctl.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, utils.Conflict("User already exists"))
		return
	}

	otp, otpExpires := utils.GenerateOtp()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Otp:          &otp,
		OtpExpiresAt: &otpExpires,
		ActiveStatus: time.Now(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}
	if err := ctl.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	if err := ctl.Email.SendVerificationEmail(user.Email, otp); err != nil {
		// Registration already succeeded; the user can ask for a resend.
		log.Printf("failed to send verification email to %s: %v", user.Email, err)
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
		"message":   "Verification code sent to your email",
	})
}

type verifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required"`
}

// VerifyEmail confirms the OTP, marks the user verified and issues a token.
func (ctl *AuthController) VerifyEmail(c *gin.Context) {
	var input verifyEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}

	user, err := ctl.findByEmail(input.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user.IsVerified {
		utils.RespondError(c, utils.Conflict("User is already verified"))
		return
	}
	if user.Otp == nil || *user.Otp != input.Otp {
		utils.RespondError(c, utils.Validation("Invalid verification code"))
		return
	}
	if user.OtpExpiresAt == nil || time.Now().After(*user.OtpExpiresAt) {
		utils.RespondError(c, utils.Expired("Verification code has expired"))
		return
	}

	user.IsVerified = true
	user.ClearOtp()
	if err := ctl.DB.Model(user).Select("is_verified", "otp", "otp_expires_at").Updates(map[string]interface{}{
		"is_verified":    true,
		"otp":            nil,
		"otp_expires_at": nil,
	}).Error; err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	token, err := ctl.Tokens.Generate(user.ID)
	if err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"token": token,
	})
}

type resendOtpInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendOtp regenerates the verification code and mails it again.
func (ctl *AuthController) ResendOtp(c *gin.Context) {
	var input resendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}

	user, err := ctl.findByEmail(input.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user.IsVerified {
		utils.RespondError(c, utils.Conflict("User is already verified"))
		return
	}

	otp, otpExpires := utils.GenerateOtp()
	if err := ctl.DB.Model(user).Updates(map[string]interface{}{
		"otp":            otp,
		"otp_expires_at": otpExpires,
	}).Error; err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	if err := ctl.Email.SendVerificationEmail(user.Email, otp); err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	utils.RespondMessage(c, http.StatusOK, "Verification code sent to your email")
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns a fresh token with the profile.
func (ctl *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}

	var user models.User
	if err := ctl.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, utils.Unauthorized("Invalid email or password"))
		return
	}
	if !user.CheckPassword(input.Password) {
		utils.RespondError(c, utils.Unauthorized("Invalid email or password"))
		return
	}
	if !user.IsVerified {
		utils.RespondError(c, utils.Forbidden("Please verify your email before logging in"))
		return
	}

	token, err := ctl.Tokens.Generate(user.ID)
	if err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.AvatarURL(baseURL(c)),
		"token":  token,
	})
}

func (ctl *AuthController) findByEmail(email string) (*models.User, error) {
	var user models.User
	if err := ctl.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal(err)
	}
	return &user, nil
}
