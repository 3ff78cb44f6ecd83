package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yaqoubhassan/express-chat-api/middlewares"
	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	tokens   *services.TokenService
	manager  *services.Manager
	messages *services.MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	models.Migrate(db)

	tokens := services.NewTokenService("test-secret")
	email := utils.NewEmailSender("", "", "", "", "test@example.com")
	conversations := services.NewConversationService(db)
	messages := services.NewMessageService(db, conversations)
	manager := services.NewManager(db, messages, "http://localhost:3000")
	go manager.Run()

	router := gin.New()

	auth := &AuthController{DB: db, Tokens: tokens, Email: email}
	users := &UserController{DB: db, Presence: manager.Presence()}
	convCtl := &ConversationController{DB: db, Conversations: conversations, Messages: messages, Presence: manager.Presence()}
	msgCtl := &MessageController{DB: db, Messages: messages, Manager: manager}

	api := router.Group("/api")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/verify-email", auth.VerifyEmail)
	api.POST("/auth/resend-otp", auth.ResendOtp)
	api.POST("/auth/login", auth.Login)

	protected := api.Group("")
	protected.Use(middlewares.TokenAuthMiddleware(db, tokens))
	protected.GET("/users", users.GetUsers)
	protected.GET("/users/profile", users.GetProfile)
	protected.PUT("/users/update", users.UpdateProfile)
	protected.GET("/conversations", convCtl.GetConversations)
	protected.GET("/conversations/:userId/messages", convCtl.GetMessages)
	protected.POST("/messages", msgCtl.SendMessage)
	protected.PATCH("/messages/:messageId", msgCtl.UpdateMessage)
	protected.PATCH("/messages/:messageId/read", msgCtl.MarkMessageRead)

	return &testEnv{db: db, router: router, tokens: tokens, manager: manager, messages: messages}
}

func (env *testEnv) createVerifiedUser(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      name + "@example.com",
		IsVerified: true,
	}
	require.NoError(t, user.SetPassword("password1"))
	require.NoError(t, env.db.Create(user).Error)

	token, err := env.tokens.Generate(user.ID)
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}
