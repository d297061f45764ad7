package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sanduni-hettiarachchi/TeaFactory-management-System-sub002/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Login(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.svc.CreateUser(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.GetUser(c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, users)
}
