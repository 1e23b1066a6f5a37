package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"go.uber.org/zap"
)

type UserHandler struct {
	Handler
	service port.SessionService
}

type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func NewUserHandler(service port.SessionService, logger *zap.Logger) (*UserHandler, error) {
	return &UserHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

func (uh *UserHandler) RegisterUser(ctx *gin.Context) {
	userReq := UserRequest{}
	err := ctx.ShouldBindJSON(&userReq)
	if err != nil {
		uh.handleValidationError(ctx, err)
		return
	}

	token, err := uh.service.RegisterUser(ctx, userReq.Username, userReq.Password)
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	ctx.Header(authHeaderKey, authType+" "+token)
	uh.handleSuccess(ctx, tokenResponse{Token: token})
}

func (uh *UserHandler) LoginUser(ctx *gin.Context) {
	userReq := UserRequest{}
	err := ctx.ShouldBindJSON(&userReq)
	if err != nil {
		uh.handleValidationError(ctx, err)
		return
	}

	token, err := uh.service.LoginUser(ctx, userReq.Username, userReq.Password)
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	ctx.Header(authHeaderKey, authType+" "+token)
	uh.handleSuccess(ctx, tokenResponse{Token: token})
}

func (uh *UserHandler) LogoutUser(ctx *gin.Context) {
	username := getAuthPayload(ctx).Username

	err := uh.service.LogoutUser(ctx, username)
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	uh.handleSuccess(ctx, nil)
}
