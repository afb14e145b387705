package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/conv"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/service"
)

// Handler 汇总全部 HTTP 处理函数。
type Handler struct {
	Recommender *service.Recommender
	Accounts    *service.Accounts
	Profiles    *service.Profiles
	Admin       *service.Admin
	Registry    *model.Registry
	Tokens      *TokenIssuer
	Log         *logger.Logger
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	credentials
	ConfirmPassword string `json:"confirm_password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Accounts.CreateAccount(c.Request.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}

func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	token, err := h.Tokens.Issue(id, RoleUser)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Admin.Authenticate(req.Username, req.Password); err != nil {
		h.writeError(c, err)
		return
	}
	token, err := h.Tokens.Issue(0, RoleAdmin)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *Handler) Health(c *gin.Context) {
	ready := h.Registry.Ready()
	status := http.StatusOK
	if len(ready) < len(core.Pathways()) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "ready": ready})
}

type profileRequest struct {
	Age            int    `json:"age" binding:"gte=0,lte=120"`
	EducationLevel string `json:"education_level"`
	CurrentStatus  string `json:"current_status"`
	Skills         string `json:"skills"`
	Interests      string `json:"interests"`
	Barriers       string `json:"barriers"`
}

func (h *Handler) SaveProfile(c *gin.Context) {
	uid, _ := currentUserID(c)
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p := &core.UserProfile{
		UserID:         uid,
		Age:            req.Age,
		EducationLevel: req.EducationLevel,
		CurrentStatus:  req.CurrentStatus,
		Skills:         req.Skills,
		Interests:      req.Interests,
		Barriers:       req.Barriers,
	}
	if err := h.Profiles.SaveProfile(c.Request.Context(), p); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetProfile(c *gin.Context) {
	uid, _ := currentUserID(c)
	p, err := h.Profiles.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": p})
}

type submitRequest struct {
	Pathway   string            `json:"pathway" binding:"required"`
	Responses map[string]any `json:"responses"`
}

func (h *Handler) SubmitPathway(c *gin.Context) {
	uid, _ := currentUserID(c)
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Recommender.Submit(c.Request.Context(), uid, req.Pathway, conv.StringMap(req.Responses))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pathway": res.Pathway, "recommendations": res.Items})
}

type saveRequest struct {
	Pathway        string     `json:"pathway" binding:"required"`
	Recommendation *core.Item `json:"recommendation" binding:"required"`
}

func (h *Handler) SaveRecommendation(c *gin.Context) {
	uid, _ := currentUserID(c)
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := h.Recommender.SaveRecommendation(c.Request.Context(), uid, req.Pathway, req.Recommendation)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "saved": saved})
}

func (h *Handler) MyRecommendations(c *gin.Context) {
	uid, _ := currentUserID(c)
	list, err := h.Recommender.ListSaved(c.Request.Context(), uid)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": list})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) DeleteRecommendation(c *gin.Context) {
	uid, _ := currentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Recommender.DeleteSaved(c.Request.Context(), id, uid); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Admin.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats, "ready": h.Registry.Ready()})
}

func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	if err := h.Admin.DeleteUser(c.Request.Context(), c.Param("username")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

func (h *Handler) AdminRecommendations(c *gin.Context) {
	list, err := h.Admin.ListRecommendations(c.Request.Context(), c.Query("pathway"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": list})
}

func (h *Handler) AdminDeleteRecommendation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Admin.DeleteRecommendation(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recommendation deleted successfully"})
}

type retrainRequest struct {
	ModelType string `json:"model_type"`
}

func (h *Handler) AdminRetrain(c *gin.Context) {
	var req retrainRequest
	// 空 body 等同于 model_type=all
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	done, err := h.Admin.Retrain(c.Request.Context(), req.ModelType)
	if err != nil {
		if core.IsInvalidInput(err) {
			h.writeError(c, err)
			return
		}
		h.Log.Error("retrain failed", "request_id", c.GetString(ctxRequestID), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Error retraining models: " + err.Error(),
			"retrained": done,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Models retrained successfully", "retrained": done})
}
