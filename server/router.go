package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig 是路由层的可选项。
type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter 注册全部路由：公开接口、用户接口（user token）、管理接口（admin token）。
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(h.Log), CORS(cfg.CORSOrigins))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/admin/login", h.AdminLogin)

	user := r.Group("/", RequireRole(h.Tokens, RoleUser))
	{
		user.POST("/profile", h.SaveProfile)
		user.GET("/profile", h.GetProfile)
		user.POST("/submit_pathway", h.SubmitPathway)
		user.POST("/save_recommendation", h.SaveRecommendation)
		user.GET("/my_recommendations", h.MyRecommendations)
		user.DELETE("/recommendations/:id", h.DeleteRecommendation)
	}

	admin := r.Group("/admin", RequireRole(h.Tokens, RoleAdmin))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminUsers)
		admin.DELETE("/user/:username", h.AdminDeleteUser)
		admin.GET("/recommendations", h.AdminRecommendations)
		admin.DELETE("/recommendation/:id", h.AdminDeleteRecommendation)
		admin.POST("/retrain", h.AdminRetrain)
	}
	return r
}
