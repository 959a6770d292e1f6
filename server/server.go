package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"statusgraph/middleware"
	"statusgraph/service"
)

const apiVersion = "1.0"

type Server struct {
	engine *gin.Engine
	users  *service.UserService
	graph  *service.GraphService
	log    *zap.Logger
}

func NewServer(users *service.UserService, graph *service.GraphService, log *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))

	s := &Server{
		engine: engine,
		users:  users,
		graph:  graph,
		log:    log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	gates := middleware.NewGates(s.users)

	api := s.engine.Group("/" + apiVersion)
	api.GET("/", s.banner)
	api.POST("/", s.register)

	user := api.Group("/:username")
	user.GET("", gates.UserExists(), s.profile)
	user.GET("/followers", gates.UserExists(), s.listFollowers)
	user.GET("/following", gates.UserExists(), s.listFollowing)
	user.POST("/following", gates.AuthRequired(), s.follow)
	user.DELETE("/following/:target", gates.AuthRequired(), s.unfollow)
}

func (s *Server) Start(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}
