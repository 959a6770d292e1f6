package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"statusgraph/middleware"
	"statusgraph/service"
)

type registerRequest struct {
	UserName string `json:"user_name" form:"user_name"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

type followRequest struct {
	UserName string `json:"user_name" form:"user_name"`
	Password string `json:"password" form:"password"`
}

func (s *Server) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statusgraph": "Welcome", "version": apiVersion})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	uid, err := s.users.Register(c.Request.Context(), req.UserName, req.Password, req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uid": uid})
}

func (s *Server) profile(c *gin.Context) {
	profile, err := s.users.ProfileByID(c.Request.Context(), middleware.UID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) follow(c *gin.Context) {
	// The auth gate already bound and cached the body.
	var req followRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil || req.UserName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_name is required"})
		return
	}

	if err := s.graph.Follow(c.Request.Context(), middleware.UID(c), req.UserName); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"following": req.UserName})
}

func (s *Server) unfollow(c *gin.Context) {
	removed, err := s.graph.Unfollow(c.Request.Context(), middleware.UID(c), c.Param("target"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": removed})
}

func (s *Server) listFollowers(c *gin.Context) {
	followers, err := s.graph.Followers(c.Request.Context(), middleware.UID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (s *Server) listFollowing(c *gin.Context) {
	following, err := s.graph.Following(c.Request.Context(), middleware.UID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindBadRequest:
		status = http.StatusBadRequest
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		s.log.Error("request failed", zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
