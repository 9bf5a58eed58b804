package handler

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/pkg/response"
	"Finvisor/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

// ToggleFollow 关注/取消关注，返回本次落地的动作
func (s *UserFollowHandler) ToggleFollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.ToggleFollowReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	action, err := s.userFollowSvc.ToggleFollow(c.Request.Context(), userID, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToggleDTO{Action: action})
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	userID := s.targetUserID(c)
	page, pageSize := s.getPagination(c)

	followers, err := s.userFollowSvc.GetFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userID := s.targetUserID(c)
	page, pageSize := s.getPagination(c)

	followings, err := s.userFollowSvc.GetFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) GetUserFollowersCount(c *gin.Context) {
	count, err := s.userFollowSvc.GetFollowerCount(c.Request.Context(), s.targetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *UserFollowHandler) GetUserFollowingCount(c *gin.Context) {
	count, err := s.userFollowSvc.GetFollowingCount(c.Request.Context(), s.targetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

// GetSomeoneIsFollowing 查询自己是否关注了指定用户
func (s *UserFollowHandler) GetSomeoneIsFollowing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingID, err := strconv.ParseUint(c.Param("following_id"), 10, 64)
	if err != nil || followingID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isFollowing, err := s.userFollowSvc.IsFollowing(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"is_following": isFollowing})
}

// targetUserID 查询参数里带 user_id 时查别人，否则查自己
func (s *UserFollowHandler) targetUserID(c *gin.Context) uint64 {
	if target, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil && target > 0 {
		return target
	}
	return c.GetUint64("user_id")
}

func (s *UserFollowHandler) getPagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
