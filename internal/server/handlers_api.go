package server

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/postpulse/internal/domain"
	apperrors "github.com/pscheid92/postpulse/internal/errors"
)

// postResponse is the post view serialized for API callers. ViewerReaction is
// "LIKE", "DISLIKE", or null when the caller has no reaction (or no identity).
type postResponse struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	LikeCount      int     `json:"likeCount"`
	DislikeCount   int     `json:"dislikeCount"`
	ViewerReaction *string `json:"viewerReaction"`
}

func toPostResponse(view *domain.PostView) postResponse {
	resp := postResponse{
		ID:           view.Post.ID.String(),
		Content:      view.Post.Content,
		LikeCount:    view.Post.LikeCount,
		DislikeCount: view.Post.DislikeCount,
	}
	if view.ViewerReaction != nil {
		wire := view.ViewerReaction.Wire()
		resp.ViewerReaction = &wire
	}
	return resp
}

func (s *Server) handleGetPost(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	var viewerID *uuid.UUID
	if userID, ok := c.Get("userID").(uuid.UUID); ok {
		viewerID = &userID
	}

	view, err := s.posts.GetPost(c.Request().Context(), postID, viewerID)
	if err != nil {
		return postError(err, postID)
	}

	if err := c.JSON(200, toPostResponse(view)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleToggleLike(c echo.Context) error {
	return s.handleToggle(c, domain.ReactionLike)
}

func (s *Server) handleToggleDislike(c echo.Context) error {
	return s.handleToggle(c, domain.ReactionDislike)
}

func (s *Server) handleToggle(c echo.Context, kind domain.ReactionKind) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	view, err := s.posts.ToggleReaction(c.Request().Context(), postID, userID, kind)
	if err != nil {
		return postError(err, postID)
	}

	if err := c.JSON(200, toPostResponse(view)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type createPostRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreatePost(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	post, err := s.posts.CreatePost(c.Request().Context(), userID, req.Content)
	if errors.Is(err, domain.ErrInvalidReference) {
		return apperrors.ValidationError("content must be non-empty")
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("user not found").WithField("user_id", userID.String())
	}
	if err != nil {
		return apperrors.InternalError("failed to create post", err)
	}

	if err := c.JSON(201, toPostResponse(&domain.PostView{Post: post})); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type registerUserRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleRegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	user, err := s.users.RegisterUser(c.Request().Context(), req.Username)
	if errors.Is(err, domain.ErrInvalidReference) {
		return apperrors.ValidationError("username must be 1-64 characters")
	}
	if errors.Is(err, domain.ErrUsernameTaken) {
		return apperrors.ConflictError("username already taken").WithField("username", req.Username)
	}
	if err != nil {
		return apperrors.InternalError("failed to register user", err)
	}

	token, err := s.resolver.Mint(user.ID, registrationTokenTTL)
	if err != nil {
		return apperrors.InternalError("failed to sign token", err)
	}

	if err := c.JSON(201, map[string]string{
		"id":       user.ID.String(),
		"username": user.Username,
		"token":    token,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// postError maps domain errors from the post use cases to HTTP errors.
func postError(err error, postID uuid.UUID) error {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return apperrors.NotFoundError("post not found").WithField("post_id", postID.String())
	case errors.Is(err, domain.ErrInvalidReference):
		return apperrors.ValidationError("invalid reference")
	case errors.Is(err, domain.ErrToggleConflict):
		return apperrors.ConflictError("concurrent toggle, retry").WithField("post_id", postID.String())
	default:
		return apperrors.InternalError("request failed", err).WithField("post_id", postID.String())
	}
}
