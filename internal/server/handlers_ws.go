package server

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/postpulse/internal/domain"
	apperrors "github.com/pscheid92/postpulse/internal/errors"
)

// handleSubscribe upgrades the connection and attaches it to the post's
// update stream. Subscribers receive the current counters whenever any user
// toggles a reaction on the post.
func (s *Server) handleSubscribe(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	// Verify the post exists before upgrading, so a bad id yields a clean 404
	// instead of a dangling websocket.
	if _, err := s.posts.GetPost(c.Request().Context(), postID, nil); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return apperrors.NotFoundError("post not found").WithField("post_id", postID.String())
		}
		return apperrors.InternalError("failed to look up post", err).WithField("post_id", postID.String())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return apperrors.ValidationError("websocket upgrade failed")
	}

	if err := s.hub.Register(postID, conn); err != nil {
		_ = conn.Close()
		return apperrors.InternalError("failed to register subscriber", err).WithField("post_id", postID.String())
	}

	slog.Debug("Subscriber connected", "post_id", postID.String())

	// Drain the read side until the client goes away. Inbound messages are
	// ignored; the stream is server-to-client only.
	go func() {
		defer s.hub.Unregister(postID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
