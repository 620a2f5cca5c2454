package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
)

type errorResponse struct {
	Error string `json:"error"`
}

type genresResponse struct {
	Kind   domain.MediaKind `json:"kind"`
	Genres []domain.Genre   `json:"genres"`
}

type moreResponse struct {
	listing.State
	Triggered bool `json:"triggered"`
}

func (s *Server) session(c *gin.Context) *session {
	id, _ := c.Cookie(SessionCookie)
	sess, created := s.sessions.get(id)
	if created {
		maxAge := int(s.opts.SessionTTL.Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.id, maxAge, "/", "", false, true)
	}
	return sess
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGenres(c *gin.Context) {
	kind, ok := domain.ParseMediaKind(c.Query("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown type " + c.Query("type")})
		return
	}

	dict, err := s.catalog.FetchGenres(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: domain.UserMessage(err)})
		return
	}

	genres := dict.ForKind(kind)
	if genres == nil {
		genres = []domain.Genre{}
	}
	c.JSON(http.StatusOK, genresResponse{Kind: kind, Genres: genres})
}

// handleTitles binds the query to the session's list and returns the settled
// state. An unchanged query returns the current list without reloading;
// refresh=1 forces a reload.
func (s *Server) handleTitles(c *gin.Context) {
	sess := s.session(c)
	sess.reqMu.Lock()
	defer sess.reqMu.Unlock()

	if dict, err := s.catalog.FetchGenres(c.Request.Context()); err == nil {
		sess.binder.SetGenres(dict)
	} else {
		s.logger.Warn("genre names will not be resolved", "error", err)
	}

	params, changed := sess.binder.ApplyValues(c.Request.URL.Query())
	if !changed && c.Query("refresh") == "1" {
		sess.binder.Force(params)
	}

	state, ok := s.settled(c, sess)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleMore(c *gin.Context) {
	sess := s.session(c)
	sess.reqMu.Lock()
	defer sess.reqMu.Unlock()

	triggered := sess.list.LoadNextPage()

	state, ok := s.settled(c, sess)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, moreResponse{State: state, Triggered: triggered})
}

// settled waits for in-flight fetches and returns the snapshot. On a canceled
// or timed-out request it writes the error response and reports false.
func (s *Server) settled(c *gin.Context, sess *session) (listing.State, bool) {
	if err := sess.list.Wait(c.Request.Context()); err != nil {
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: domain.UserMessage(err)})
		return listing.State{}, false
	}
	state := sess.list.Snapshot()
	if state.Items == nil {
		state.Items = []domain.CatalogItem{}
	}
	return state, true
}

func (s *Server) handleDetail(c *gin.Context) {
	kind, ok := domain.ParseMediaKind(c.Param("kind"))
	if !ok || kind == domain.KindAll {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "kind must be movie or tv"})
		return
	}

	detail, err := s.catalog.Detail(c.Request.Context(), kind, c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: domain.UserMessage(err)})
	case err != nil:
		c.JSON(http.StatusBadGateway, errorResponse{Error: domain.UserMessage(err)})
	default:
		c.JSON(http.StatusOK, detail)
	}
}
