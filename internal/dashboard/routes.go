package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/insertion"
	"github.com/zulandar/strand/internal/layout"
	"github.com/zulandar/strand/internal/position"
	"github.com/zulandar/strand/internal/ring"
	"gorm.io/gorm"
)

type server struct {
	db      *gorm.DB
	mgr     *position.Manager
	catalog []ring.Bead
}

// beadRequest names a catalog bead or carries one inline.
type beadRequest struct {
	Name     string     `json:"name"`
	Bead     *ring.Bead `json:"bead"`
	InsertAt *int       `json:"insert_at"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
}

type indexRequest struct {
	Index *int    `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type saveRequest struct {
	Name string `json:"name"`
}

// registerRoutes sets up all dashboard routes on the Gin router.
func (s *server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/state", s.handleState)
	api.GET("/catalog", s.handleCatalog)

	api.POST("/beads", s.handleAddBead)
	api.PUT("/beads/selected", s.handleReplaceBead)
	api.DELETE("/beads/selected", s.handleRemoveBead)
	api.POST("/beads/selected/move", s.handleMoveBead)

	api.POST("/select", s.handleSelect)
	api.DELETE("/select", s.handleDeselect)
	api.POST("/drag", s.handleDrag)
	api.POST("/drop", s.handleDrop)

	api.POST("/undo", s.handleUndo)
	api.POST("/redo", s.handleRedo)

	api.GET("/designs", s.handleListDesigns)
	api.POST("/designs", s.handleSaveDesign)
	api.POST("/designs/:id/load", s.handleLoadDesign)

	api.GET("/events", s.handleSSE)
}

func (s *server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"beads": s.catalog})
}

// bead resolves the request to a validated bead.
func (s *server) bead(req beadRequest) (ring.Bead, error) {
	if req.Bead != nil {
		b := *req.Bead
		if b.Category == "" {
			b.Category = ring.CoreBead
		}
		return b, b.Validate()
	}
	if req.Name == "" {
		return ring.Bead{}, errors.New("dashboard: name or bead is required")
	}
	for _, b := range s.catalog {
		if b.Name == req.Name {
			return b, nil
		}
	}
	return ring.Bead{}, fmt.Errorf("dashboard: unknown catalog bead %q", req.Name)
}

func (s *server) bindBead(c *gin.Context) (beadRequest, ring.Bead, bool) {
	var req beadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return req, ring.Bead{}, false
	}
	b, err := s.bead(req)
	if err != nil {
		badRequest(c, err)
		return req, ring.Bead{}, false
	}
	return req, b, true
}

func (s *server) handleAddBead(c *gin.Context) {
	req, b, ok := s.bindBead(c)
	if !ok {
		return
	}
	at := -1
	if req.InsertAt != nil {
		at = *req.InsertAt
	}
	if err := s.mgr.AddBead(c.Request.Context(), b, at); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) handleReplaceBead(c *gin.Context) {
	_, b, ok := s.bindBead(c)
	if !ok {
		return
	}
	if err := s.mgr.ReplaceBead(c.Request.Context(), b); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) handleRemoveBead(c *gin.Context) {
	if err := s.mgr.RemoveBead(c.Request.Context()); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) handleMoveBead(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dir, err := layout.ParseDirection(req.Direction)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := s.mgr.MoveBead(c.Request.Context(), dir); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) bindIndex(c *gin.Context) (indexRequest, bool) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return req, false
	}
	if req.Index == nil {
		badRequest(c, errors.New("dashboard: index is required"))
		return req, false
	}
	return req, true
}

func (s *server) handleSelect(c *gin.Context) {
	req, ok := s.bindIndex(c)
	if !ok {
		return
	}
	if err := s.mgr.SelectBead(c.Request.Context(), *req.Index); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

func (s *server) handleDeselect(c *gin.Context) {
	if err := s.mgr.DeselectBead(c.Request.Context()); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}

// dropResponse pairs the insertion decision with the resulting state.
type dropResponse struct {
	Result insertion.Result `json:"result"`
	State  position.State   `json:"state"`
}

func (s *server) handleDrag(c *gin.Context) {
	req, ok := s.bindIndex(c)
	if !ok {
		return
	}
	res, err := s.mgr.DragBeadToPosition(c.Request.Context(), *req.Index, insertion.Point{X: req.X, Y: req.Y})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dropResponse{Result: res, State: s.mgr.State()})
}

func (s *server) handleDrop(c *gin.Context) {
	req, b, ok := s.bindBead(c)
	if !ok {
		return
	}
	res, err := s.mgr.DropBead(c.Request.Context(), b, insertion.Point{X: req.X, Y: req.Y})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dropResponse{Result: res, State: s.mgr.State()})
}

func (s *server) handleUndo(c *gin.Context) {
	applied, err := s.mgr.Undo(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "state": s.mgr.State()})
}

func (s *server) handleRedo(c *gin.Context) {
	applied, err := s.mgr.Redo(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "state": s.mgr.State()})
}

func (s *server) handleListDesigns(c *gin.Context) {
	filters := design.ListFilters{Name: c.Query("name")}
	if v := c.Query("draft"); v != "" {
		draft, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, fmt.Errorf("dashboard: draft: %w", err))
			return
		}
		filters.Draft = &draft
	}
	designs, err := design.List(s.db, filters)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"designs": designs})
}

func (s *server) handleSaveDesign(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, errors.New("dashboard: name is required"))
		return
	}
	st := s.mgr.State()
	d, err := design.Save(s.db, design.SaveOpts{
		Name:            req.Name,
		Beads:           ring.StripAll(st.Beads),
		PredictedLength: st.PredictedLength,
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (s *server) handleLoadDesign(c *gin.Context) {
	d, err := design.Get(s.db, c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	if err := s.mgr.SetBeads(c.Request.Context(), design.ToBeads(d)); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, s.mgr.State())
}
