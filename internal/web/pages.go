package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/andGarc/portfolio/internal/modal"
	"github.com/gin-gonic/gin"
)

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": s.site.Profile.Name,
		"Site":  s.site,
	})
}

func (s *Server) projects(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", gin.H{
		"Title":    "Projects",
		"Projects": s.site.Projects,
	})
}

// projectModal returns the dialog fragment in its entrance state along
// with the transition table the browser component steps through.
func (s *Server) projectModal(c *gin.Context) {
	project, ok := s.site.Project(c.Param("slug"))
	if !ok {
		c.String(http.StatusNotFound, "project not found")
		return
	}

	var m modal.Modal
	m.Fire(modal.EventOpen)
	machine, err := json.Marshal(modal.MachineFrom(m.State()))
	if err != nil {
		log.Printf("Error encoding modal machine [%s]: %v", requestID(c), err)
		c.String(http.StatusInternalServerError, "failed to render project")
		return
	}

	c.HTML(http.StatusOK, "project-modal.html", gin.H{
		"Project": project,
		"State":   m.State().String(),
		"Machine": string(machine),
		"Closed":  modal.ClassesFor(modal.Closing),
		"Open":    modal.ClassesFor(modal.Open),
		"Classes": modal.ClassesFor(m.State()),
	})
}

func (s *Server) timeline(c *gin.Context) {
	c.HTML(http.StatusOK, "timeline.html", gin.H{
		"Title":    "Professional Timeline",
		"Timeline": s.site.Timeline,
	})
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"Title":    "Privacy Policy",
		"Tracking": s.visits != nil,
	})
}
