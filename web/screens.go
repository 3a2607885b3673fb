package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gym-backend/entity"
	"gym-backend/errs"
	pb "gym-backend/proto"
)

func (s *server) screen(name string) gin.HandlerFunc {
	switch name {
	case "admin.dashboard":
		return s.adminDashboard
	case "admin.students":
		return s.students
	case "admin.overdue":
		return s.overdue
	case "student.dashboard", "student.profile":
		return s.profile(name)
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"screen": name})
	}
}

func failed(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func toProto(students []*entity.Student) []*pb.Student {
	out := make([]*pb.Student, 0, len(students))
	for _, st := range students {
		out = append(out, st.ToProto())
	}
	return out
}

func (s *server) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := s.Roster.ListStudents(ctx)
	if err != nil {
		failed(c, err)
		return
	}
	overdue, err := s.Roster.ListOverdue(ctx, time.Now())
	if err != nil {
		failed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"screen":   "admin.dashboard",
		"email":    stateOf(c).Identity.Email,
		"students": len(all),
		"overdue":  len(overdue),
	})
}

func (s *server) students(c *gin.Context) {
	all, err := s.Roster.ListStudents(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"screen": "admin.students", "students": toProto(all)})
}

func (s *server) overdue(c *gin.Context) {
	at := time.Now()
	if v := c.Query("at"); v != "" {
		t, err := entity.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrInvalidDate.Error()})
			return
		}
		at = t
	}

	due, err := s.Roster.ListOverdue(c.Request.Context(), at)
	if err != nil {
		failed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"screen": "admin.overdue", "students": toProto(due)})
}

func (s *server) profile(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := s.Roster.Profile(c.Request.Context(), stateOf(c).UID())
		if err != nil {
			failed(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"screen": name, "profile": p.ToProto()})
	}
}
