package handler

import (
	"github.com/gin-gonic/gin"
)

// Router groups the API handlers.
type Router struct {
	Auth          *AuthHandler
	Schedule      *ScheduleHandler
	CheckIns      *CheckInHandler
	Students      *StudentHandler
	Announcements *AnnouncementHandler
}

// RouteGuards are the middleware applied per route group. Nil guards are skipped.
type RouteGuards struct {
	Authenticated gin.HandlerFunc
	Teacher       gin.HandlerFunc
	SelfOrTeacher gin.HandlerFunc
	LoginLimit    gin.HandlerFunc
	CheckInLimit  gin.HandlerFunc
}

// Register mounts every API route on api.
func (r Router) Register(api *gin.RouterGroup, guards RouteGuards) {
	api.POST("/login", chain(r.Auth.Login, guards.LoginLimit)...)

	authed := api.Group("")
	if guards.Authenticated != nil {
		authed.Use(guards.Authenticated)
	}

	authed.GET("/agenda", r.Schedule.Agenda)
	authed.GET("/aulas/:id", r.Schedule.Get)
	authed.POST("/aulas", chain(r.Schedule.Create, guards.Teacher)...)
	authed.PUT("/aulas/:id", chain(r.Schedule.Update, guards.Teacher)...)
	authed.DELETE("/aulas/:id", chain(r.Schedule.Delete, guards.Teacher)...)

	authed.GET("/checkins/aula/:classId/data/:date", r.CheckIns.Roster)
	authed.POST("/checkins", chain(r.CheckIns.CheckIn, guards.CheckInLimit)...)
	authed.DELETE("/checkins", chain(r.CheckIns.Cancel, guards.CheckInLimit)...)
	authed.GET("/checkins/relatorio", chain(r.CheckIns.Report, guards.Teacher)...)

	authed.GET("/alunos", chain(r.Students.List, guards.Teacher)...)
	authed.POST("/alunos", chain(r.Students.Create, guards.Teacher)...)
	authed.GET("/alunos/me", r.Students.Me)
	authed.GET("/alunos/:id", chain(r.Students.Get, guards.SelfOrTeacher)...)

	authed.GET("/avisos", r.Announcements.List)
	authed.GET("/avisos/novidades", r.Announcements.Updates)
	authed.GET("/avisos/:id", r.Announcements.Get)
	authed.POST("/avisos", chain(r.Announcements.Create, guards.Teacher)...)
	authed.PUT("/avisos/:id", chain(r.Announcements.Update, guards.Teacher)...)
	authed.DELETE("/avisos/:id", chain(r.Announcements.Delete, guards.Teacher)...)
}

func chain(final gin.HandlerFunc, guards ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	for _, guard := range guards {
		if guard != nil {
			out = append(out, guard)
		}
	}
	return append(out, final)
}
