// Package web is the browser facing route surface. Every role-gated screen
// goes through the session gate, which decides between rendering it and
// redirecting.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/gate"
	"gym-backend/hub"
	"gym-backend/internal/throttle"
	"gym-backend/log"
	"gym-backend/roster"
)

const (
	CookieName = "gym_session"
	stateKey   = "gate.state"
)

type Deps struct {
	Hub     *hub.Hub
	Routes  *gate.Routes
	Roster  *roster.Roster
	Limiter *throttle.Limiter

	CSRFKey       []byte
	SecureCookies bool
}

type server struct {
	Deps
	paths gate.Paths
}

// New returns the HTTP handler: a gin engine behind CSRF protection.
func New(d Deps) http.Handler {
	s := &server{Deps: d, paths: d.Routes.Paths()}

	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	router.GET(s.paths.Login, s.loginForm)
	router.POST(s.paths.Login, s.login)
	router.POST("/logout", s.logout)
	router.POST("/session/retry", s.retry)

	for _, dst := range d.Routes.Destinations() {
		if dst.Role == gate.RoleNone {
			continue
		}
		router.GET(dst.Path, s.guard(dst.Name), s.screen(dst.Name))
	}

	protect := csrf.Protect(d.CSRFKey,
		csrf.Secure(d.SecureCookies),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)

	return protect(router)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	log.Logger.Info("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
	http.Error(w, "forbidden", http.StatusForbidden)
}

// session returns the live session named by the request cookie, if the
// session store still knows it.
func (s *server) session(c *gin.Context) (*hub.Session, bool) {
	id, err := c.Cookie(CookieName)
	if err != nil || id == "" {
		return nil, false
	}

	sess, err := s.Hub.Resume(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, errs.ErrSessionNotFound) {
			log.Logger.Error("failed resuming session", zap.String("session", id), zap.Error(err))
		}
		return nil, false
	}

	return sess, true
}

// state is the gate state of the request's session once it settled on the
// stored identity, or whatever it is when hub.SettleTimeout passes.
func (s *server) state(c *gin.Context) gate.State {
	sess, ok := s.session(c)
	if !ok {
		return gate.State{}
	}

	ctx := c.Request.Context()
	current, err := sess.Provider.Current(ctx)
	if err != nil {
		log.Logger.Error("failed reading session", zap.String("session", sess.ID), zap.Error(err))
		return gate.State{}
	}
	if current == nil {
		return gate.State{}
	}

	return sess.Wait(ctx, gate.SettledFor(current.UID), hub.SettleTimeout)
}

func (s *server) guard(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := s.state(c)

		d, err := s.Routes.Check(name, st)
		if err != nil {
			log.Logger.Error("guarding unknown destination", zap.String("destination", name), zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		switch d.Action {
		case gate.Render:
			c.Set(stateKey, st)
			c.Next()
		case gate.RedirectToLogin, gate.RedirectToOwnDashboard:
			c.Redirect(http.StatusFound, d.Target)
			c.Abort()
		case gate.Pending:
			pending(c, d.Err)
		}
	}
}

func pending(c *gin.Context, reason error) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
		"error": reason.Error(),
		"retry": "/session/retry",
	})
}

func stateOf(c *gin.Context) gate.State {
	v, _ := c.Get(stateKey)
	st, _ := v.(gate.State)
	return st
}

func (s *server) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", s.SecureCookies, true)
}

type credentials struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (s *server) loginForm(c *gin.Context) {
	st := s.state(c)

	c.JSON(http.StatusOK, gin.H{
		"csrf_token": csrf.Token(c.Request),
		"signed_in":  st.Identity != nil,
		"role":       st.Role,
	})
}

// login opens a fresh session for the credentials and sends the browser to
// its dashboard.
func (s *server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrEmailRequired.Error()})
		return
	}

	if !s.Limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": errs.ErrRateLimited.Error()})
		return
	}

	if sess, ok := s.session(c); ok {
		s.signOut(c.Request.Context(), sess)
	}

	sess := s.Hub.Open(s.Hub.NewID())
	_, st, err := sess.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.Hub.Close(sess.ID)

		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, errs.ErrInvalidEmailOrPassword):
			code = http.StatusUnauthorized
		case errors.Is(err, errs.ErrEmailRequired), errors.Is(err, errs.ErrPasswordRequired):
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	s.setCookie(c, sess.ID, 0)

	if st.Role == gate.RoleNone {
		reason := st.Err
		if reason == nil {
			reason = errs.ErrRolePending
		}
		pending(c, reason)
		return
	}

	c.Redirect(http.StatusFound, s.paths.Dashboard(st.Role))
}

func (s *server) signOut(ctx context.Context, sess *hub.Session) {
	if err := sess.SignOut(ctx); err != nil {
		log.Logger.Error("sign-out failed", zap.String("session", sess.ID), zap.Error(err))
	}
	s.Hub.Close(sess.ID)
}

func (s *server) logout(c *gin.Context) {
	if sess, ok := s.session(c); ok {
		s.signOut(c.Request.Context(), sess)
	}

	s.setCookie(c, "", -1)
	c.Redirect(http.StatusFound, s.paths.Login)
}

func (s *server) retry(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		c.Redirect(http.StatusFound, s.paths.Login)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"started": sess.Retry()})
}
