package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"gym-backend/entity"
	"gym-backend/events"
	"gym-backend/gate"
	"gym-backend/hub"
	"gym-backend/identity"
	"gym-backend/internal/throttle"
	"gym-backend/mail"
	"gym-backend/roster"
	"gym-backend/session"
	"gym-backend/store"
	"gym-backend/web"
)

type resolverFunc func(context.Context, *identity.Identity) (gate.Role, error)

func (f resolverFunc) Resolve(ctx context.Context, id *identity.Identity) (gate.Role, error) {
	return f(ctx, id)
}

type browser struct {
	srv    *httptest.Server
	client *http.Client
	token  string
}

func newBrowser(srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	Expect(err).To(BeNil())

	return &browser{
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (*http.Response, map[string]interface{}) {
	res, err := b.client.Get(b.srv.URL + path)
	Expect(err).To(BeNil())
	defer res.Body.Close()

	body := map[string]interface{}{}
	_ = json.NewDecoder(res.Body).Decode(&body)
	return res, body
}

func (b *browser) fetchToken() {
	_, body := b.get("/login")
	b.token, _ = body["csrf_token"].(string)
	Expect(b.token).NotTo(BeEmpty())
}

func (b *browser) post(path string, form url.Values) *http.Response {
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(form.Encode()))
	Expect(err).To(BeNil())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if b.token != "" {
		req.Header.Set("X-CSRF-Token", b.token)
	}

	res, err := b.client.Do(req)
	Expect(err).To(BeNil())
	res.Body.Close()
	return res
}

func (b *browser) sessionID() string {
	u, err := url.Parse(b.srv.URL)
	Expect(err).To(BeNil())

	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == web.CookieName {
			return c.Value
		}
	}
	return ""
}

func (b *browser) login(email string) *http.Response {
	b.fetchToken()
	return b.post("/login", url.Values{"email": {email}, "password": {"testtest"}})
}

var _ = Describe("Web", func() {
	var (
		h    *hub.Hub
		srv  *httptest.Server
		down atomic.Bool
		b    *browser
	)

	BeforeEach(func() {
		ctx := context.Background()
		down.Store(false)

		mem := store.NewMemory()
		creds := identity.NewCredentials(mem)

		ana, err := creds.Create(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())
		Expect(mem.Insert(ctx, entity.CollectionStudents, &entity.Student{
			UID:     ana.UID,
			Name:    "Ana",
			Email:   ana.Email,
			DueDate: time.Now().Add(-48 * time.Hour),
		})).To(Succeed())
		_, err = creds.Create(ctx, "boss@gym.test", "testtest")
		Expect(err).To(BeNil())

		stored := gate.NewStoreResolver(mem, gate.PolicyInferred)
		resolver := resolverFunc(func(ctx context.Context, id *identity.Identity) (gate.Role, error) {
			if down.Load() {
				return gate.RoleNone, errors.New("store down")
			}
			return stored.Resolve(ctx, id)
		})

		routes, err := gate.LoadRoutes("")
		Expect(err).To(BeNil())

		h = hub.New(creds, session.NewMemoryStore(), events.NewLocalBus(), resolver, time.Hour)
		srv = httptest.NewServer(web.New(web.Deps{
			Hub:     h,
			Routes:  routes,
			Roster:  roster.New(mem, creds, mail.Noop{}),
			Limiter: throttle.New(100, 100),
			CSRFKey: []byte("01234567890123456789012345678901"),
		}))
		b = newBrowser(srv)
	})

	AfterEach(func() {
		srv.Close()
		h.Shutdown()
	})

	It("hands out a CSRF token on the login screen", func() {
		res, body := b.get("/login")
		Expect(res.StatusCode).To(Equal(http.StatusOK))
		Expect(body["csrf_token"]).NotTo(BeEmpty())
		Expect(body["signed_in"]).To(BeFalse())
	})

	It("rejects posts without a CSRF token", func() {
		res := b.post("/login", url.Values{"email": {"ana@gym.test"}, "password": {"testtest"}})
		Expect(res.StatusCode).To(Equal(http.StatusForbidden))
	})

	It("redirects anonymous visitors to the login screen", func() {
		res, _ := b.get("/admin/students")
		Expect(res.StatusCode).To(Equal(http.StatusFound))
		Expect(res.Header.Get("Location")).To(Equal("/login"))
	})

	It("sends a student to the student dashboard after login", func() {
		res := b.login("ana@gym.test")
		Expect(res.StatusCode).To(Equal(http.StatusFound))
		Expect(res.Header.Get("Location")).To(Equal("/student/dashboard"))

		res, body := b.get("/student/profile")
		Expect(res.StatusCode).To(Equal(http.StatusOK))
		Expect(body["screen"]).To(Equal("student.profile"))
	})

	It("redirects a student away from admin screens", func() {
		b.login("ana@gym.test")

		res, _ := b.get("/admin/overdue")
		Expect(res.StatusCode).To(Equal(http.StatusFound))
		Expect(res.Header.Get("Location")).To(Equal("/student/dashboard"))
	})

	It("lets an admin into admin screens only", func() {
		res := b.login("boss@gym.test")
		Expect(res.Header.Get("Location")).To(Equal("/admin/dashboard"))

		res, body := b.get("/admin/dashboard")
		Expect(res.StatusCode).To(Equal(http.StatusOK))
		Expect(body["students"]).To(BeEquivalentTo(1))
		Expect(body["overdue"]).To(BeEquivalentTo(1))

		res, _ = b.get("/student/dashboard")
		Expect(res.StatusCode).To(Equal(http.StatusFound))
		Expect(res.Header.Get("Location")).To(Equal("/admin/dashboard"))
	})

	It("rejects bad credentials", func() {
		b.fetchToken()
		res := b.post("/login", url.Values{"email": {"ana@gym.test"}, "password": {"nope"}})
		Expect(res.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(h.Len()).To(Equal(0))
	})

	It("signs out", func() {
		b.login("boss@gym.test")
		sess, ok := h.Lookup(b.sessionID())
		Expect(ok).To(BeTrue())

		res := b.post("/logout", nil)
		Expect(res.StatusCode).To(Equal(http.StatusFound))
		Expect(res.Header.Get("Location")).To(Equal("/login"))
		Expect(sess.Gate.State()).To(Equal(gate.State{}))
		Expect(h.Len()).To(Equal(0))

		res, _ = b.get("/admin/dashboard")
		Expect(res.Header.Get("Location")).To(Equal("/login"))
	})

	It("keeps gated screens pending while the role cannot be resolved", func() {
		down.Store(true)

		res := b.login("boss@gym.test")
		Expect(res.StatusCode).To(Equal(http.StatusServiceUnavailable))

		res, body := b.get("/admin/dashboard")
		Expect(res.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(res.Header.Get("Retry-After")).To(Equal("1"))
		Expect(body["error"]).To(ContainSubstring("E0021"))

		down.Store(false)
		res = b.post("/session/retry", nil)
		Expect(res.StatusCode).To(Equal(http.StatusAccepted))

		Eventually(func() int {
			res, _ := b.get("/admin/dashboard")
			return res.StatusCode
		}).Should(Equal(http.StatusOK))
	})
})
