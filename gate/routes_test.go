package gate

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"gym-backend/errs"
	"gym-backend/identity"
)

var _ = Describe("Routes", func() {
	var routes *Routes

	BeforeEach(func() {
		var err error
		routes, err = LoadRoutes("")
		Expect(err).To(BeNil())
	})

	It("loads the built-in table", func() {
		Expect(routes.Paths()).To(Equal(DefaultPaths))
		Expect(routes.Destinations()).To(HaveLen(6))

		d, ok := routes.Destination("admin.overdue")
		Expect(ok).To(BeTrue())
		Expect(d.Path).To(Equal("/admin/overdue"))
		Expect(d.Role).To(Equal(RoleAdmin))
	})

	It("always renders public destinations", func() {
		d, err := routes.Check("login", State{})
		Expect(err).To(BeNil())
		Expect(d.Action).To(Equal(Render))
	})

	It("guards role destinations", func() {
		s := State{Identity: &identity.Identity{UID: "u1"}, Role: RoleStudent}

		d, err := routes.Check("admin.students", s)
		Expect(err).To(BeNil())
		Expect(d.Action).To(Equal(RedirectToOwnDashboard))
		Expect(d.Target).To(Equal("/student/dashboard"))

		d, err = routes.Check("student.profile", s)
		Expect(err).To(BeNil())
		Expect(d.Action).To(Equal(Render))
	})

	It("rejects unknown destinations", func() {
		_, err := routes.Check("admin.payroll", State{})
		Expect(err).To(MatchError(errs.ErrUnknownDestination))
	})

	It("loads tables from disk", func() {
		dir, err := os.MkdirTemp("", "routes")
		Expect(err).To(BeNil())
		defer os.RemoveAll(dir)
		f := filepath.Join(dir, "routes.toml")
		Expect(os.WriteFile(f, []byte(`
login = "/signin"
admin_dashboard = "/staff"
student_dashboard = "/me"

[[destination]]
name = "staff"
path = "/staff"
role = "admin"
`), 0o600)).To(Succeed())

		r, err := LoadRoutes(f)
		Expect(err).To(BeNil())

		d, err := r.Check("staff", State{})
		Expect(err).To(BeNil())
		Expect(d.Target).To(Equal("/signin"))
	})

	DescribeTable("invalid tables",
		func(data string) {
			_, err := ParseRoutes(data)
			Expect(err).NotTo(BeNil())
		},
		Entry("not toml", `login = `),
		Entry("missing dashboards", `login = "/login"`),
		Entry("unknown role", `
login = "/l"
admin_dashboard = "/a"
student_dashboard = "/s"
[[destination]]
name = "x"
path = "/x"
role = "owner"
`),
		Entry("duplicate name", `
login = "/l"
admin_dashboard = "/a"
student_dashboard = "/s"
[[destination]]
name = "x"
path = "/x"
[[destination]]
name = "x"
path = "/y"
`),
		Entry("missing path", `
login = "/l"
admin_dashboard = "/a"
student_dashboard = "/s"
[[destination]]
name = "x"
`),
	)
})
