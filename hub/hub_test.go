package hub

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/events"
	"gym-backend/gate"
	"gym-backend/identity"
	"gym-backend/session"
	"gym-backend/store"
)

var _ = Describe("Hub", func() {
	var (
		ctx      context.Context
		mem      *store.Memory
		creds    *identity.Credentials
		sessions *session.MemoryStore
		bus      *events.LocalBus
		h        *Hub
		student  *identity.Identity
	)

	newHub := func() *Hub {
		return New(creds, sessions, bus, gate.NewStoreResolver(mem, gate.PolicyInferred), time.Hour)
	}

	BeforeEach(func() {
		ctx = context.Background()
		mem = store.NewMemory()
		creds = identity.NewCredentials(mem)
		sessions = session.NewMemoryStore()
		bus = events.NewLocalBus()
		h = newHub()

		var err error
		student, err = creds.Create(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())
		Expect(mem.Insert(ctx, entity.CollectionStudents, &entity.Student{UID: student.UID, Name: "Ana"})).To(Succeed())

		_, err = creds.Create(ctx, "boss@gym.test", "testtest")
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		h.Shutdown()
	})

	It("reuses the live session for an id", func() {
		id := h.NewID()
		Expect(h.Open(id)).To(BeIdenticalTo(h.Open(id)))
		Expect(h.Len()).To(Equal(1))

		s, ok := h.Lookup(id)
		Expect(ok).To(BeTrue())
		Expect(s.ID).To(Equal(id))
	})

	It("starts signed out", func() {
		s := h.Open(h.NewID())

		Expect(s.Wait(ctx, gate.Settled, time.Second)).To(Equal(gate.State{}))
	})

	It("signs a student in and resolves the role", func() {
		s := h.Open(h.NewID())

		id, st, err := s.SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())
		Expect(id.UID).To(Equal(student.UID))
		Expect(st.Role).To(Equal(gate.RoleStudent))
		Expect(st.UID()).To(Equal(student.UID))
	})

	It("resolves an identity without a student record to admin", func() {
		s := h.Open(h.NewID())

		_, st, err := s.SignIn(ctx, "boss@gym.test", "testtest")
		Expect(err).To(BeNil())
		Expect(st.Role).To(Equal(gate.RoleAdmin))
	})

	It("publishes a null identity on sign-out", func() {
		s := h.Open(h.NewID())
		_, _, err := s.SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		Expect(s.SignOut(ctx)).To(Succeed())
		Expect(s.Gate.State()).To(Equal(gate.State{}))
	})

	It("recomputes the role when another identity signs in on the same session", func() {
		s := h.Open(h.NewID())
		_, _, err := s.SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		_, st, err := s.SignIn(ctx, "boss@gym.test", "testtest")
		Expect(err).To(BeNil())
		Expect(st.Role).To(Equal(gate.RoleAdmin))
	})

	It("rejects bad credentials", func() {
		s := h.Open(h.NewID())

		_, _, err := s.SignIn(ctx, "ana@gym.test", "nope")
		Expect(err).To(MatchError(errs.ErrInvalidEmailOrPassword))
	})

	It("keeps sessions apart", func() {
		a := h.Open(h.NewID())
		b := h.Open(h.NewID())

		_, _, err := a.SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		Consistently(b.Gate.State, 50*time.Millisecond).Should(Equal(gate.State{}))
	})

	It("restores a signed-in session after it was closed", func() {
		id := h.NewID()
		_, _, err := h.Open(id).SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		h.Close(id)
		_, ok := h.Lookup(id)
		Expect(ok).To(BeFalse())

		st, err := h.Open(id).Gate.Await(ctx, gate.SettledFor(student.UID))
		Expect(err).To(BeNil())
		Expect(st.Role).To(Equal(gate.RoleStudent))
	})

	It("resumes only sessions that are live or stored", func() {
		_, err := h.Resume(ctx, h.NewID())
		Expect(err).To(MatchError(errs.ErrSessionNotFound))
		Expect(h.Len()).To(Equal(0))

		id := h.NewID()
		_, _, err = h.Open(id).SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())
		h.Close(id)

		s, err := h.Resume(ctx, id)
		Expect(err).To(BeNil())
		Expect(s.ID).To(Equal(id))
		Expect(h.Len()).To(Equal(1))
	})

	Describe("expiry", func() {
		BeforeEach(func() {
			h.Shutdown()
			h = New(creds, sessions, bus, gate.NewStoreResolver(mem, gate.PolicyInferred), 100*time.Millisecond)
		})

		It("refuses to resume a live session whose stored identity expired", func() {
			id := h.NewID()
			s := h.Open(id)
			_, st, err := s.SignIn(ctx, "boss@gym.test", "testtest")
			Expect(err).To(BeNil())
			Expect(st.Role).To(Equal(gate.RoleAdmin))

			time.Sleep(250 * time.Millisecond)

			_, err = h.Resume(ctx, id)
			Expect(err).To(MatchError(errs.ErrSessionNotFound))
			Expect(h.Len()).To(Equal(0))
			Expect(s.Gate.State()).To(Equal(gate.State{}))
		})

		It("keeps resuming a session before it expires", func() {
			id := h.NewID()
			_, _, err := h.Open(id).SignIn(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())

			s, err := h.Resume(ctx, id)
			Expect(err).To(BeNil())
			Expect(s.Gate.State().Role).To(Equal(gate.RoleStudent))
		})

		It("reaps expired sessions and signs their watchers out", func() {
			s := h.Open(h.NewID())
			_, _, err := s.SignIn(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())
			fresh := h.Open(h.NewID())

			watch, stop := context.WithCancel(ctx)
			defer stop()
			states := s.Gate.Watch(watch)
			Expect((<-states).Role).To(Equal(gate.RoleStudent))

			time.Sleep(250 * time.Millisecond)

			n, err := h.Reap(ctx)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(1))

			_, ok := h.Lookup(s.ID)
			Expect(ok).To(BeFalse())
			Eventually(states).Should(Receive(Equal(gate.State{})))

			_, ok = h.Lookup(fresh.ID)
			Expect(ok).To(BeTrue(), "sessions not signed in yet are left alone")
		})

		It("reaps in the background", func() {
			id := h.NewID()
			_, _, err := h.Open(id).SignIn(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())

			reaper, stop := context.WithCancel(ctx)
			defer stop()
			go h.RunReaper(reaper, 50*time.Millisecond)

			Eventually(h.Len, time.Second).Should(Equal(0))
		})
	})

	It("follows sign-ins made through another hub sharing the bus", func() {
		other := newHub()
		defer other.Shutdown()

		id := h.NewID()
		watcher := other.Open(id)
		Expect(watcher.Wait(ctx, gate.Settled, time.Second)).To(Equal(gate.State{}))

		_, _, err := h.Open(id).SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		Eventually(func() gate.Role { return watcher.Gate.State().Role }).Should(Equal(gate.RoleStudent))
	})

	It("gives up waiting and returns the state in flight", func() {
		held := make(chan struct{})
		defer close(held)

		h.Shutdown()
		h = New(creds, sessions, bus, resolverFunc(func(ctx context.Context, _ *identity.Identity) (gate.Role, error) {
			select {
			case <-held:
			case <-ctx.Done():
			}
			return gate.RoleNone, ctx.Err()
		}), time.Hour)

		s := h.Open(h.NewID())
		id, err := s.Provider.SignIn(ctx, "ana@gym.test", "testtest")
		Expect(err).To(BeNil())

		st := s.Wait(ctx, gate.SettledFor(id.UID), 50*time.Millisecond)
		Expect(st.Loading).To(BeTrue())
		Expect(st.Role).To(Equal(gate.RoleNone))
	})

	It("retries failed resolutions on the session context", func() {
		s := h.Open(h.NewID())
		Expect(s.Retry()).To(BeFalse())
	})
})

type resolverFunc func(context.Context, *identity.Identity) (gate.Role, error)

func (f resolverFunc) Resolve(ctx context.Context, id *identity.Identity) (gate.Role, error) {
	return f(ctx, id)
}
