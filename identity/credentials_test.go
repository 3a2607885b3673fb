package identity

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"gym-backend/errs"
	"gym-backend/store"
)

var _ = Describe("Credentials", func() {
	var (
		ctx   context.Context
		creds *Credentials
	)

	BeforeEach(func() {
		ctx = context.Background()
		creds = NewCredentials(store.NewMemory())
	})

	Describe("Create", func() {
		Specify("happy path", func() {
			id, err := creds.Create(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())
			Expect(id.UID).To(HaveLen(24))
			Expect(id.Email).To(Equal("ana@gym.test"))
		})
		Specify("sad path - wrong email", func() {
			_, err := creds.Create(ctx, "ana-gym.test", "testtest")
			Expect(err).To(MatchError(errs.ErrEmailAddressFormat))
		})
		Specify("sad path - password empty", func() {
			_, err := creds.Create(ctx, "ana@gym.test", "")
			Expect(err).To(MatchError(errs.ErrPasswordRequired))
		})
		Specify("sad path - already registered", func() {
			_, err := creds.Create(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())
			_, err = creds.Create(ctx, "ana@gym.test", "other")
			Expect(err).To(MatchError(errs.ErrAlreadyExists))
		})
	})

	Describe("Verify", func() {
		var created *Identity

		BeforeEach(func() {
			var err error
			created, err = creds.Create(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())
		})

		Specify("happy path", func() {
			id, err := creds.Verify(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())
			Expect(id).To(Equal(created))
		})
		Specify("sad path - email empty", func() {
			_, err := creds.Verify(ctx, "", "testtest")
			Expect(err).To(MatchError(errs.ErrEmailRequired))
		})
		Specify("sad path - password empty", func() {
			_, err := creds.Verify(ctx, "ana@gym.test", "")
			Expect(err).To(MatchError(errs.ErrPasswordRequired))
		})
		Specify("sad path - wrong password", func() {
			_, err := creds.Verify(ctx, "ana@gym.test", "nope")
			Expect(err).To(MatchError(errs.ErrInvalidEmailOrPassword))
		})
		Specify("sad path - unknown email", func() {
			_, err := creds.Verify(ctx, "bo@gym.test", "testtest")
			Expect(err).To(MatchError(errs.ErrInvalidEmailOrPassword))
		})
	})

	Describe("SetPassword", func() {
		It("replaces the password", func() {
			id, err := creds.Create(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())

			Expect(creds.SetPassword(ctx, id.UID, "newpass")).To(Succeed())

			_, err = creds.Verify(ctx, "ana@gym.test", "testtest")
			Expect(err).To(MatchError(errs.ErrInvalidEmailOrPassword))
			_, err = creds.Verify(ctx, "ana@gym.test", "newpass")
			Expect(err).To(BeNil())
		})
		It("reports unknown uids", func() {
			Expect(creds.SetPassword(ctx, "nobody", "newpass")).To(MatchError(errs.ErrNotFound))
		})
	})

	Describe("ByEmail", func() {
		It("finds registered identities", func() {
			created, err := creds.Create(ctx, "ana@gym.test", "testtest")
			Expect(err).To(BeNil())

			id, err := creds.ByEmail(ctx, "ana@gym.test")
			Expect(err).To(BeNil())
			Expect(id).To(Equal(created))

			_, err = creds.ByEmail(ctx, "bo@gym.test")
			Expect(err).To(MatchError(errs.ErrNotFound))
		})
	})
})
