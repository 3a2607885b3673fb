package int

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"gym-backend/errs"
	pb "gym-backend/proto"
)

var _ = Describe("Auth", func() {
	var (
		conn *grpc.ClientConn
		c    clients
	)

	BeforeEach(func() {
		cleanupMongo()
		seed()
		conn, c = dial()
	})

	AfterEach(func() {
		conn.Close()
	})

	Describe("SignIn", func() {
		Specify("happy path - student", func() {
			user := signIn(c.auth, "ana@gym.test")
			Expect(user.Role).To(Equal("student"))
		})
		Specify("happy path - admin", func() {
			user := signIn(c.auth, "boss@gym.test")
			Expect(user.Role).To(Equal("admin"))
		})
		Specify("sad path - email empty", func() {
			_, err := c.auth.SignIn(context.Background(), &pb.SignInRequest{Password: "testtest"})
			Expect(err).To(MatchBackendError(codes.InvalidArgument, errs.ErrEmailRequired))
		})
		Specify("sad path - password empty", func() {
			_, err := c.auth.SignIn(context.Background(), &pb.SignInRequest{Email: "ana@gym.test"})
			Expect(err).To(MatchBackendError(codes.InvalidArgument, errs.ErrPasswordRequired))
		})
		Specify("sad path - wrong password", func() {
			_, err := c.auth.SignIn(context.Background(), &pb.SignInRequest{Email: "ana@gym.test", Password: "nope"})
			Expect(err).To(MatchBackendError(codes.Unauthenticated, errs.ErrInvalidEmailOrPassword))
		})
		Specify("sad path - unknown email", func() {
			_, err := c.auth.SignIn(context.Background(), &pb.SignInRequest{Email: "nobody@gym.test", Password: "testtest"})
			Expect(err).To(MatchBackendError(codes.Unauthenticated, errs.ErrInvalidEmailOrPassword))
		})
	})

	Describe("RefreshToken", func() {
		Specify("happy path", func() {
			user := signIn(c.auth, "ana@gym.test")
			user.Refresh()

			_, err := c.session.GetState(user.Context(), &pb.GetStateRequest{})
			Expect(err).To(BeNil())
		})
		Specify("sad path - garbage", func() {
			_, err := c.auth.RefreshToken(context.Background(), &pb.RefreshTokenRequest{Token: "garbage"})
			Expect(err).To(MatchBackendError(codes.Unauthenticated, errs.ErrJWT))
		})
	})

	Describe("SignOut", func() {
		Specify("happy path", func() {
			user := signIn(c.auth, "boss@gym.test")

			_, err := c.auth.SignOut(user.Context(), &pb.SignOutRequest{})
			Expect(err).To(BeNil())

			_, err = c.admin.ListStudents(user.Context(), &pb.ListStudentsRequest{})
			Expect(err).To(MatchBackendError(codes.Unauthenticated, errs.ErrUnauthenticated))

			_, err = c.auth.RefreshToken(context.Background(), &pb.RefreshTokenRequest{Token: user.RefreshToken})
			Expect(err).To(MatchBackendError(codes.Unauthenticated, errs.ErrUnauthenticated))
		})
	})
})
