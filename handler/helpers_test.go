package handler_test

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"gym-backend/entity"
	"gym-backend/events"
	"gym-backend/gate"
	"gym-backend/handler"
	"gym-backend/hub"
	"gym-backend/identity"
	"gym-backend/internal/throttle"
	"gym-backend/jwt"
	pb "gym-backend/proto"
	"gym-backend/recovery"
	"gym-backend/roster"
	"gym-backend/session"
	"gym-backend/store"
)

type outbox struct {
	lock sync.Mutex
	sent []string
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.sent = append(o.sent, body)
	return nil
}

func (o *outbox) lastToken() string {
	o.lock.Lock()
	defer o.lock.Unlock()
	body := o.sent[len(o.sent)-1]
	return body[strings.LastIndex(body, " ")+1:]
}

type resolverFunc func(context.Context, *identity.Identity) (gate.Role, error)

func (f resolverFunc) Resolve(ctx context.Context, id *identity.Identity) (gate.Role, error) {
	return f(ctx, id)
}

type backend struct {
	mem   *store.Memory
	creds *identity.Credentials
	hub   *hub.Hub
	box   *outbox

	srv  *grpc.Server
	conn *grpc.ClientConn

	auth    pb.AuthClient
	session pb.SessionClient
	admin   pb.AdminClient
	student pb.StudentClient
}

type options struct {
	resolver gate.Resolver
	limiter  *throttle.Limiter
}

// start serves a backend over an in-memory connection. Ana is a student,
// Boss has no student record.
func start(o options) *backend {
	ctx := context.Background()
	b := &backend{mem: store.NewMemory(), box: &outbox{}}
	b.creds = identity.NewCredentials(b.mem)

	if o.resolver == nil {
		o.resolver = gate.NewStoreResolver(b.mem, gate.PolicyInferred)
	}
	if o.limiter == nil {
		o.limiter = throttle.New(100, 100)
	}

	ana, err := b.creds.Create(ctx, "ana@gym.test", "testtest")
	Expect(err).To(BeNil())
	Expect(b.mem.Insert(ctx, entity.CollectionStudents, &entity.Student{
		UID:     ana.UID,
		Name:    "Ana",
		Email:   ana.Email,
		DueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})).To(Succeed())

	_, err = b.creds.Create(ctx, "boss@gym.test", "testtest")
	Expect(err).To(BeNil())

	routes, err := gate.LoadRoutes("")
	Expect(err).To(BeNil())

	b.hub = hub.New(b.creds, session.NewMemoryStore(), events.NewLocalBus(), o.resolver, time.Hour)
	b.srv = handler.NewServer(handler.Deps{
		Hub:      b.hub,
		Routes:   routes,
		JWT:      jwt.New("test-key"),
		Roster:   roster.New(b.mem, b.creds, b.box),
		Recovery: recovery.New(b.mem, b.creds, b.box),
		Limiter:  o.limiter,
	})

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = b.srv.Serve(lis)
	}()

	b.conn, err = grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	Expect(err).To(BeNil())

	b.auth = pb.NewAuthClient(b.conn)
	b.session = pb.NewSessionClient(b.conn)
	b.admin = pb.NewAdminClient(b.conn)
	b.student = pb.NewStudentClient(b.conn)

	return b
}

func (b *backend) stop() {
	_ = b.conn.Close()
	b.srv.Stop()
	b.hub.Shutdown()
}

func (b *backend) signIn(email string) *pb.SignInResponse {
	res, err := b.auth.SignIn(context.Background(), &pb.SignInRequest{Email: email, Password: "testtest"})
	Expect(err).To(BeNil())
	return res
}

func bearer(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "bearer "+token)
}

func statusOf(err error) *status.Status {
	s, ok := status.FromError(err)
	Expect(ok).To(BeTrue(), "not a status error: %v", err)
	return s
}
