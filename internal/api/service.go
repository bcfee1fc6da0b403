// Package api declares the marketplace.v1.MarketplaceService gRPC surface:
// request and response messages, the service descriptor and a client.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "marketplace.v1.MarketplaceService"

// FullMethod returns the gRPC path of a service method, e.g.
// "/marketplace.v1.MarketplaceService/Login".
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type MarketplaceServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)

	PublishAvailability(context.Context, *PublishAvailabilityRequest) (*SlotResponse, error)
	ListAvailability(context.Context, *ListAvailabilityRequest) (*ListAvailabilityResponse, error)
	BookSlot(context.Context, *BookSlotRequest) (*AppointmentResponse, error)

	CancelAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	CompleteAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	AddNotes(context.Context, *AddNotesRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *Empty) (*ListAppointmentsResponse, error)

	RequestPayout(context.Context, *RequestPayoutRequest) (*PayoutResponse, error)
	ApprovePayout(context.Context, *ApprovePayoutRequest) (*PayoutResponse, error)
	ListPayouts(context.Context, *Empty) (*ListPayoutsResponse, error)
	ListPendingPayouts(context.Context, *Empty) (*ListPayoutsResponse, error)
	GetEarnings(context.Context, *Empty) (*EarningsResponse, error)

	GrantMonthlyCredits(context.Context, *Empty) (*GrantMonthlyCreditsResponse, error)
	GetBalance(context.Context, *Empty) (*AccountResponse, error)
	ListLedger(context.Context, *Empty) (*ListLedgerResponse, error)
	Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error)
}

// UnimplementedMarketplaceServiceServer can be embedded for forward
// compatibility.
type UnimplementedMarketplaceServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedMarketplaceServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedMarketplaceServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedMarketplaceServiceServer) PublishAvailability(context.Context, *PublishAvailabilityRequest) (*SlotResponse, error) {
	return nil, unimplemented("PublishAvailability")
}
func (UnimplementedMarketplaceServiceServer) ListAvailability(context.Context, *ListAvailabilityRequest) (*ListAvailabilityResponse, error) {
	return nil, unimplemented("ListAvailability")
}
func (UnimplementedMarketplaceServiceServer) BookSlot(context.Context, *BookSlotRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("BookSlot")
}
func (UnimplementedMarketplaceServiceServer) CancelAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("CancelAppointment")
}
func (UnimplementedMarketplaceServiceServer) CompleteAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("CompleteAppointment")
}
func (UnimplementedMarketplaceServiceServer) AddNotes(context.Context, *AddNotesRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("AddNotes")
}
func (UnimplementedMarketplaceServiceServer) ListAppointments(context.Context, *Empty) (*ListAppointmentsResponse, error) {
	return nil, unimplemented("ListAppointments")
}
func (UnimplementedMarketplaceServiceServer) RequestPayout(context.Context, *RequestPayoutRequest) (*PayoutResponse, error) {
	return nil, unimplemented("RequestPayout")
}
func (UnimplementedMarketplaceServiceServer) ApprovePayout(context.Context, *ApprovePayoutRequest) (*PayoutResponse, error) {
	return nil, unimplemented("ApprovePayout")
}
func (UnimplementedMarketplaceServiceServer) ListPayouts(context.Context, *Empty) (*ListPayoutsResponse, error) {
	return nil, unimplemented("ListPayouts")
}
func (UnimplementedMarketplaceServiceServer) ListPendingPayouts(context.Context, *Empty) (*ListPayoutsResponse, error) {
	return nil, unimplemented("ListPendingPayouts")
}
func (UnimplementedMarketplaceServiceServer) GetEarnings(context.Context, *Empty) (*EarningsResponse, error) {
	return nil, unimplemented("GetEarnings")
}
func (UnimplementedMarketplaceServiceServer) GrantMonthlyCredits(context.Context, *Empty) (*GrantMonthlyCreditsResponse, error) {
	return nil, unimplemented("GrantMonthlyCredits")
}
func (UnimplementedMarketplaceServiceServer) GetBalance(context.Context, *Empty) (*AccountResponse, error) {
	return nil, unimplemented("GetBalance")
}
func (UnimplementedMarketplaceServiceServer) ListLedger(context.Context, *Empty) (*ListLedgerResponse, error) {
	return nil, unimplemented("ListLedger")
}
func (UnimplementedMarketplaceServiceServer) Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error) {
	return nil, unimplemented("Reconcile")
}

// unary builds the method descriptor for one RPC, decoding into a fresh Req
// and running the server's interceptor chain.
func unary[Req any, Resp any](name string, call func(MarketplaceServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(MarketplaceServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MarketplaceServiceServer.Register),
		unary("Login", MarketplaceServiceServer.Login),
		unary("PublishAvailability", MarketplaceServiceServer.PublishAvailability),
		unary("ListAvailability", MarketplaceServiceServer.ListAvailability),
		unary("BookSlot", MarketplaceServiceServer.BookSlot),
		unary("CancelAppointment", MarketplaceServiceServer.CancelAppointment),
		unary("CompleteAppointment", MarketplaceServiceServer.CompleteAppointment),
		unary("AddNotes", MarketplaceServiceServer.AddNotes),
		unary("ListAppointments", MarketplaceServiceServer.ListAppointments),
		unary("RequestPayout", MarketplaceServiceServer.RequestPayout),
		unary("ApprovePayout", MarketplaceServiceServer.ApprovePayout),
		unary("ListPayouts", MarketplaceServiceServer.ListPayouts),
		unary("ListPendingPayouts", MarketplaceServiceServer.ListPendingPayouts),
		unary("GetEarnings", MarketplaceServiceServer.GetEarnings),
		unary("GrantMonthlyCredits", MarketplaceServiceServer.GrantMonthlyCredits),
		unary("GetBalance", MarketplaceServiceServer.GetBalance),
		unary("ListLedger", MarketplaceServiceServer.ListLedger),
		unary("Reconcile", MarketplaceServiceServer.Reconcile),
	},
	Metadata: "marketplace/v1/marketplace.proto",
}

func RegisterMarketplaceServiceServer(s grpc.ServiceRegistrar, srv MarketplaceServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the service over the JSON content-subtype.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *Client) PublishAvailability(ctx context.Context, in *PublishAvailabilityRequest, opts ...grpc.CallOption) (*SlotResponse, error) {
	return invoke[SlotResponse](ctx, c.cc, "PublishAvailability", in, opts)
}

func (c *Client) ListAvailability(ctx context.Context, in *ListAvailabilityRequest, opts ...grpc.CallOption) (*ListAvailabilityResponse, error) {
	return invoke[ListAvailabilityResponse](ctx, c.cc, "ListAvailability", in, opts)
}

func (c *Client) BookSlot(ctx context.Context, in *BookSlotRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "BookSlot", in, opts)
}

func (c *Client) CancelAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "CancelAppointment", in, opts)
}

func (c *Client) CompleteAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "CompleteAppointment", in, opts)
}

func (c *Client) AddNotes(ctx context.Context, in *AddNotesRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "AddNotes", in, opts)
}

func (c *Client) ListAppointments(ctx context.Context, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "ListAppointments", &Empty{}, opts)
}

func (c *Client) RequestPayout(ctx context.Context, in *RequestPayoutRequest, opts ...grpc.CallOption) (*PayoutResponse, error) {
	return invoke[PayoutResponse](ctx, c.cc, "RequestPayout", in, opts)
}

func (c *Client) ApprovePayout(ctx context.Context, in *ApprovePayoutRequest, opts ...grpc.CallOption) (*PayoutResponse, error) {
	return invoke[PayoutResponse](ctx, c.cc, "ApprovePayout", in, opts)
}

func (c *Client) ListPayouts(ctx context.Context, opts ...grpc.CallOption) (*ListPayoutsResponse, error) {
	return invoke[ListPayoutsResponse](ctx, c.cc, "ListPayouts", &Empty{}, opts)
}

func (c *Client) ListPendingPayouts(ctx context.Context, opts ...grpc.CallOption) (*ListPayoutsResponse, error) {
	return invoke[ListPayoutsResponse](ctx, c.cc, "ListPendingPayouts", &Empty{}, opts)
}

func (c *Client) GetEarnings(ctx context.Context, opts ...grpc.CallOption) (*EarningsResponse, error) {
	return invoke[EarningsResponse](ctx, c.cc, "GetEarnings", &Empty{}, opts)
}

func (c *Client) GrantMonthlyCredits(ctx context.Context, opts ...grpc.CallOption) (*GrantMonthlyCreditsResponse, error) {
	return invoke[GrantMonthlyCreditsResponse](ctx, c.cc, "GrantMonthlyCredits", &Empty{}, opts)
}

func (c *Client) GetBalance(ctx context.Context, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, "GetBalance", &Empty{}, opts)
}

func (c *Client) ListLedger(ctx context.Context, opts ...grpc.CallOption) (*ListLedgerResponse, error) {
	return invoke[ListLedgerResponse](ctx, c.cc, "ListLedger", &Empty{}, opts)
}

func (c *Client) Reconcile(ctx context.Context, in *ReconcileRequest, opts ...grpc.CallOption) (*ReconcileResponse, error) {
	return invoke[ReconcileResponse](ctx, c.cc, "Reconcile", in, opts)
}
