package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName = "marketsignals.control.MarketSignalsControl"

	MarketSignalsControl_AddTicker_FullMethodName    = "/" + serviceName + "/AddTicker"
	MarketSignalsControl_DeleteTicker_FullMethodName = "/" + serviceName + "/DeleteTicker"
	MarketSignalsControl_ListTickers_FullMethodName  = "/" + serviceName + "/ListTickers"
	MarketSignalsControl_Refresh_FullMethodName      = "/" + serviceName + "/Refresh"
)

// -----------------------------------------------------------------------------
// Server API
// -----------------------------------------------------------------------------

type MarketSignalsControlServer interface {
	AddTicker(context.Context, *TickerRequest) (*TickerControlResponse, error)
	DeleteTicker(context.Context, *TickerRequest) (*TickerControlResponse, error)
	ListTickers(context.Context, *Empty) (*ListTickersResponse, error)
	Refresh(context.Context, *Empty) (*RefreshResponse, error)
}

// UnimplementedMarketSignalsControlServer can be embedded for forward compatibility.
type UnimplementedMarketSignalsControlServer struct{}

func (UnimplementedMarketSignalsControlServer) AddTicker(context.Context, *TickerRequest) (*TickerControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddTicker not implemented")
}
func (UnimplementedMarketSignalsControlServer) DeleteTicker(context.Context, *TickerRequest) (*TickerControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTicker not implemented")
}
func (UnimplementedMarketSignalsControlServer) ListTickers(context.Context, *Empty) (*ListTickersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTickers not implemented")
}
func (UnimplementedMarketSignalsControlServer) Refresh(context.Context, *Empty) (*RefreshResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}

func RegisterMarketSignalsControlServer(s grpc.ServiceRegistrar, srv MarketSignalsControlServer) {
	s.RegisterService(&MarketSignalsControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(MarketSignalsControlServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MarketSignalsControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MarketSignalsControlServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var MarketSignalsControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MarketSignalsControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddTicker",
			Handler:    unaryHandler(MarketSignalsControl_AddTicker_FullMethodName, MarketSignalsControlServer.AddTicker),
		},
		{
			MethodName: "DeleteTicker",
			Handler:    unaryHandler(MarketSignalsControl_DeleteTicker_FullMethodName, MarketSignalsControlServer.DeleteTicker),
		},
		{
			MethodName: "ListTickers",
			Handler:    unaryHandler(MarketSignalsControl_ListTickers_FullMethodName, MarketSignalsControlServer.ListTickers),
		},
		{
			MethodName: "Refresh",
			Handler:    unaryHandler(MarketSignalsControl_Refresh_FullMethodName, MarketSignalsControlServer.Refresh),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "market_signals_control",
}

// -----------------------------------------------------------------------------
// Client API
// -----------------------------------------------------------------------------

type MarketSignalsControlClient interface {
	AddTicker(ctx context.Context, in *TickerRequest, opts ...grpc.CallOption) (*TickerControlResponse, error)
	DeleteTicker(ctx context.Context, in *TickerRequest, opts ...grpc.CallOption) (*TickerControlResponse, error)
	ListTickers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListTickersResponse, error)
	Refresh(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RefreshResponse, error)
}

type marketSignalsControlClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketSignalsControlClient(cc grpc.ClientConnInterface) MarketSignalsControlClient {
	return &marketSignalsControlClient{cc}
}

func (c *marketSignalsControlClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *marketSignalsControlClient) AddTicker(ctx context.Context, in *TickerRequest, opts ...grpc.CallOption) (*TickerControlResponse, error) {
	out := new(TickerControlResponse)
	if err := c.invoke(ctx, MarketSignalsControl_AddTicker_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketSignalsControlClient) DeleteTicker(ctx context.Context, in *TickerRequest, opts ...grpc.CallOption) (*TickerControlResponse, error) {
	out := new(TickerControlResponse)
	if err := c.invoke(ctx, MarketSignalsControl_DeleteTicker_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketSignalsControlClient) ListTickers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListTickersResponse, error) {
	out := new(ListTickersResponse)
	if err := c.invoke(ctx, MarketSignalsControl_ListTickers_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketSignalsControlClient) Refresh(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RefreshResponse, error) {
	out := new(RefreshResponse)
	if err := c.invoke(ctx, MarketSignalsControl_Refresh_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
