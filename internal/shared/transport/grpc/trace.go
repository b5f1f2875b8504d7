package grpc

import (
	"context"

	"WarSim/internal/shared/transport"
	"WarSim/modules/kit/logx"
	"WarSim/modules/kit/tracex"

	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor 把 trace/span 写进出站 metadata；调用方没有 trace 时补一个，
// 服务端 access 日志就能和发起方的输出对上。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker,
		opts ...gogrpc.CallOption,
	) error {
		return invoker(injectTraceToOutgoing(tracex.Ensure(ctx, "")), method, req, reply, cc, opts...)
	}
}

// UnaryServerTraceInterceptor 沿用上游 trace，服务端 span 固定为 warsim，结束时写 access 日志。
func UnaryServerTraceInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (any, error) {
		ctx, peerSpan := beginAccess(ctx, info.FullMethod)
		resp, err := handler(ctx, req)
		finishAccess(ctx, log, peerSpan, err)
		return resp, err
	}
}

// StreamServerTraceInterceptor 用于 health Watch 这类长连接，流结束时写一条 access 日志。
func StreamServerTraceInterceptor(log logx.Logger) gogrpc.StreamServerInterceptor {
	return func(
		srv any,
		ss gogrpc.ServerStream,
		info *gogrpc.StreamServerInfo,
		handler gogrpc.StreamHandler,
	) error {
		ctx, peerSpan := beginAccess(ss.Context(), info.FullMethod)
		err := handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
		finishAccess(ctx, log, peerSpan, err)
		return err
	}
}

type wrappedServerStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

func beginAccess(ctx context.Context, method string) (context.Context, string) {
	ctx = extractTraceFromIncoming(ctx)
	peerSpan, _ := tracex.SpanIDFrom(ctx)
	return transport.NewContextWithParent(ctx, "grpc "+method), peerSpan
}

func finishAccess(ctx context.Context, log logx.Logger, peerSpan string, err error) {
	var fields []zap.Field
	if peerSpan != "" {
		fields = append(fields, zap.String("peer_span", peerSpan))
	}
	if err == nil {
		transport.SetBizCode(ctx, transport.OK)
	} else {
		transport.SetBizCode(ctx, bizCodeOf(err))
		transport.SetErrorReason(ctx, status.Code(err).String())
	}
	transport.WriteAccessLog(ctx, log, fields...)
}

// bizCodeOf 把 grpc 状态归到与 HTTP 一致的业务码。
func bizCodeOf(err error) transport.BizCode {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return transport.InvalidParam
	case codes.NotFound:
		return transport.NotFound
	case codes.FailedPrecondition:
		return transport.Precondition
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return transport.Unavailable
	case codes.Unknown:
		return transport.BizCodeFromError(err)
	default:
		return transport.SystemError
	}
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	pairs := make([]string, 0, 4)
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		pairs = append(pairs, traceIDHeader, traceID)
	}
	if spanID, ok := tracex.SpanIDFrom(ctx); ok {
		pairs = append(pairs, spanIDHeader, spanID)
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := firstValue(md, traceIDHeader); v != "" {
		ctx = tracex.WithTraceID(ctx, v)
	}
	if v := firstValue(md, spanIDHeader); v != "" {
		ctx = tracex.WithSpanID(ctx, v)
	}
	return ctx
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
