// Package rpc exposes driver.Verify over gRPC. It builds the service
// from an in-memory .proto schema via jhump/protoreflect's dynamic
// descriptors instead of a generated *.pb.go pair, the same technique
// the teacher's grpc builtins use to register a service whose shape is
// only known at runtime (internal/evaluator/builtins_grpc.go).
package rpc

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/natded/natded/internal/driver"
)

// schema is the wire contract for the single Verify RPC: a source file's
// text and an advisory path in, a flattened verdict out (diagnostics as
// formatted strings, goal counts rather than full proof trees — the
// proof tree and goal conclusions are not sent over this RPC surface,
// spec.md §9).
const schema = `
syntax = "proto3";
package natded;

service NatDed {
	rpc Verify(VerifyRequest) returns (VerifyResponse);
}

message VerifyRequest {
	string source = 1;
	string file_path = 2;
}

message VerifyResponse {
	bool ok = 1;
	repeated string diagnostics = 2;
	int32 goals_total = 3;
	int32 goals_solved = 4;
	string inferred_type = 5;
}
`

var (
	compileOnce sync.Once
	serviceDesc *desc.ServiceDescriptor
	compileErr  error
)

func compile() (*desc.ServiceDescriptor, error) {
	compileOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{"natded.proto": schema}),
		}
		fds, err := parser.ParseFiles("natded.proto")
		if err != nil {
			compileErr = fmt.Errorf("rpc: compiling schema: %w", err)
			return
		}
		sd := fds[0].FindService("natded.NatDed")
		if sd == nil {
			compileErr = fmt.Errorf("rpc: service natded.NatDed missing from compiled schema")
			return
		}
		serviceDesc = sd
	})
	return serviceDesc, compileErr
}

// VerifyFunc is the shape of driver.Verify, accepted as a parameter so
// tests can substitute a stub without a real pipeline.
type VerifyFunc func(ctx context.Context, source, filePath string) (*driver.VerifyResult, error)

// handler adapts one VerifyFunc into the grpc.MethodDesc's untyped
// handler shape, mirroring the teacher's FunxyGrpcHandler.HandleUnary.
type handler struct {
	verify VerifyFunc
	md     *desc.MethodDescriptor
}

func (h *handler) handleVerify(ctx context.Context, dec func(interface{}) error) (interface{}, error) {
	in := dynamic.NewMessage(h.md.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}
	source, _ := in.TryGetFieldByName("source")
	filePath, _ := in.TryGetFieldByName("file_path")

	result, err := h.verify(ctx, asString(source), asString(filePath))
	if err != nil {
		return nil, err
	}

	out := dynamic.NewMessage(h.md.GetOutputType())
	out.SetFieldByName("ok", result.OK())
	diagnostics := make([]interface{}, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		diagnostics = append(diagnostics, d.Error())
	}
	out.SetFieldByName("diagnostics", diagnostics)
	out.SetFieldByName("goals_total", int32(len(result.Goals)))

	solved := int32(0)
	for _, g := range result.Goals {
		if g.Solvability == driver.Solvable {
			solved++
		}
	}
	out.SetFieldByName("goals_solved", solved)
	if result.Type.Prop != nil || result.Type.IsDatatype {
		out.SetFieldByName("inferred_type", result.Type.String())
	}
	return out, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// NewServer builds a *grpc.Server exposing the natded.NatDed service,
// dispatching every Verify call through verify.
func NewServer(verify VerifyFunc) (*grpc.Server, error) {
	sd, err := compile()
	if err != nil {
		return nil, err
	}
	method := sd.FindMethodByName("Verify")
	if method == nil {
		return nil, fmt.Errorf("rpc: method Verify missing from compiled schema")
	}

	h := &handler{verify: verify, md: method}
	desc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    sd.GetFile().GetName(),
		Methods: []grpc.MethodDesc{{
			MethodName: method.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				return srv.(*handler).handleVerify(ctx, dec)
			},
		}},
	}

	server := grpc.NewServer()
	server.RegisterService(desc, h)
	return server, nil
}

// Serve listens on addr and blocks serving the NatDed service built
// around verify, until the server is stopped or Serve fails.
func Serve(addr string, verify VerifyFunc) error {
	server, err := NewServer(verify)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listening on %s: %w", addr, err)
	}
	return server.Serve(lis)
}
