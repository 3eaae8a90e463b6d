package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/driver"
	"github.com/natded/natded/internal/token"
)

func TestCompile_ServiceAndMethodResolve(t *testing.T) {
	sd, err := compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sd.GetFullyQualifiedName() != "natded.NatDed" {
		t.Errorf("expected service natded.NatDed, got %s", sd.GetFullyQualifiedName())
	}
	if sd.FindMethodByName("Verify") == nil {
		t.Fatalf("expected a Verify method on the compiled service")
	}
}

func TestServer_VerifyRoundTrip(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	t.Cleanup(func() { lis.Close() })

	stubResult := &driver.VerifyResult{
		Diagnostics: []*diagnostics.DiagnosticError{diagnostics.NewError("X000", token.Token{}, "boom")},
	}
	server, err := NewServer(func(ctx context.Context, source, filePath string) (*driver.VerifyResult, error) {
		if source != "atom P;" || filePath != "a.nd" {
			t.Errorf("unexpected call args: source=%q filePath=%q", source, filePath)
		}
		return stubResult, nil
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	sd, err := compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	method := sd.FindMethodByName("Verify")

	reqMsg := dynamic.NewMessage(method.GetInputType())
	reqMsg.SetFieldByName("source", "atom P;")
	reqMsg.SetFieldByName("file_path", "a.nd")

	respMsg := dynamic.NewMessage(method.GetOutputType())

	err = conn.Invoke(context.Background(), "/natded.NatDed/Verify", reqMsg, respMsg)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	ok, _ := respMsg.TryGetFieldByName("ok")
	if ok != false {
		t.Errorf("expected ok=false given a diagnostic, got %v", ok)
	}
	diags, _ := respMsg.TryGetFieldByName("diagnostics")
	list, ok2 := diags.([]interface{})
	if !ok2 || len(list) != 1 {
		t.Fatalf("expected exactly one diagnostic string, got %v", diags)
	}
}
