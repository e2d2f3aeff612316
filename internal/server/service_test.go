package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubRecognizer struct {
	text string
	err  error
	seen []string
}

func (s *stubRecognizer) Recognize(_ context.Context, path string) (string, error) {
	s.seen = append(s.seen, path)
	return s.text, s.err
}

func dial(t *testing.T, svc ScanServiceServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(svc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestEvaluateOverGRPC(t *testing.T) {
	svc := NewScanService(&stubRecognizer{}, nil, ScanServiceConfig{}, nil)
	client := NewScanServiceClient(dial(t, svc))

	out, err := client.Evaluate(context.Background(), wrapperspb.String("Sugar, artificial color"))
	require.NoError(t, err)

	result := out.GetFields()["result"].GetStructValue().GetFields()
	assert.Equal(t, float64(35), result["percent"].GetNumberValue())
	assert.Equal(t, "unhealthy", result["health_flag"].GetStringValue())
	assert.Equal(t, "Noted: High sugar, Artificial additives, Color additive", result["note"].GetStringValue())
}

func TestEvaluateBlankText(t *testing.T) {
	svc := NewScanService(&stubRecognizer{}, nil, ScanServiceConfig{}, nil)

	_, err := svc.Evaluate(context.Background(), wrapperspb.String("  "))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestScanImageOverGRPC(t *testing.T) {
	rec := &stubRecognizer{text: "Water, Palm Oil"}
	svc := NewScanService(rec, nil, ScanServiceConfig{UploadDir: t.TempDir()}, nil)
	client := NewScanServiceClient(dial(t, svc))

	out, err := client.ScanImage(context.Background(), wrapperspb.Bytes(pngHeader))
	require.NoError(t, err)

	result := out.GetFields()["result"].GetStructValue().GetFields()
	assert.Equal(t, float64(70), result["percent"].GetNumberValue())
	card := out.GetFields()["state"].GetStructValue().GetFields()["card"].GetStructValue().GetFields()
	assert.Equal(t, "Water, Palm Oil", card["text"].GetStringValue())

	require.Len(t, rec.seen, 1)
	assert.Contains(t, rec.seen[0], "label.png")
}

func TestScanImageErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		rec  *stubRecognizer
		data []byte
		code codes.Code
	}{
		{name: "no image", rec: &stubRecognizer{text: "sugar"}, data: nil, code: codes.InvalidArgument},
		{name: "not an image", rec: &stubRecognizer{text: "sugar"}, data: []byte("%PDF-1.7"), code: codes.InvalidArgument},
		{name: "ocr failure", rec: &stubRecognizer{err: errors.New("boom")}, data: pngHeader, code: codes.Internal},
		{name: "no text", rec: &stubRecognizer{text: ""}, data: pngHeader, code: codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewScanService(tt.rec, nil, ScanServiceConfig{UploadDir: t.TempDir()}, nil)
			_, err := svc.ScanImage(context.Background(), wrapperspb.Bytes(tt.data))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestRulesOverGRPC(t *testing.T) {
	svc := NewScanService(&stubRecognizer{}, nil, ScanServiceConfig{}, nil)
	client := NewScanServiceClient(dial(t, svc))

	out, err := client.Rules(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	rules := out.GetFields()["rules"].GetListValue().GetValues()
	require.Len(t, rules, 6)
	assert.Equal(t, "palm oil", rules[1].GetStructValue().GetFields()["keyword"].GetStringValue())
}

func TestHealthService(t *testing.T) {
	svc := NewScanService(&stubRecognizer{}, nil, ScanServiceConfig{}, nil)
	conn := dial(t, svc)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ScanServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestSniffExt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "png", data: pngHeader, want: "png"},
		{name: "jpeg", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), want: "jpg"},
		{name: "heic", data: []byte("\x00\x00\x00\x18ftypheic\x00\x00"), want: "heic"},
		{name: "tiff", data: []byte("II*\x00\x08\x00\x00\x00"), want: "tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffExt(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sniffExt([]byte("hello"))
	assert.Error(t, err)
}
