package grpcweb

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"advisor-marketplace-api/internal/api"
)

// maxBody caps a single grpc-web request.
const maxBody = 1 << 20

// Bridge translates gRPC-Web (browser HTTP/1.1) → native gRPC. Message bodies
// are passed through untouched on the JSON content-subtype.
type Bridge struct {
	conn  grpc.ClientConnInterface
	close func() error
	log   *slog.Logger
}

// New dials the gRPC server at addr (e.g. "localhost:50051").
func New(addr string, log *slog.Logger) (*Bridge, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcweb dial: %w", err)
	}
	b := NewWithConn(conn, log)
	b.close = conn.Close
	return b, nil
}

// NewWithConn forwards over an existing connection, which the caller owns.
func NewWithConn(conn grpc.ClientConnInterface, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{conn: conn, close: func() error { return nil }, log: log}
}

func (b *Bridge) Close() { _ = b.close() }

// Handler returns an http.Handler that translates gRPC-Web → gRPC.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, X-Grpc-Web, X-User-Agent, Authorization, x-grpc-web")
		w.Header().Set("Access-Control-Expose-Headers",
			"Grpc-Status, Grpc-Message, Grpc-Status-Details-Bin, grpc-status, grpc-message")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/grpc-web") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/"+api.ServiceName+"/") {
			writeError(w, status.New(codes.Unimplemented, "unknown service"))
			return
		}

		b.log.DebugContext(r.Context(), "grpc-web request", "path", r.URL.Path)
		b.forward(w, r)
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+5))
	if err != nil {
		writeError(w, status.New(codes.Internal, "read body failed"))
		return
	}
	if len(body) < 5 {
		writeError(w, status.New(codes.InvalidArgument, "body too short"))
		return
	}

	// grpc-web frame: 1-byte flag + 4-byte big-endian length + message
	msgLen := binary.BigEndian.Uint32(body[1:5])
	if msgLen > maxBody {
		writeError(w, status.New(codes.ResourceExhausted, "message too large"))
		return
	}
	if int(msgLen)+5 > len(body) {
		writeError(w, status.New(codes.InvalidArgument, "incomplete frame"))
		return
	}
	payload := body[5 : 5+msgLen]

	// forward metadata
	md := metadata.MD{}
	if vals := r.Header.Values("Authorization"); len(vals) > 0 {
		md.Set("authorization", vals...)
	}
	if client := clientAddr(r); client != "" {
		md.Set("x-forwarded-for", client)
	}
	ctx := metadata.NewOutgoingContext(r.Context(), md)

	// invoke gRPC method using raw codec (pass-through bytes)
	resp := &rawMsg{}
	err = b.conn.Invoke(ctx, r.URL.Path, &rawMsg{data: payload}, resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		st := status.Convert(err)
		b.log.InfoContext(r.Context(), "grpc-web error",
			"path", r.URL.Path, "code", st.Code().String(), "message", st.Message())
		writeError(w, st)
		return
	}

	writeSuccess(w, resp.data)
}

// rawMsg wraps an already-encoded message.
type rawMsg struct{ data []byte }

// rawCodec passes bytes through without marshal/unmarshal. Its name selects
// the server's JSON codec.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return v.(*rawMsg).data, nil
}
func (rawCodec) Unmarshal(data []byte, v any) error {
	m := v.(*rawMsg)
	m.data = append([]byte(nil), data...)
	return nil
}
func (rawCodec) Name() string { return api.CodecName }

const contentType = "application/grpc-web+json"

func trailerFrame(trailer string) []byte {
	tf := make([]byte, 5+len(trailer))
	tf[0] = 0x80
	binary.BigEndian.PutUint32(tf[1:5], uint32(len(trailer)))
	copy(tf[5:], trailer)
	return tf
}

// writeError reports st in the trailer frame. Details such as the error
// reason travel base64-encoded in grpc-status-details-bin.
func writeError(w http.ResponseWriter, st *status.Status) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	trailer := fmt.Sprintf("grpc-status:%d\r\ngrpc-message:%s\r\n", st.Code(), url.PathEscape(st.Message()))
	if len(st.Details()) > 0 {
		if bin, err := proto.Marshal(st.Proto()); err == nil {
			trailer += "grpc-status-details-bin:" + base64.RawStdEncoding.EncodeToString(bin) + "\r\n"
		}
	}
	w.Write(trailerFrame(trailer))
}

// clientAddr is the first X-Forwarded-For hop, or the remote host when the
// request came in directly.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	// data frame
	df := make([]byte, 5+len(data))
	df[0] = 0x00
	binary.BigEndian.PutUint32(df[1:5], uint32(len(data)))
	copy(df[5:], data)
	w.Write(df)
	w.Write(trailerFrame("grpc-status:0\r\n"))
}
