package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content-subtype of the marketplace service
// ("application/grpc+json"). Calls must select it with
// grpc.CallContentSubtype(CodecName); the default proto codec stays in place
// for the health service.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec encodes plain messages with encoding/json and protobuf messages with
// protojson, so both can travel on the same subtype.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string { return CodecName }
