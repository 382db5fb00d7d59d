package ws

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

// Dial connects a guest to the host's peer endpoint at rawURL.
func Dial(ctx context.Context, rawURL string, codec proto.Codec, opts peer.Options) (*peer.Conn, error) {
	if codec == nil {
		codec = proto.JSONCodec{}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse peer url: %w", err)
	}
	query := parsed.Query()
	query.Set(CodecParam, codec.Name())
	parsed.RawQuery = query.Encode()

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, parsed.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", parsed.Redacted(), err)
	}
	return peer.NewConn(ws, codec, opts), nil
}
