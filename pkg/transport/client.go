package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"railfeed/pkg/feed"
)

// Client dials the market-data stream over TLS. The resolver and the
// root certificate pool are constructed once here and shared by every
// dial, keeping their lifetime and initialization order explicit instead
// of hiding them in lazy globals.
type Client struct {
	resolver *net.Resolver
	dialer   *websocket.Dialer
	log      *zap.SugaredLogger
}

func NewClient(log *zap.SugaredLogger) (*Client, error) {
	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("transport: load system root certs: %w", err)
	}

	c := &Client{
		resolver: &net.Resolver{},
		log:      log,
	}
	c.dialer = &websocket.Dialer{
		NetDialContext:   c.dialContext,
		TLSClientConfig:  &tls.Config{RootCAs: roots},
		HandshakeTimeout: 15 * time.Second,
	}
	return c, nil
}

// dialContext resolves the host through the client's resolver and
// connects to the first IPv4 address.
func (c *Client) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	addrs, err := c.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("transport: no addresses for %s", host)
	}

	var d net.Dialer
	return d.DialContext(ctx, network, net.JoinHostPort(addrs[0].String(), port))
}

// Dial opens the stream session and wraps it as a frame source.
func (c *Client) Dial(ctx context.Context, url string) (*Stream, error) {
	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	c.log.Infow("stream_connected", "url", url)
	return &Stream{conn: conn}, nil
}

// Stream adapts one websocket session to feed.FrameSource. Binary frames
// are skipped and control frames are handled by the websocket layer; an
// orderly close from the peer surfaces as feed.ErrStreamClosed.
type Stream struct {
	conn *websocket.Conn
}

func (s *Stream) Next() ([]byte, error) {
	for {
		typ, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, feed.ErrStreamClosed
			}
			return nil, fmt.Errorf("transport: read frame: %w", err)
		}
		if typ == websocket.TextMessage {
			return msg, nil
		}
	}
}

func (s *Stream) Close() error {
	return s.conn.Close()
}
