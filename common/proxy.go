package common

import (
  "context"
  "net"

  "h12.io/socks"
)

type ProxySession struct {
  Proxy string
}

func (s *ProxySession) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
  return socks.Dial(s.Proxy)(network, addr)
}
