// Package client speaks the front-door API of a serving node: transaction
// submission, stats introspection and metrics flushing. Messages travel as
// newline-delimited JSON envelopes over TCP.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/pingcap/errors"

	"github.com/delftdata/Gaia/txnpb"
)

// Request is the client-to-server envelope. Exactly one field is set.
type Request struct {
	Txn     *TxnRequest     `json:"txn,omitempty"`
	Stats   *StatsRequest   `json:"stats,omitempty"`
	Metrics *MetricsRequest `json:"metrics,omitempty"`
}

type TxnRequest struct {
	Txn *txnpb.Transaction `json:"txn"`
}

type StatsRequest struct {
	Module string `json:"module"`
	Level  uint64 `json:"level"`
}

type MetricsRequest struct {
	Prefix string `json:"prefix"`
}

// Response is the server-to-client envelope.
type Response struct {
	Txn     *TxnResponse     `json:"txn,omitempty"`
	Stats   *StatsResponse   `json:"stats,omitempty"`
	Metrics *MetricsResponse `json:"metrics,omitempty"`
}

type TxnResponse struct {
	Txn *txnpb.Transaction `json:"txn"`
}

type StatsResponse struct {
	StatsJSON string `json:"stats_json"`
}

type MetricsResponse struct{}

// Conn is one connection to a serving node.
type Conn struct {
	conn net.Conn
	w    *bufio.Writer
	enc  *json.Encoder
	dec  *json.Decoder
}

// Dial connects to host:port.
func Dial(host string, port uint32) (*Conn, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, errors.Annotatef(err, "connect to %s", addr)
	}
	w := bufio.NewWriter(conn)
	return &Conn{
		conn: conn,
		w:    w,
		enc:  json.NewEncoder(w),
		dec:  json.NewDecoder(bufio.NewReader(conn)),
	}, nil
}

func (c *Conn) Close() error { return c.conn.Close() }

// Send writes one request envelope.
func (c *Conn) Send(req *Request) error {
	if err := c.enc.Encode(req); err != nil {
		return errors.Annotate(err, "send request")
	}
	return errors.Trace(c.w.Flush())
}

// Recv reads one response envelope.
func (c *Conn) Recv() (*Response, error) {
	var res Response
	if err := c.dec.Decode(&res); err != nil {
		return nil, errors.Annotate(err, "malformed response")
	}
	return &res, nil
}
