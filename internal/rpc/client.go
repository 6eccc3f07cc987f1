package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/mimecast/dnode/internal/event"
	"github.com/mimecast/dnode/internal/io/dlog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// Client talks JSON-RPC to the node.
type Client struct {
	endpoint string
	rpc      *ethrpc.Client
}

// Dial connects to the node's RPC endpoint.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	c, err := ethrpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to dial %s", endpoint)
	}
	return &Client{endpoint: endpoint, rpc: c}, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(endpoint:%s)", c.endpoint)
}

// Close the connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// Call invokes method and unmarshals the result into result.
func (c *Client) Call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	dlog.Common.Trace("RPC call", c.endpoint, method)
	if err := c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return errors.Wrap(err, method)
	}
	return nil
}

// BlockNumber returns the number of the most recent block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var number hexutil.Uint64
	if err := c.Call(ctx, &number, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(number), nil
}

// SendRawTransaction submits a signed transaction and returns the hash the
// node reports for it.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (event.TxHash, error) {
	var hash common.Hash
	if err := c.Call(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return event.TxHash{}, err
	}

	txHash := event.TxHash(hash)
	if local := event.HashTransaction(raw); local != txHash {
		dlog.Common.Warn("Node reported unexpected transaction hash", txHash, local)
	}
	return txHash, nil
}

// WaitReady polls BlockNumber until the node answers or timeout passed.
func (c *Client) WaitReady(ctx context.Context, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		callCtx, callCancel := context.WithTimeout(ctx, interval)
		_, err := c.BlockNumber(callCtx)
		callCancel()
		if err == nil {
			return nil
		}
		dlog.Common.Debug("Node RPC not ready", c.endpoint, err)

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return errors.Wrapf(err, "node RPC not ready after %v", timeout)
		}
	}
}
