package rpc

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mimecast/dnode/internal/event"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

type testEthService struct {
	blockNumber uint64
	sent        [][]byte
}

func (s *testEthService) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(s.blockNumber)
}

func (s *testEthService) SendRawTransaction(raw hexutil.Bytes) (common.Hash, error) {
	if len(raw) == 0 {
		return common.Hash{}, errors.New("empty transaction")
	}
	s.sent = append(s.sent, raw)
	return common.Hash(event.HashTransaction(raw)), nil
}

func newTestServer(t *testing.T) (*testEthService, string) {
	service := &testEthService{blockNumber: 42}
	server := ethrpc.NewServer()
	require.NoError(t, server.RegisterName("eth", service))

	httpServer := httptest.NewServer(server)
	t.Cleanup(func() {
		httpServer.Close()
		server.Stop()
	})
	return service, httpServer.URL
}

func TestClientBlockNumber(t *testing.T) {
	_, url := newTestServer(t)

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	number, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), number)

	require.NoError(t, c.WaitReady(context.Background(), time.Second, 10*time.Millisecond))
}

func TestClientSendRawTransaction(t *testing.T) {
	service, url := newTestServer(t)

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	raw := []byte{0xf8, 0x6b, 0x01, 0x02}
	h, err := c.SendRawTransaction(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, event.HashTransaction(raw), h)
	require.Equal(t, [][]byte{raw}, service.sent)

	_, err = c.SendRawTransaction(context.Background(), nil)
	require.Error(t, err)
}

func TestClientUnknownMethod(t *testing.T) {
	_, url := newTestServer(t)

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	var result string
	require.Error(t, c.Call(context.Background(), &result, "eth_doesNotExist"))
}

func TestClientWaitReadyTimeout(t *testing.T) {
	c, err := Dial(context.Background(), "http://127.0.0.1:1")
	require.NoError(t, err)
	defer c.Close()

	start := time.Now()
	require.Error(t, c.WaitReady(context.Background(), 100*time.Millisecond, 20*time.Millisecond))
	require.Less(t, time.Since(start), 2*time.Second)
}
