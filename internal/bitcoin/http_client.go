package bitcoin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPConfig addresses a bitcoind JSON-RPC endpoint.
type HTTPConfig struct {
	URL      string
	User     string
	Password string
	Timeout  time.Duration
}

// HTTPClient is a JSON-RPC over HTTP POST client. Each call is sent exactly
// once; a failed exchange is returned to the caller as is.
type HTTPClient struct {
	endpoint string
	user     string
	password string
	client   *http.Client
	lastID   atomic.Uint64
}

// NewHTTPClient validates cfg and builds a client. Credentials embedded in the
// URL are used when cfg.User is empty.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("parse rpc url %q: unsupported scheme %q", cfg.URL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse rpc url %q: missing host", cfg.URL)
	}

	user, password := cfg.User, cfg.Password
	if user == "" && u.User != nil {
		user = u.User.Username()
		password, _ = u.User.Password()
	}
	u.User = nil

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &HTTPClient{
		endpoint: u.String(),
		user:     user,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// GetBlockCount returns the height of the most-work chain.
func (c *HTTPClient) GetBlockCount() (int64, error) {
	raw, err := c.call(btcjson.NewGetBlockCountCmd())
	if err != nil {
		return 0, err
	}
	var count int64
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, fmt.Errorf("decode getblockcount result: %w", err)
	}
	return count, nil
}

// GetBestBlockHash returns the hash of the chain tip.
func (c *HTTPClient) GetBestBlockHash() (*chainhash.Hash, error) {
	raw, err := c.call(btcjson.NewGetBestBlockHashCmd())
	if err != nil {
		return nil, err
	}
	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return nil, fmt.Errorf("decode getbestblockhash result: %w", err)
	}
	return chainhash.NewHashFromStr(hash)
}

// RawRequest sends method with already encoded params.
func (c *HTTPClient) RawRequest(method string, params []json.RawMessage) (json.RawMessage, error) {
	if params == nil {
		params = []json.RawMessage{}
	}
	body, err := json.Marshal(&btcjson.Request{
		Jsonrpc: btcjson.RpcVersion1,
		Method:  method,
		Params:  params,
		ID:      c.lastID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}
	return c.send(method, body)
}

func (c *HTTPClient) call(cmd any) (json.RawMessage, error) {
	method, err := btcjson.CmdMethod(cmd)
	if err != nil {
		return nil, err
	}
	body, err := btcjson.MarshalCmd(btcjson.RpcVersion1, c.lastID.Add(1), cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}
	return c.send(method, body)
}

func (c *HTTPClient) send(method string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	// bitcoind answers RPC errors with a non-200 status and a JSON body.
	var rpcResp btcjson.Response
	if err := json.Unmarshal(payload, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s: unexpected status %s", method, resp.Status)
		}
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", method, resp.Status)
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return nil, errors.New(method + ": empty result")
	}
	return rpcResp.Result, nil
}
