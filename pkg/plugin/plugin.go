// Package plugin talks to external plugin processes: commands implemented
// outside the engine that register over a JSON-RPC handshake and are then
// dispatched to like any builtin.
//
// The protocol has two methods. "hello" exchanges the protocol version and
// the plugin's command signatures; a version mismatch fails registration.
// "run" carries one call: the evaluated arguments, the evaluated flags and
// the materialized input, and returns the output value.
package plugin

import (
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/logutil"
)

var logger = logutil.GetLogger("[plugin] ")

// Version is the protocol version spoken by this engine. Plugins must reply
// with the same version during the handshake.
const Version = 1

// callTimeout bounds every call to a plugin, handshake included.
const callTimeout = 30 * time.Second

// Client is one running plugin process with a completed handshake.
type Client struct {
	name string
	conn *jsonrpc2.Conn
	cmd  *exec.Cmd
	sigs []wireSignature
}

// Spawn starts a plugin executable and performs the handshake. The process
// speaks the protocol on its stdin and stdout.
func Spawn(ctx context.Context, name, path string, args ...string) (*Client, error) {
	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errs.IOError{What: "creating pipe to plugin " + name, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errs.IOError{What: "creating pipe to plugin " + name, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, errs.IOError{What: "starting plugin " + name, Err: err}
	}
	c, err := Connect(ctx, name, transport{stdout, stdin})
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}
	c.cmd = cmd
	return c, nil
}

// Connect performs the handshake over an existing duplex connection. It is
// split from Spawn so tests can drive the protocol over an in-memory pipe.
func Connect(ctx context.Context, name string, rwc io.ReadWriteCloser) (*Client, error) {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		noopHandler{})
	c := &Client{name: name, conn: conn}

	var hello helloResult
	if err := c.call(ctx, "hello", helloParams{Version: Version}, &hello); err != nil {
		conn.Close()
		return nil, err
	}
	if hello.Version != Version {
		conn.Close()
		return nil, errs.PluginProtocol{Plugin: name,
			Reason: "protocol version mismatch"}
	}
	if len(hello.Signatures) == 0 {
		conn.Close()
		return nil, errs.PluginProtocol{Plugin: name,
			Reason: "no commands declared"}
	}
	c.sigs = hello.Signatures
	logger.Printf("plugin %s: %d commands", name, len(hello.Signatures))
	return c, nil
}

// Name returns the plugin's registration name.
func (c *Client) Name() string { return c.name }

// Commands returns one proxy Command per signature the plugin declared.
func (c *Client) Commands() []eval.Command {
	cmds := make([]eval.Command, len(c.sigs))
	for i, sig := range c.sigs {
		cmds[i] = &proxyCommand{client: c, sig: signatureFromWire(sig)}
	}
	return cmds
}

// Register merges the plugin's commands into the given overlay.
func (c *Client) Register(es *eval.EngineState, overlay string) {
	d := es.NewDelta()
	for _, cmd := range c.Commands() {
		d.AddDecl(overlay, cmd)
	}
	es.Merge(d)
}

// Close disconnects from the plugin and reaps the process, if any.
func (c *Client) Close() error {
	err := c.conn.Close()
	if c.cmd != nil {
		c.cmd.Wait()
	}
	return err
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	err := c.conn.Call(ctx, method, params, result)
	if err == nil {
		return nil
	}
	if rpcErr, ok := err.(*jsonrpc2.Error); ok {
		return errs.PluginProtocol{Plugin: c.name, Reason: rpcErr.Message}
	}
	return errs.PluginProtocol{Plugin: c.name, Reason: err.Error()}
}

// noopHandler ignores requests initiated by the plugin; the protocol is
// strictly engine-driven.
type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if !req.Notif {
		conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
			Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"})
	}
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (t transport) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t transport) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t transport) Close() error {
	if err := t.in.Close(); err != nil {
		t.out.Close()
		return err
	}
	return t.out.Close()
}
