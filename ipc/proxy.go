package ipc

import (
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
	"github.com/dotcef/ipc/proxyenvelope"
)

// ProxyFilterDecision is a filter's answer to a proxy/modify request.
// StreamID, when nonzero, tells the asking side the replacement body will
// arrive as StreamData for that id rather than inline, so it must be
// opened locally before that data shows up.
type ProxyFilterDecision struct {
	ShouldProxy bool
	StreamID    uint32
}

// ProxyFilterFunc decides whether a request matching a registered URL
// pattern should be proxied. It runs on the WorkerPool, called for every
// WindowProxyRequest/WindowModifyRequest forwarded from the host.
type ProxyFilterFunc func(env proxyenvelope.Envelope) ProxyFilterDecision

// RegisterProxyFilter installs fn as the controller-side handler for
// HostWindowProxyRequest: the host asks, for a URL matching a pattern
// registered via CtlWindowAddUrlToProxy, whether to let the request
// through. Only meaningful on a RoleController engine.
func (e *Engine) RegisterProxyFilter(fn ProxyFilterFunc) {
	e.registerFilter(opcode.HostWindowProxyRequest, "proxy filter", fn)
}

// RegisterModifyFilter installs fn as the controller-side handler for
// HostWindowModifyRequest, the request-modification counterpart to
// RegisterProxyFilter for patterns registered via CtlWindowAddUrlToModify.
func (e *Engine) RegisterModifyFilter(fn ProxyFilterFunc) {
	e.registerFilter(opcode.HostWindowModifyRequest, "modify filter", fn)
}

func (e *Engine) registerFilter(op uint8, label string, fn ProxyFilterFunc) {
	e.RegisterHandler(op, opcode.Parallel, func(r *packet.Reader, w *packet.Writer) {
		env, err := proxyenvelope.Unmarshal(r.RemainingBytes())
		if err != nil {
			log.Errorf("%s: malformed envelope: %v", label, err)
			return
		}
		decision := fn(env)
		out := proxyenvelope.Envelope{
			MatchedURL:   env.MatchedURL,
			ResourceType: env.ResourceType,
			ShouldProxy:  decision.ShouldProxy,
		}
		if decision.StreamID != 0 {
			out.BodyType = proxyenvelope.BodyTypeStream
			out.StreamID = decision.StreamID
		}
		_ = w.WriteBytes(out.Marshal())
	})
}

// SendProxyEnvelope pushes a WindowProxyRequest/WindowModifyRequest-shaped
// envelope out on op and waits for the peer's decision. When the decision
// carries a stream body, the named DataStream is opened locally (and
// onStreamOpen fired, same as an explicit StreamOpen) before returning, so
// the StreamData that follows is never rejected as unknown.
func (e *Engine) SendProxyEnvelope(op uint8, env proxyenvelope.Envelope) (proxyenvelope.Envelope, error) {
	resp, err := e.Call(op, env.Marshal())
	if err != nil {
		return proxyenvelope.Envelope{}, err
	}
	out, err := proxyenvelope.Unmarshal(resp)
	if err != nil {
		return proxyenvelope.Envelope{}, err
	}
	if out.BodyType == proxyenvelope.BodyTypeStream && out.StreamID != 0 {
		s := e.stream_open(out.StreamID)
		if cb := e.streamOpenCallback(); cb != nil {
			cb(out.StreamID, s)
		}
	}
	return out, nil
}
