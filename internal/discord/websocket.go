package discord

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/util"
)

type MessageCallback func(message *Message)

type StateCallback func(state GatewayState)

type callbackEntry struct {
	id       int
	callback MessageCallback
}

type stateCallbackEntry struct {
	id       int
	callback StateCallback
}

// Gateway maintains the live message stream. Subscribers register callbacks
// and get back an unsubscribe closure; the claim awaiter relies on that
// closure always detaching its one subscription.
type Gateway struct {
	gatewayURL           string
	token                string
	conn                 *websocket.Conn
	connMu               sync.Mutex
	state                GatewayState
	stateMu              sync.RWMutex
	messageCallbacks     []callbackEntry
	stateCallbacks       []stateCallbackEntry
	nextCallbackID       int
	callbacksMu          sync.RWMutex
	lastSeq              *int64
	seqMu                sync.Mutex
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	listenerWg           sync.WaitGroup
}

func NewGateway(gatewayURL, token string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		gatewayURL:           gatewayURL,
		token:                token,
		state:                GatewayStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
		messageCallbacks:     make([]callbackEntry, 0),
		stateCallbacks:       make([]stateCallbackEntry, 0),
		nextCallbackID:       1,
	}
}

func (g *Gateway) Connect(ctx context.Context) error {
	g.stateMu.Lock()
	if g.state == GatewayStateConnected || g.state == GatewayStateConnecting {
		g.stateMu.Unlock()
		g.logger.Warn("Gateway already connected or connecting")
		return nil
	}
	g.stateMu.Unlock()

	g.setState(GatewayStateConnecting)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, g.gatewayURL, nil)
	if err != nil {
		g.logger.Error("Failed to connect gateway", zap.Error(err))
		g.setState(GatewayStateFailed)
		g.scheduleReconnect(ctx)
		return err
	}

	g.connMu.Lock()
	g.conn = conn
	g.connMu.Unlock()

	g.setState(GatewayStateConnected)
	g.reconnectAttempts = 0

	g.logger.Info("Gateway connected", zap.String("url", g.gatewayURL))

	// connDone ties the heartbeat spawned for this connection to the
	// listener's lifetime, so a reconnect never leaves the previous
	// heartbeat ticking against a dead conn.
	connDone := make(chan struct{})

	g.listenerWg.Add(1)
	go g.listen(ctx, conn, connDone)

	return nil
}

func (g *Gateway) listen(ctx context.Context, conn *websocket.Conn, connDone chan struct{}) {
	defer g.listenerWg.Done()
	defer close(connDone)
	defer g.logger.Info("Gateway listener stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.stopCh:
			return
		default:
			_, msgBytes, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-g.stopCh:
					return
				default:
				}
				g.logger.Error("Gateway read error", zap.Error(err))
				g.setState(GatewayStateDisconnected)
				g.scheduleReconnect(ctx)
				return
			}

			g.handlePayload(ctx, conn, connDone, msgBytes)
		}
	}
}

func (g *Gateway) handlePayload(ctx context.Context, conn *websocket.Conn, connDone <-chan struct{}, data []byte) {
	var payload gatewayPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.logger.Error("Failed to parse gateway payload",
			zap.Error(err),
			zap.String("data", util.TruncateString(string(data), 200)),
		)
		return
	}

	if payload.S != nil {
		g.seqMu.Lock()
		g.lastSeq = payload.S
		g.seqMu.Unlock()
	}

	switch payload.Op {
	case opHello:
		var hello helloData
		if err := json.Unmarshal(payload.D, &hello); err != nil {
			g.logger.Error("Failed to parse hello", zap.Error(err))
			return
		}
		g.startHeartbeat(ctx, conn, connDone, time.Duration(hello.HeartbeatInterval)*time.Millisecond)
		g.identify(conn)

	case opHeartbeat:
		g.sendHeartbeat(conn)

	case opHeartACK:
		// nothing to do

	case opDispatch:
		if payload.T != eventMessageCreate {
			return
		}
		var message Message
		if err := json.Unmarshal(payload.D, &message); err != nil {
			g.logger.Error("Failed to parse message event", zap.Error(err))
			return
		}
		g.dispatchMessage(&message)
	}
}

func (g *Gateway) dispatchMessage(message *Message) {
	g.callbacksMu.RLock()
	callbacks := make([]callbackEntry, len(g.messageCallbacks))
	copy(callbacks, g.messageCallbacks)
	g.callbacksMu.RUnlock()

	for _, entry := range callbacks {
		entry.callback(message)
	}
}

func (g *Gateway) identify(conn *websocket.Conn) {
	data, err := json.Marshal(identifyData{
		Token:   g.token,
		Intents: defaultIntents,
		Properties: identifyProperties{
			OS:      "linux",
			Browser: "mudae-tracker",
			Device:  "mudae-tracker",
		},
	})
	if err != nil {
		g.logger.Error("Failed to marshal identify", zap.Error(err))
		return
	}
	if err := g.writePayload(conn, gatewayPayload{Op: opIdentify, D: data}); err != nil {
		g.logger.Error("Failed to send identify", zap.Error(err))
	}
}

func (g *Gateway) startHeartbeat(ctx context.Context, conn *websocket.Conn, connDone <-chan struct{}, interval time.Duration) {
	g.listenerWg.Add(1)
	go func() {
		defer g.listenerWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-g.stopCh:
				return
			case <-connDone:
				return
			case <-ticker.C:
				g.sendHeartbeat(conn)
			}
		}
	}()
}

func (g *Gateway) sendHeartbeat(conn *websocket.Conn) {
	g.seqMu.Lock()
	seq := g.lastSeq
	g.seqMu.Unlock()

	var data json.RawMessage = []byte("null")
	if seq != nil {
		encoded, err := json.Marshal(*seq)
		if err == nil {
			data = encoded
		}
	}

	if err := g.writePayload(conn, gatewayPayload{Op: opHeartbeat, D: data}); err != nil {
		g.logger.Warn("Failed to send heartbeat", zap.Error(err))
	}
}

func (g *Gateway) writePayload(conn *websocket.Conn, payload gatewayPayload) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()
	return conn.WriteJSON(payload)
}

func (g *Gateway) scheduleReconnect(ctx context.Context) {
	g.reconnectAttempts++

	if g.reconnectAttempts > g.maxReconnectAttempts {
		g.logger.Error("Max reconnect attempts reached",
			zap.Int("attempts", g.reconnectAttempts),
		)
		g.setState(GatewayStateFailed)
		return
	}

	g.setState(GatewayStateReconnecting)

	g.logger.Info("Scheduling reconnect",
		zap.Int("attempt", g.reconnectAttempts),
		zap.Int("max", g.maxReconnectAttempts),
		zap.Duration("delay", g.reconnectDelay),
	)

	go func() {
		select {
		case <-time.After(g.reconnectDelay):
			if err := g.Connect(ctx); err != nil {
				g.logger.Error("Reconnect failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}()
}

// OnMessage registers a callback for every MESSAGE_CREATE event and returns
// an unsubscribe closure.
func (g *Gateway) OnMessage(callback MessageCallback) func() {
	g.callbacksMu.Lock()
	id := g.nextCallbackID
	g.nextCallbackID++
	g.messageCallbacks = append(g.messageCallbacks, callbackEntry{
		id:       id,
		callback: callback,
	})
	g.callbacksMu.Unlock()

	return func() {
		g.callbacksMu.Lock()
		defer g.callbacksMu.Unlock()
		for i, entry := range g.messageCallbacks {
			if entry.id == id {
				g.messageCallbacks = append(g.messageCallbacks[:i], g.messageCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (g *Gateway) OnStateChange(callback StateCallback) func() {
	g.callbacksMu.Lock()
	id := g.nextCallbackID
	g.nextCallbackID++
	g.stateCallbacks = append(g.stateCallbacks, stateCallbackEntry{
		id:       id,
		callback: callback,
	})
	g.callbacksMu.Unlock()

	return func() {
		g.callbacksMu.Lock()
		defer g.callbacksMu.Unlock()
		for i, entry := range g.stateCallbacks {
			if entry.id == id {
				g.stateCallbacks = append(g.stateCallbacks[:i], g.stateCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (g *Gateway) setState(newState GatewayState) {
	g.stateMu.Lock()
	oldState := g.state
	g.state = newState
	g.stateMu.Unlock()

	if oldState == newState {
		return
	}

	g.logger.Info("Gateway state changed",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
	)

	g.callbacksMu.RLock()
	callbacks := make([]stateCallbackEntry, len(g.stateCallbacks))
	copy(callbacks, g.stateCallbacks)
	g.callbacksMu.RUnlock()

	for _, entry := range callbacks {
		entry.callback(newState)
	}
}

func (g *Gateway) GetState() GatewayState {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()
	return g.state
}

func (g *Gateway) Disconnect() error {
	g.stopOnce.Do(func() {
		close(g.stopCh)
	})

	g.connMu.Lock()
	conn := g.conn
	g.conn = nil
	g.connMu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			g.logger.Error("Failed to close gateway connection", zap.Error(err))
			return err
		}
	}

	g.reconnectAttempts = 0
	g.setState(GatewayStateDisconnected)
	g.logger.Info("Gateway disconnected")

	done := make(chan struct{})
	go func() {
		g.listenerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.logger.Info("Listener stopped cleanly")
	case <-time.After(5 * time.Second):
		g.logger.Warn("Timeout waiting for listener to stop")
	}

	return nil
}
