package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
)

const (
	readWait       = 10 * time.Second
	writeWait      = 10 * time.Second
	pingPeriod     = 5 * time.Second
	maxMessageSize = 1024

	ActionSubscribePool   = "SUBSCRIBE_POOL"
	ActionUnsubscribePool = "UNSUBSCRIBE_POOL"
	ActionEmitEvent       = "EMIT_EVENT"
	ActionError           = "ERROR"
)

// Message is the gzipped JSON frame exchanged with websocket clients in
// both directions.
type Message struct {
	Id     string                 `json:"id"`
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params,omitempty"`
	Data   interface{}            `json:"data,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	cid      string
	inbound  chan *Message
	events   chan *EventResponse
	outbound chan []byte
	cancel   context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, cancel context.CancelFunc) (*Client, error) {
	if hub == nil || conn == nil {
		return nil, errors.New("invalid websocket client")
	}
	return &Client{
		hub:      hub,
		conn:     conn,
		cid:      id,
		inbound:  make(chan *Message, 64),
		events:   make(chan *EventResponse, 1024),
		outbound: make(chan []byte, 1024),
		cancel:   cancel,
	}, nil
}

// Serve runs a websocket connection until either side closes it.
func (hub *Hub) Serve(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := NewClient(hub, conn, uuid.Must(uuid.NewV4()).String(), cancel)
	if err != nil {
		return err
	}
	if err := hub.Register(ctx, client); err != nil {
		return err
	}
	defer hub.Unregister(client)

	go client.writeLoop(ctx)
	go client.eventLoop(ctx)
	go client.actionLoop(ctx)
	return client.readLoop(ctx)
}

func encodeFrame(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, 3)
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(zw).Encode(msg); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFrame(r io.Reader) (*Message, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var msg Message
	err = json.NewDecoder(zr).Decode(&msg)
	return &msg, err
}

func (client *Client) writeLoop(ctx context.Context) {
	defer client.cancel()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case frame := <-client.outbound:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = client.conn.WriteMessage(websocket.BinaryMessage, frame)
		case <-ticker.C:
			err = client.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
		if err != nil {
			log.Println("websocket write", client.cid, err)
			return
		}
	}
}

// eventLoop forwards hub events of the subscribed pools. Replayed events
// are delayed slightly so the subscription ack reaches the client first.
func (client *Client) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case resp := <-client.events:
			if resp.Source == sourceRecentEvents {
				time.Sleep(100 * time.Millisecond)
			}
			for _, e := range resp.Events {
				err := client.send(&Message{
					Id:     uuid.Nil.String(),
					Action: ActionEmitEvent,
					Data:   map[string]interface{}{"source": resp.Source, "event": e},
				})
				if err != nil {
					client.cancel()
					return
				}
			}
		}
	}
}

func (client *Client) actionLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-client.inbound:
			if err := client.handle(ctx, msg); err != nil {
				client.cancel()
				return
			}
		}
	}
}

func (client *Client) readLoop(ctx context.Context) error {
	defer client.cancel()
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		client.conn.SetReadDeadline(time.Now().Add(readWait))
		messageType, r, err := client.conn.NextReader()
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			return err
		} else if err != nil {
			return nil
		}
		if messageType != websocket.BinaryMessage {
			err = client.fail("message type must be binary")
		} else if msg, derr := decodeFrame(r); derr != nil {
			err = client.fail(derr.Error())
		} else {
			select {
			case client.inbound <- msg:
			case <-time.After(writeWait):
				err = errors.New("timeout to queue inbound message")
			}
		}
		if err != nil {
			return err
		}
	}
}

func (client *Client) handle(ctx context.Context, msg *Message) error {
	poolId, _ := msg.Params["pool_id"].(string)
	if _, err := uuid.FromString(poolId); err != nil {
		return client.ack(msg, fmt.Errorf("invalid pool id %v", msg.Params["pool_id"]))
	}
	switch msg.Action {
	case ActionSubscribePool:
		return client.ack(msg, client.hub.SubscribePool(ctx, poolId, client.cid))
	case ActionUnsubscribePool:
		return client.ack(msg, client.hub.UnsubscribePool(ctx, poolId, client.cid))
	}
	return client.ack(msg, fmt.Errorf("unknown action %s", msg.Action))
}

func (client *Client) fail(reason string) error {
	return client.send(&Message{Id: uuid.Nil.String(), Action: ActionError, Error: reason})
}

func (client *Client) ack(req *Message, err error) error {
	msg := &Message{Id: req.Id, Action: req.Action}
	if err != nil {
		msg.Error = err.Error()
	} else {
		msg.Data = map[string]string{"status": "received"}
	}
	return client.send(msg)
}

func (client *Client) send(msg *Message) error {
	frame, err := encodeFrame(msg)
	if err != nil {
		return err
	}
	select {
	case client.outbound <- frame:
		return nil
	case <-time.After(writeWait):
		return errors.New("timeout to queue outbound message")
	}
}

// deliver hands a hub response to the client without blocking the hub for
// longer than writeWait.
func (client *Client) deliver(resp *EventResponse) error {
	select {
	case client.events <- resp:
		return nil
	case <-time.After(writeWait):
		return errors.New("timeout to deliver hub events")
	}
}
