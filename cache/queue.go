package cache

import (
	"context"
	"log"
	"time"

	"github.com/ugorji/go/codec"
)

const (
	EventPoolCreate = "POOL_CREATE"
	EventPoolSwap   = "POOL_SWAP"
	EventPoolAdd    = "POOL_ADD"
)

type Event struct {
	Sequence    int64   `json:"sequence"`
	Type        string  `json:"type"`
	PoolId      string  `json:"pool_id"`
	Formula     string  `json:"formula"`
	Direction   string  `json:"direction,omitempty"`
	AmountA     float64 `json:"amount_a"`
	AmountB     float64 `json:"amount_b"`
	Output      float64 `json:"output"`
	Impact      float64 `json:"impact"`
	PartialFill bool    `json:"partial_fill"`
	ReserveA    float64 `json:"reserve_a"`
	ReserveB    float64 `json:"reserve_b"`
	Timestamp   int64   `json:"timestamp"`
}

func EncodeEvent(e *Event) ([]byte, error) {
	var out []byte
	err := codec.NewEncoderBytes(&out, new(codec.MsgpackHandle)).Encode(e)
	return out, err
}

func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	err := codec.NewDecoderBytes(data, new(codec.MsgpackHandle)).Decode(&e)
	return &e, err
}

// Queue sequences pool events and publishes them on redis, where every
// http process hub picks them up.
type Queue struct {
	sequence int64
	events   chan *Event
}

func NewQueue(ctx context.Context) *Queue {
	return &Queue{
		sequence: time.Now().Unix(),
		events:   make(chan *Event, 8192),
	}
}

func (queue *Queue) Loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-queue.events:
			queue.sequence = queue.sequence + 1
			e.Sequence = queue.sequence
			queue.publish(ctx, e)
		}
	}
}

func (queue *Queue) AttachEvent(ctx context.Context, e *Event) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixNano()
	}
	select {
	case queue.events <- e:
	case <-ctx.Done():
	}
}

func (queue *Queue) publish(ctx context.Context, e *Event) {
	data, err := EncodeEvent(e)
	if err != nil {
		log.Println("Queue.publish", err)
		return
	}
	for {
		err := Redis(ctx).Publish(poolEventsChannel, data).Err()
		if err == nil {
			return
		}
		log.Println("Queue.publish", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(300 * time.Millisecond):
		}
	}
}
