package cache

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	registerWait = 10 * time.Second
	recentEvents = 32

	sourceRecentEvents = "LIST_RECENT_EVENTS"
	sourceEmitEvent    = "EMIT_EVENT"
)

type Subscription struct {
	channel string
	cid     string
}

type Member struct {
	client   *Client
	channels map[string]time.Time
}

type EventResponse struct {
	Channel string
	Source  string
	Events  []*Event
}

// Hub fans pool events out to the websocket clients subscribed to the
// pool, replaying the latest events of a pool to new subscribers.
type Hub struct {
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	emit        chan *Event
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription, 64),
		unsubscribe: make(chan *Subscription, 64),
		emit:        make(chan *Event, 8192),
	}
}

func (hub *Hub) Run(ctx context.Context) error {
	if Redis(ctx) != nil {
		go hub.loopPoolEvents(ctx)
	}
	members := make(map[string]*Member)
	channels := make(map[string]map[string]time.Time)
	recent := make(map[string][]*Event)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case client := <-hub.register:
			if _, found := members[client.cid]; !found {
				members[client.cid] = &Member{client, make(map[string]time.Time)}
			}
		case client := <-hub.unregister:
			if member, found := members[client.cid]; found {
				delete(members, client.cid)
				for channel := range member.channels {
					delete(channels[channel], client.cid)
				}
				client.cancel()
			}
		case sub := <-hub.subscribe:
			member, found := members[sub.cid]
			if !found {
				continue
			}
			if _, found := member.channels[sub.channel]; found {
				continue
			}
			if _, found := channels[sub.channel]; !found {
				channels[sub.channel] = make(map[string]time.Time)
			}
			channels[sub.channel][sub.cid] = time.Now()
			member.channels[sub.channel] = time.Now()
			err := member.client.deliver(&EventResponse{
				Channel: sub.channel,
				Source:  sourceRecentEvents,
				Events:  append([]*Event{}, recent[sub.channel]...),
			})
			if err != nil {
				log.Println("hub subscribe", err)
				member.client.cancel()
			}
		case sub := <-hub.unsubscribe:
			if member, found := members[sub.cid]; found {
				delete(member.channels, sub.channel)
			}
			if channel, found := channels[sub.channel]; found {
				delete(channel, sub.cid)
			}
		case e := <-hub.emit:
			channel := poolChannel(e.PoolId)
			events := append(recent[channel], e)
			if len(events) > recentEvents {
				events = events[len(events)-recentEvents:]
			}
			recent[channel] = events
			resp := &EventResponse{Channel: channel, Source: sourceEmitEvent, Events: []*Event{e}}
			for cid := range channels[channel] {
				member, found := members[cid]
				if !found {
					continue
				}
				err := member.client.deliver(resp)
				if err != nil {
					log.Println("hub emit", err)
					member.client.cancel()
				}
			}
		}
	}
}

func (hub *Hub) Register(ctx context.Context, client *Client) error {
	select {
	case hub.register <- client:
	case <-time.After(registerWait):
		return fmt.Errorf("timeout to register client %s", client.cid)
	}
	return nil
}

func (hub *Hub) Unregister(client *Client) error {
	select {
	case hub.unregister <- client:
	case <-time.After(registerWait):
		return fmt.Errorf("timeout to unregister client %s", client.cid)
	}
	return nil
}

func (hub *Hub) SubscribePool(ctx context.Context, poolId, cid string) error {
	select {
	case hub.subscribe <- &Subscription{poolChannel(poolId), cid}:
	case <-time.After(registerWait):
		return fmt.Errorf("timeout to subscribe pool %s %s", poolId, cid)
	}
	return nil
}

func (hub *Hub) UnsubscribePool(ctx context.Context, poolId, cid string) error {
	select {
	case hub.unsubscribe <- &Subscription{poolChannel(poolId), cid}:
	case <-time.After(registerWait):
		return fmt.Errorf("timeout to unsubscribe pool %s %s", poolId, cid)
	}
	return nil
}

func (hub *Hub) Emit(ctx context.Context, e *Event) {
	select {
	case hub.emit <- e:
	case <-ctx.Done():
	}
}

func (hub *Hub) loopPoolEvents(ctx context.Context) {
	pubsub := Redis(ctx).Subscribe(poolEventsChannel)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveMessage()
		if err != nil {
			log.Println("loopPoolEvents", err)
			time.Sleep(300 * time.Millisecond)
			continue
		}
		e, err := DecodeEvent([]byte(msg.Payload))
		if err != nil {
			log.Println("loopPoolEvents", err)
			continue
		}
		hub.Emit(ctx, e)
	}
}
