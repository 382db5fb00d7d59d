package peer

import (
	"sync"

	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

const pipeBuffer = 256

// Pipe returns two connected in-memory channels. Envelopes cross the pipe
// encoded with codec, so both ends see exactly what a network peer would.
// Closing either end closes both.
func Pipe(codec proto.Codec) (Channel, Channel) {
	if codec == nil {
		codec = proto.JSONCodec{}
	}
	shared := &pipeLink{done: make(chan struct{})}
	a := &pipeEnd{codec: codec, link: shared, inbox: make(chan []byte, pipeBuffer)}
	b := &pipeEnd{codec: codec, link: shared, inbox: make(chan []byte, pipeBuffer)}
	a.remote, b.remote = b, a
	return a, b
}

type pipeLink struct {
	once sync.Once
	done chan struct{}
}

func (l *pipeLink) close() {
	l.once.Do(func() { close(l.done) })
}

type pipeEnd struct {
	handlers

	codec     proto.Codec
	link      *pipeLink
	inbox     chan []byte
	remote    *pipeEnd
	startOnce sync.Once
}

func (p *pipeEnd) Send(env proto.Envelope) error {
	data, err := p.codec.Encode(env)
	if err != nil {
		return err
	}
	select {
	case <-p.link.done:
		return ErrClosed
	default:
	}
	select {
	case p.remote.inbox <- data:
		return nil
	case <-p.link.done:
		return ErrClosed
	}
}

func (p *pipeEnd) Start() {
	p.startOnce.Do(func() {
		p.opened()
		go p.run()
	})
}

func (p *pipeEnd) run() {
	for {
		select {
		case data := <-p.inbox:
			p.receive(data)
		case <-p.link.done:
			for {
				select {
				case data := <-p.inbox:
					p.receive(data)
				default:
					p.closed()
					return
				}
			}
		}
	}
}

func (p *pipeEnd) receive(data []byte) {
	env, err := p.codec.Decode(data)
	if err != nil {
		p.dropped(err, len(data))
		return
	}
	p.deliver(env)
}

func (p *pipeEnd) Close() error {
	p.link.close()
	return nil
}

// Inject pushes a raw frame into the receiving side of ch, bypassing the
// codec. It exists for exercising malformed input and reports false for
// channels that are not pipe ends.
func Inject(ch Channel, frame []byte) bool {
	end, ok := ch.(*pipeEnd)
	if !ok {
		return false
	}
	select {
	case end.inbox <- frame:
		return true
	case <-end.link.done:
		return false
	}
}
