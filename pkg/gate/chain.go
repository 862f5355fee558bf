package gate

import "sync"

// Processor is a packet-processor hook pair registered with the host stack.
// ClassifyInbound runs before protocol dispatch, ClassifyOutbound before
// transmission. Returning ActionDrop suppresses further processing.
type Processor interface {
	ClassifyInbound(meta PacketMeta) Action
	ClassifyOutbound(meta PacketMeta) Action
}

// Chain runs registered processors in registration order.
type Chain struct {
	mu         sync.RWMutex
	processors []Processor
}

// NewChain creates an empty processor chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add registers a processor at the end of the chain.
func (c *Chain) Add(p Processor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, p)
}

// Remove unregisters a processor. It reports whether p was registered.
func (c *Chain) Remove(p Processor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for idx, existing := range c.processors {
		if existing == p {
			c.processors = append(c.processors[:idx], c.processors[idx+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered processors.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.processors)
}

// Input runs the inbound hooks; the first drop wins.
func (c *Chain) Input(meta PacketMeta) Action {
	for _, p := range c.snapshot() {
		if p.ClassifyInbound(meta) == ActionDrop {
			return ActionDrop
		}
	}
	return ActionProcess
}

// Output runs the outbound hooks; the first drop wins.
func (c *Chain) Output(meta PacketMeta) Action {
	for _, p := range c.snapshot() {
		if p.ClassifyOutbound(meta) == ActionDrop {
			return ActionDrop
		}
	}
	return ActionProcess
}

func (c *Chain) snapshot() []Processor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Processor, len(c.processors))
	copy(out, c.processors)
	return out
}
