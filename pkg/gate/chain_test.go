package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticProcessor struct {
	in, out Action
	calls   int
}

func (s *staticProcessor) ClassifyInbound(PacketMeta) Action {
	s.calls++
	return s.in
}

func (s *staticProcessor) ClassifyOutbound(PacketMeta) Action {
	s.calls++
	return s.out
}

func TestChainFirstDropWins(t *testing.T) {
	first := &staticProcessor{in: ActionDrop, out: ActionProcess}
	second := &staticProcessor{in: ActionProcess, out: ActionDrop}

	chain := NewChain()
	chain.Add(first)
	chain.Add(second)

	assert.Equal(t, ActionDrop, chain.Input(testPacket(ProtocolUDP)))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "second processor must not run after a drop")

	assert.Equal(t, ActionDrop, chain.Output(testPacket(ProtocolUDP)))
	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChainEmptyProcesses(t *testing.T) {
	chain := NewChain()
	assert.Equal(t, ActionProcess, chain.Input(testPacket(ProtocolUDP)))
	assert.Equal(t, ActionProcess, chain.Output(testPacket(ProtocolUDP)))
}

func TestChainRemove(t *testing.T) {
	p := &staticProcessor{in: ActionDrop, out: ActionDrop}
	chain := NewChain()
	chain.Add(p)
	assert.Equal(t, 1, chain.Len())

	assert.True(t, chain.Remove(p))
	assert.False(t, chain.Remove(p))
	assert.Equal(t, 0, chain.Len())
	assert.Equal(t, ActionProcess, chain.Input(testPacket(ProtocolUDP)))
}

func TestChainWithInterceptor(t *testing.T) {
	state := &fixedState{state: StateActive}
	obs := &recordingObserver{}
	chain := NewChain()
	chain.Add(NewInterceptor(state, obs, Config{Tracked: ProtocolUDP}))

	assert.Equal(t, ActionProcess, chain.Input(testPacket(ProtocolUDP)))
	assert.Len(t, obs.seen, 1)

	state.state = StateAsleep
	assert.Equal(t, ActionDrop, chain.Input(testPacket(ProtocolUDP)))
	assert.Equal(t, ActionDrop, chain.Output(testPacket(ProtocolICMPv6)))
	assert.Len(t, obs.seen, 1)
}
