package actors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	var box mailbox
	require.Nil(t, box.pop())

	for i := 0; i < 200; i++ {
		box.push(newEnvelope(context.Background(), i))
	}
	require.Equal(t, 200, box.len())

	for i := 0; i < 150; i++ {
		env := box.pop()
		require.NotNil(t, env)
		assert.Equal(t, i, env.message)
	}
	// interleave pushes after compaction kicked in
	box.push(newEnvelope(context.Background(), 200))
	for i := 150; i <= 200; i++ {
		env := box.pop()
		require.NotNil(t, env)
		assert.Equal(t, i, env.message)
	}
	assert.Zero(t, box.len())
	assert.Nil(t, box.pop())
}

func TestEnvelopeTokensAreUnique(t *testing.T) {
	a := newEnvelope(context.Background(), "a")
	b := newEnvelope(context.Background(), "a")
	assert.NotEmpty(t, a.token)
	assert.NotEqual(t, a.token, b.token)
}
