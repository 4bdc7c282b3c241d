package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/hsm/corecode"
)

func TestNewTopologyBuilder_OutOfMemory(t *testing.T) {
	for _, tc := range []struct {
		name                                           string
		nStates, nChoices, nTrans, nActions, nGuards int
	}{
		{"negative states", -1, 0, 1, 0, 0},
		{"negative choices", 0, -1, 1, 0, 0},
		{"zero trans", 1, 0, 0, 0, 0},
		{"negative trans", 1, 0, -1, 0, 0},
		{"negative actions", 1, 0, 1, -1, 0},
		{"negative guards", 1, 0, 1, 0, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, code := NewTopologyBuilder(tc.nStates, tc.nChoices, tc.nTrans, tc.nActions, tc.nGuards)
			assert.Equal(t, corecode.OutOfMemory, code)
		})
	}
}

func TestTopologyBuilder_AddState(t *testing.T) {
	b, code := NewTopologyBuilder(2, 0, 3, 0, 0)
	require.Equal(t, corecode.Success, code)

	assert.Equal(t, corecode.Success, b.AddState(1, 1, 0, 0, 0))
	assert.Equal(t, corecode.StateIdInUse, b.AddState(1, 0, 0, 0, 0))
	assert.Equal(t, corecode.IllStateId, b.AddState(0, 0, 0, 0, 0))
	assert.Equal(t, corecode.IllStateId, b.AddState(3, 0, 0, 0, 0))
	assert.Equal(t, corecode.NegOutTrans, b.AddState(2, -1, 0, 0, 0))
	assert.Equal(t, corecode.TooManyOutTrans, b.AddState(2, 5, 0, 0, 0))
	assert.Equal(t, corecode.Success, b.AddState(2, 1, 0, 0, 0))
}

func TestTopologyBuilder_AddChoice(t *testing.T) {
	b, code := NewTopologyBuilder(0, 1, 3, 0, 0)
	require.Equal(t, corecode.Success, code)

	assert.Equal(t, corecode.IllNOfOutTrans, b.AddChoice(1, 0))
	assert.Equal(t, corecode.Success, b.AddChoice(1, 2))
	assert.Equal(t, corecode.ChoiceIdInUse, b.AddChoice(1, 1))
	assert.Equal(t, corecode.IllChoiceId, b.AddChoice(2, 1))
}

func TestTopologyBuilder_AddFromState(t *testing.T) {
	b, code := NewTopologyBuilder(2, 0, 2, 0, 0)
	require.Equal(t, corecode.Success, code)
	require.Equal(t, corecode.Success, b.AddState(1, 1, 0, 0, 0))
	require.Equal(t, corecode.Success, b.AddState(2, 0, 0, 0, 0))

	assert.Equal(t, corecode.IllTransSrc, b.AddFromState(0, Dest{Kind: DestState, ID: 2}, 1, 0, 0))
	assert.Equal(t, corecode.Success, b.AddFromState(1, Dest{Kind: DestState, ID: 9}, 1, 0, 0),
		"an out-of-range destination is stored unchecked; only Validate rejects it")
	assert.Equal(t, corecode.TooManyTrans, b.AddFromState(1, Dest{Kind: DestState, ID: 2}, 2, 0, 0))
	assert.Equal(t, corecode.TooManyTrans, b.AddFromState(2, Dest{Kind: DestFinal}, 1, 0, 0))
}

func TestTopologyBuilder_AddFromChoice(t *testing.T) {
	b, code := NewTopologyBuilder(1, 1, 3, 0, 0)
	require.Equal(t, corecode.Success, code)
	require.Equal(t, corecode.Success, b.AddState(1, 1, 0, 0, 0))
	require.Equal(t, corecode.Success, b.AddChoice(1, 1))

	assert.Equal(t, corecode.Success, b.AddFromState(1, Dest{Kind: DestChoice, ID: 9}, 1, 0, 0),
		"an out-of-range destination is stored unchecked; only Validate rejects it")
	assert.Equal(t, corecode.Success, b.AddFromChoice(1, Dest{Kind: DestState, ID: 1}, 0, 0))
	assert.Equal(t, corecode.TooManyTrans, b.AddFromChoice(1, Dest{Kind: DestFinal}, 0, 0))
}

func TestTopologyBuilder_AddInitial(t *testing.T) {
	b, code := NewTopologyBuilder(1, 0, 1, 0, 0)
	require.Equal(t, corecode.Success, code)

	assert.Equal(t, corecode.Success, b.AddInitial(Dest{Kind: DestState, ID: 9}, 0, 0),
		"an out-of-range destination is stored unchecked; only Validate rejects it")
	assert.Equal(t, corecode.Success, b.AddInitial(Dest{Kind: DestState, ID: 1}, 0, 0))
	top := b.Freeze()
	assert.Equal(t, Dest{Kind: DestState, ID: 1}, top.Initial().Dest)
}
