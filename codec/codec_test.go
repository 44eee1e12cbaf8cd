package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Signature string            `json:"signature"`
	Docs      []string          `json:"docs"`
	Terms     map[string][]byte `json:"terms"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("gob")
	assert.False(t, ok)
	assert.Equal(t, "go-json", Default.Name())
}

func TestCodecs_Interchangeable(t *testing.T) {
	in := body{
		Signature: "18:25:2",
		Docs:      []string{"a", "b"},
		Terms:     map[string][]byte{"$89": {1, 2, 3}},
	}
	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			t.Run(enc.Name()+"->"+dec.Name(), func(t *testing.T) {
				var out body
				require.NoError(t, dec.Unmarshal(MustMarshal(enc, in), &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
	assert.NotPanics(t, func() { MustMarshal(nil, 1) })
}
