package roundid

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))

	parsed, err := Decode(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, uuid.RFC4122, parsed.Variant())
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	b := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))

	idA, err := Decode(a.Next())
	require.NoError(t, err)
	idB, err := Decode(b.Next())
	require.NoError(t, err)
	assert.Equal(t, idA[8:], idB[8:], "random bits come from the reader")
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "00000000000000000000000000", Encode(uuid.Nil))
	var ceiling uuid.UUID
	for i := range ceiling {
		ceiling[i] = 0xff
	}
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", Encode(ceiling))

	id := uuid.MustParse("0190f1a2-b3c4-7d5e-8f60-718293a4b5c6")
	back, err := Decode(Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, back)
}

func TestEncode_SortsByTime(t *testing.T) {
	early := uuid.MustParse("0190f1a2-b3c4-7d5e-8f60-718293a4b5c6")
	late := uuid.MustParse("0190f1a2-b3c5-7000-8000-000000000000")
	assert.Less(t, Encode(early), Encode(late))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"valid", "01h455vb4pex5vsknk084sn02q", true},
		{"too short", "01h455vb4pex5vsknk084sn02", false},
		{"first char too large", "81h455vb4pex5vsknk084sn02q", false},
		{"excluded letter", "01h455vb4pex5vsknk084sn0iq", false},
		{"upper case", "01H455VB4PEX5VSKNK084SN02Q", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
