package unfmt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIntoNamed(t *testing.T) {
	type request struct {
		Host  string
		Port  int `unfmt:"port"`
		Ratio float64
	}

	p, err := Compile("{host:s}:{port:d} at {ratio:f}")
	require.NoError(t, err)

	var req request
	require.NoError(t, p.MatchInto("example.com:8080 at 0.75", &req))
	assert.Equal(t, "example.com", req.Host)
	assert.Equal(t, 8080, req.Port)
	assert.Equal(t, 0.75, req.Ratio)
}

func TestMatchIntoPositional(t *testing.T) {
	type pair struct {
		Count int64
		Word  string
	}

	p, err := Compile("{1:s} {0:d}")
	require.NoError(t, err)

	// Index 0 binds to the first exported field regardless of where the
	// field appears in the format string.
	var got pair
	require.NoError(t, p.MatchInto("hello 7", &got))
	assert.Equal(t, int64(7), got.Count)
	assert.Equal(t, "hello", got.Word)
}

func TestMatchIntoBareValue(t *testing.T) {
	type single struct {
		N int
	}

	p, err := Compile("{:d}")
	require.NoError(t, err)

	var got single
	require.NoError(t, p.MatchInto("42", &got))
	assert.Equal(t, 42, got.N)
}

func TestMatchIntoUUIDField(t *testing.T) {
	type resource struct {
		ID    uuid.UUID `unfmt:"id"`
		Count uint16
	}

	p, err := Compile("resource {id:s} seen {count:d} times")
	require.NoError(t, err)

	var res resource
	require.NoError(t, p.MatchInto("resource 3b241101-e2bb-4255-8caf-4136c566a962 seen 3 times", &res))
	assert.Equal(t, uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962"), res.ID)
	assert.Equal(t, uint16(3), res.Count)
}

func TestMatchIntoTextUnmarshaler(t *testing.T) {
	type event struct {
		At time.Time `unfmt:"at"`
	}

	p, err := Compile("happened at {at:s}")
	require.NoError(t, err)

	var ev event
	require.NoError(t, p.MatchInto("happened at 2024-05-01T10:30:00Z", &ev))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), ev.At)
}

func TestMatchIntoErrors(t *testing.T) {
	t.Run("dest must be a struct pointer", func(t *testing.T) {
		p, err := Compile("{a:s}")
		require.NoError(t, err)

		assert.ErrorIs(t, p.MatchInto("x", nil), ErrBindUnsupported)

		var s string
		assert.ErrorIs(t, p.MatchInto("x", &s), ErrBindUnsupported)

		type dst struct{ A string }
		var d dst
		assert.ErrorIs(t, p.MatchInto("x", d), ErrBindUnsupported)
	})

	t.Run("unmatched name", func(t *testing.T) {
		type dst struct{ Other string }
		p, err := Compile("{a:s}")
		require.NoError(t, err)

		var d dst
		err = p.MatchInto("x", &d)
		assert.ErrorIs(t, err, ErrBindUnsupported)
	})

	t.Run("overflow", func(t *testing.T) {
		type dst struct {
			N int8 `unfmt:"n"`
		}
		p, err := Compile("{n:d}")
		require.NoError(t, err)

		var d dst
		err = p.MatchInto("300", &d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflows")
	})

	t.Run("negative into unsigned", func(t *testing.T) {
		type dst struct {
			N uint `unfmt:"n"`
		}
		p, err := Compile("{n:d}")
		require.NoError(t, err)

		var d dst
		assert.Error(t, p.MatchInto("-3", &d))
	})

	t.Run("too many positional values", func(t *testing.T) {
		type dst struct{ A string }
		p, err := Compile("{:s} {:s}")
		require.NoError(t, err)

		var d dst
		assert.ErrorIs(t, p.MatchInto("x y", &d), ErrBindUnsupported)
	})

	t.Run("carrier values cannot bind", func(t *testing.T) {
		type dst struct{ A any }
		p, err := Compile("{a.x:s}")
		require.NoError(t, err)

		var d dst
		assert.ErrorIs(t, p.MatchInto("v", &d), ErrBindUnsupported)
	})

	t.Run("match failure passes through", func(t *testing.T) {
		type dst struct{ N int }
		p, err := Compile("{n:d}")
		require.NoError(t, err)

		var d dst
		assert.ErrorIs(t, p.MatchInto("nope", &d), ErrNoMatch)
	})
}

func TestMatchIntoInterfaceField(t *testing.T) {
	type dst struct {
		V any `unfmt:"v"`
	}

	p, err := Compile("{v:d}")
	require.NoError(t, err)

	var d dst
	require.NoError(t, p.MatchInto("11", &d))
	assert.Equal(t, int64(11), d.V)
}
