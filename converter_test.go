package unfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterForSignPrefixes(t *testing.T) {
	reg := NewConverterRegistry(ConverterRegistryOpts{})

	tests := []struct {
		name   string
		spec   formatSpec
		prefix string
	}{
		{"no sign allows optional minus", formatSpec{typeChar: 'd'}, "[-]?"},
		{"minus sign allows optional minus", formatSpec{typeChar: 'd', sign: SignMinus}, "[-]?"},
		{"plus sign requires a sign", formatSpec{typeChar: 'd', sign: SignPlus}, "[-+]"},
		{"space sign allows blank", formatSpec{typeChar: 'd', sign: SignSpace}, "[- ]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, _, err := reg.converterFor(tt.spec)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(frag, tt.prefix), "fragment %q", frag)
		})
	}
}

func TestConverterForAlternateForm(t *testing.T) {
	reg := NewConverterRegistry(ConverterRegistryOpts{})

	frag, convert, err := reg.converterFor(formatSpec{typeChar: 'x', alt: true})
	require.NoError(t, err)
	assert.Contains(t, frag, "0x")

	v, err := convert("-0x2a")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)

	v, err = convert("0x2a")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, _, err = reg.converterFor(formatSpec{typeChar: 'd', alt: true})
	assert.ErrorIs(t, err, ErrUnsupportedSpec)
}

func TestConverterForUnknownType(t *testing.T) {
	reg := NewConverterRegistry(ConverterRegistryOpts{})
	_, _, err := reg.converterFor(formatSpec{typeChar: 'q'})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSpec)
}

func TestBuiltinConversions(t *testing.T) {
	tests := []struct {
		typeChar byte
		text     string
		want     any
	}{
		{'s', "anything", "anything"},
		{'d', "42", int64(42)},
		{'d', "-42", int64(-42)},
		{'d', " 42", int64(42)}, // space sign flag captures the blank
		{'b', "101010", int64(42)},
		{'o', "52", int64(42)},
		{'x', "2a", int64(42)},
		{'X', "2A", int64(42)},
		{'f', "42.123", 42.123},
		{'e', "4.2123e-09", 4.2123e-09},
		{'%', "12.5%", 0.125},
	}

	reg := NewConverterRegistry(ConverterRegistryOpts{})
	for _, tt := range tests {
		t.Run(string(tt.typeChar)+"/"+tt.text, func(t *testing.T) {
			conv, err := reg.lookup(tt.typeChar)
			require.NoError(t, err)
			v, err := conv.Convert(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Run("new type character", func(t *testing.T) {
		reg := NewConverterRegistry(ConverterRegistryOpts{})
		err := reg.Register('Z', Converter{Fragment: `[A-Z]+?`, Convert: convertString})
		require.NoError(t, err)

		p, err := CompileWithOpts("{0:Z}!", CompileOpts{Registry: reg})
		require.NoError(t, err)
		v, err := p.Match("HELLO!")
		require.NoError(t, err)
		assert.Equal(t, "HELLO", v)
	})

	t.Run("collision is rejected", func(t *testing.T) {
		reg := NewConverterRegistry(ConverterRegistryOpts{})
		err := reg.Register('d', Converter{Fragment: `x`, Convert: convertString})
		assert.ErrorIs(t, err, ErrConverterAlreadyRegistered)
	})

	t.Run("collision allowed with AllowOverride", func(t *testing.T) {
		reg := NewConverterRegistry(ConverterRegistryOpts{AllowOverride: true})
		err := reg.Register('d', Converter{Fragment: `[0-9]+?`, Convert: convertString})
		require.NoError(t, err)

		p, err := CompileWithOpts("{0:d}", CompileOpts{Registry: reg})
		require.NoError(t, err)
		v, err := p.Match("42")
		require.NoError(t, err)
		assert.Equal(t, "42", v, "override returns the raw digits as a string")
	})

	t.Run("nil convert function is rejected", func(t *testing.T) {
		reg := NewConverterRegistry(ConverterRegistryOpts{})
		err := reg.Register('Z', Converter{Fragment: `x`})
		assert.Error(t, err)
	})

	t.Run("exclude defaults", func(t *testing.T) {
		reg := NewConverterRegistry(ConverterRegistryOpts{ExcludeDefaults: true})
		_, err := reg.lookup('d')
		assert.ErrorIs(t, err, ErrConverterNotFound)
	})
}

func TestDefaultConvertersIsACopy(t *testing.T) {
	reg := DefaultConverters()
	require.NoError(t, reg.Register('Z', Converter{Fragment: `[A-Z]+?`, Convert: convertString}))

	// The registry Compile falls back to must not have picked up 'Z'.
	_, err := Compile("{0:Z}")
	assert.ErrorIs(t, err, ErrUnsupportedSpec)
}
