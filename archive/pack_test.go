package archive

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stelpack/stelpack/errs"
	"github.com/stretchr/testify/require"
)

// sampleEntity builds a compressible payload: repeated structure with a
// little noise, similar in shape to a real entity.
func sampleEntity(size int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, size)
	for i := range out {
		switch {
		case i%16 < 10:
			out[i] = byte(i % 7)
		default:
			out[i] = byte(rng.Intn(4))
		}
	}

	return out
}

func TestCodec_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x42},
		sampleEntity(64, 1),
		sampleEntity(4096, 2),
		sampleEntity(1<<17, 3),
	}

	for _, ct := range []Type{None, Zstd, S2, LZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			for _, in := range payloads {
				packed, err := codec.Compress(in)
				require.NoError(t, err)

				out, err := codec.Decompress(packed)
				require.NoError(t, err)
				require.True(t, bytes.Equal(in, out), "payload %d bytes", len(in))
			}
		})
	}
}

func TestCodec_CompressesRedundantData(t *testing.T) {
	in := sampleEntity(1<<16, 9)
	for _, ct := range []Type{Zstd, S2, LZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)
		packed, err := codec.Compress(in)
		require.NoError(t, err)
		require.Less(t, len(packed), len(in), "codec %s", ct)
	}
}

func TestCodec_DecompressRejectsGarbage(t *testing.T) {
	garbage := sampleEntity(256, 11)
	for _, ct := range []Type{Zstd, LZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)
		_, err = codec.Decompress(garbage)
		require.Error(t, err, "codec %s", ct)
	}
}

func TestGetCodec_Unknown(t *testing.T) {
	_, err := GetCodec(Type(99))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestType_String(t *testing.T) {
	require.Equal(t, "none", None.String())
	require.Equal(t, "zstd", Zstd.String())
	require.Equal(t, "s2", S2.String())
	require.Equal(t, "lz4", LZ4.String())
	require.NotEmpty(t, Type(99).String())
}

func TestPack_SingleRoundTrip(t *testing.T) {
	ent := sampleEntity(2048, 5)

	for _, ct := range []Type{None, Zstd, S2, LZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			packed, err := Pack(ent, ct)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(packed), containerHeaderSize)

			out, err := Unpack(packed)
			require.NoError(t, err)
			require.Equal(t, ent, out)
		})
	}
}

func TestPacker_Stream(t *testing.T) {
	ents := [][]byte{
		sampleEntity(128, 1),
		sampleEntity(1024, 2),
		sampleEntity(64, 3),
	}

	p, err := NewPacker(Zstd)
	require.NoError(t, err)
	defer p.Close()

	for _, ent := range ents {
		require.NoError(t, p.Add(ent))
	}

	got, err := UnpackAll(p.Bytes())
	require.NoError(t, err)
	require.Len(t, got, len(ents))
	for i := range ents {
		require.Equal(t, ents[i], got[i], "entity %d", i)
	}
}

func TestPacker_NilEntity(t *testing.T) {
	p, err := NewPacker(S2)
	require.NoError(t, err)
	defer p.Close()

	require.ErrorIs(t, p.Add(nil), errs.ErrEntityNil)
}

func TestNewPacker_UnknownCodec(t *testing.T) {
	_, err := NewPacker(Type(42))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestUnpack_Corruption(t *testing.T) {
	ent := sampleEntity(512, 7)
	packed, err := Pack(ent, S2)
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := Unpack(packed[:containerHeaderSize-1])
		require.ErrorIs(t, err, errs.ErrDecoderCorruption)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[offMagic] = 0x00
		_, err := Unpack(bad)
		require.ErrorIs(t, err, errs.ErrDecoderCorruption)
	})

	t.Run("unknown version", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[offVersion] = 9
		_, err := Unpack(bad)
		require.ErrorIs(t, err, errs.ErrUnsupportedType)
	})

	t.Run("unknown codec", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[offCodecType] = 42
		_, err := Unpack(bad)
		require.ErrorIs(t, err, errs.ErrUnsupportedType)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Unpack(packed[:len(packed)-1])
		require.ErrorIs(t, err, errs.ErrDecoderCorruption)
	})

	t.Run("size mismatch", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[offOrigSize+3]++ // original size no longer matches the payload
		_, err := Unpack(bad)
		require.ErrorIs(t, err, errs.ErrDecoderCorruption)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		bad := append(append([]byte(nil), packed...), 0x00)
		_, err := Unpack(bad)
		require.ErrorIs(t, err, errs.ErrDecoderCorruption)
	})
}
