// Package convert runs the decode, normalize, encode pipeline between
// property lists and JSON.
package convert

import (
	"github.com/pkg/errors"
	"github.com/rebeccajae/plistconv/internal/codec"
	"github.com/rebeccajae/plistconv/internal/value"
	"github.com/rs/zerolog"
)

const (
	DefaultIndent   = "    "
	DefaultMaxDepth = 512
)

// Options configure a Converter.
type Options struct {
	// Indent is the per-level JSON indentation. Empty means compact.
	Indent string
	// MaxDepth bounds the nesting of decoded documents. Zero disables the
	// check.
	MaxDepth int
	Logger   zerolog.Logger
}

// DefaultOptions returns four-space JSON indentation, a depth limit of
// DefaultMaxDepth and a disabled logger.
func DefaultOptions() Options {
	return Options{
		Indent:   DefaultIndent,
		MaxDepth: DefaultMaxDepth,
		Logger:   zerolog.Nop(),
	}
}

// Converter converts whole documents. It holds no mutable state and may be
// shared between goroutines.
type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Convert converts data from in to out using DefaultOptions.
func Convert(data []byte, in, out Format) ([]byte, error) {
	return New(DefaultOptions()).Convert(data, in, out)
}

// Convert decodes data as in, normalizes blobs into strings unless a JSON
// document is being turned into a property list, and encodes the result as
// out. On error no output is returned.
func (c *Converter) Convert(data []byte, in, out Format) ([]byte, error) {
	if !in.valid() || !out.valid() {
		return nil, &UnsupportedError{In: in, Out: out}
	}
	log := c.opts.Logger.With().Str("in", in.String()).Str("out", out.String()).Logger()

	tree, err := c.decode(data, in)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("bytes", len(data)).Str("root", value.KindOf(tree).String()).Msg("decoded input")

	if !(in == FormatJSON && out.isPlist()) {
		tree = value.Normalize(tree)
		log.Trace().Msg("normalized tree")
	}

	res, err := c.encode(tree, out)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("bytes", len(res)).Msg("encoded output")
	return res, nil
}

func (c *Converter) decode(data []byte, in Format) (value.Value, error) {
	var (
		tree value.Value
		err  error
	)
	switch {
	case in == FormatJSON:
		tree, err = codec.DecodeJSON(data)
	case in.isPlist():
		tree, err = codec.DecodePlist(data)
	}
	if err != nil {
		return nil, &DecodeError{Format: in, Err: err}
	}
	if c.opts.MaxDepth > 0 {
		if depth := value.Depth(tree); depth > c.opts.MaxDepth {
			return nil, &DecodeError{
				Format: in,
				Err:    errors.Errorf("document nests %d levels, limit is %d", depth, c.opts.MaxDepth),
			}
		}
	}
	return tree, nil
}

func (c *Converter) encode(tree value.Value, out Format) ([]byte, error) {
	var (
		res []byte
		err error
	)
	switch out {
	case FormatJSON:
		res, err = codec.EncodeJSON(tree, c.opts.Indent)
	case FormatXML:
		res, err = codec.EncodePlist(tree, codec.PlistXML)
	case FormatBinary:
		res, err = codec.EncodePlist(tree, codec.PlistBinary)
	}
	if err != nil {
		return nil, &EncodeError{Format: out, Err: err}
	}
	return res, nil
}
