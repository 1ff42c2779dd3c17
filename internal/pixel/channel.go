package pixel

import "strings"

// Channel selects one of the R, G or B components of a pixel or color.
type Channel uint8

const (
	ChannelNone Channel = iota
	ChannelR
	ChannelG
	ChannelB
)

// ParseChannel maps a token to a channel. Unknown tokens map to ChannelNone,
// which resolves to 0.
func ParseChannel(tok string) Channel {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "r":
		return ChannelR
	case "g":
		return ChannelG
	case "b":
		return ChannelB
	}
	return ChannelNone
}

func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "r"
	case ChannelG:
		return "g"
	case ChannelB:
		return "b"
	}
	return "?"
}

// from picks the channel out of an RGB triple.
func (c Channel) from(src [3]uint8) uint8 {
	switch c {
	case ChannelR:
		return src[0]
	case ChannelG:
		return src[1]
	case ChannelB:
		return src[2]
	}
	return 0
}

// Operand is an ordered list of channel tokens, one per output position.
// An empty operand means "use the default".
type Operand []Channel

var (
	// DefaultLeft passes the pixel through unchanged.
	DefaultLeft = Operand{ChannelR, ChannelG, ChannelB}
	// DefaultRight reads the constant color as (r, b, g). This ordering is
	// long-standing observable behavior and is kept on purpose.
	DefaultRight = Operand{ChannelR, ChannelB, ChannelG}
)

// ParseOperand converts tokens such as ["b", "g", "r"] into an Operand.
func ParseOperand(tokens []string) Operand {
	if len(tokens) == 0 {
		return nil
	}
	op := make(Operand, len(tokens))
	for i, t := range tokens {
		op[i] = ParseChannel(t)
	}
	return op
}

// SplitTokens splits a flag value like "b,g,r" or "b g r" into tokens.
func SplitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Resolve returns the triple fed into output positions R, G, B. With no
// tokens def is used. Missing positions and unknown tokens yield 0; tokens
// past the third are ignored.
func (o Operand) Resolve(src [3]uint8, def Operand) [3]uint8 {
	if len(o) == 0 {
		o = def
	}
	var out [3]uint8
	for i := 0; i < len(o) && i < 3; i++ {
		out[i] = o[i].from(src)
	}
	return out
}

func (o Operand) String() string {
	parts := make([]string, len(o))
	for i, c := range o {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
