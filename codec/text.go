package codec

// Char codes a byte as the sequence of its eight bits, least
// significant first, through the boolean sequence codec. A decoded
// sequence of any other length falls back to NUL.
func Char() Morph[byte, []bool] {
	return Morph[byte, []bool]{
		Inner: Seq[bool]{Elem: Bool{}},
		To: func(b byte) []bool {
			bits := make([]bool, 8)
			for i := range bits {
				bits[i] = b&(1<<i) != 0
			}
			return bits
		},
		From: func(bits []bool) byte {
			if len(bits) != 8 {
				return 0
			}
			var b byte
			for i, set := range bits {
				if set {
					b |= 1 << i
				}
			}
			return b
		},
	}
}

// String codes a string as the sequence of its bytes under Char: the
// empty string is a leaf, a non-empty one a branch of the encoded first
// byte and the encoded remainder.
func String() Morph[string, []byte] {
	return Morph[string, []byte]{
		Inner: Seq[byte]{Elem: Char()},
		To:    func(s string) []byte { return []byte(s) },
		From:  func(b []byte) string { return string(b) },
	}
}
