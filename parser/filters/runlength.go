package filters

// runLengthDecode implements the PackBits-style run-length format: a
// header byte H in 0..127 repeats the following byte H+1 times; 128 ends
// the data; H in 129..255 copies the next 257-H bytes verbatim.
func runLengthDecode(value []byte) ([]byte, error) {
	var out []byte
	pos := 0
	for pos < len(value) {
		h := value[pos]
		switch {
		case h < 128:
			if pos+1 >= len(value) {
				return nil, &CorruptStreamError{Filter: "RunLengthDecode", Reason: "truncated repeat run"}
			}
			for i := 0; i < int(h)+1; i++ {
				out = append(out, value[pos+1])
			}
			pos += 2
		case h == 128:
			pos = len(value)
		default:
			n := 257 - int(h)
			if pos+1+n > len(value) {
				return nil, &CorruptStreamError{Filter: "RunLengthDecode", Reason: "truncated literal run"}
			}
			out = append(out, value[pos+1:pos+1+n]...)
			pos += 1 + n
		}
	}
	return out, nil
}

// runLengthEncode always emits repeat runs (header 0..127), which is
// legal under the decode contract above even though it foregoes the
// literal-run header's space saving on non-repeating data; the source
// this core was distilled from produces similarly non-optimal, but valid,
// output via a different (two-pass) shape.
func runLengthEncode(value []byte) []byte {
	if len(value) == 0 {
		return []byte{128}
	}
	var out []byte
	pos := 0
	for pos < len(value) {
		run := 1
		for pos+run < len(value) && value[pos+run] == value[pos] && run < 128 {
			run++
		}
		out = append(out, byte(run-1), value[pos])
		pos += run
	}
	out = append(out, 128)
	return out
}
